package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/docvec/dsp/spectrum"
	"github.com/cwbudde/docvec/dsp/stft"
	"github.com/cwbudde/docvec/segment"
)

func init() {
	rootCmd.AddCommand(spectrumCmd)
}

var spectrumCmd = &cobra.Command{
	Use:   "spectrum [file]",
	Short: "Show the chunk-axis energy profile of one document",
	Long: `Spectrum embeds one document's word windows and prints the average
per-bin power of the chunk-axis spectrogram, averaged over all embedding
dimensions. Energy concentrated in the low bins means the embedding sequence
drifts slowly across the document; high-bin energy means it fluctuates from
chunk to chunk.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSpectrum,
}

// spectrumOutput is the JSON output shape.
type spectrumOutput struct {
	Chunks int       `json:"chunks"`
	Bins   int       `json:"bins"`
	Power  []float64 `json:"power"`
}

func runSpectrum(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		os.Exit(outputError(ExitUsage, "%v", err))
	}

	text, err := readTextArg(args)
	if err != nil {
		os.Exit(outputError(ExitError, "%v", err))
	}

	chunks, err := segment.Split(text, cfg.WindowSize, cfg.OverlapFraction)
	if err != nil {
		os.Exit(outputError(ExitUsage, "%v", err))
	}

	if len(chunks) == 0 {
		os.Exit(outputError(ExitError, "document has no words"))
	}

	vectors, err := buildProvider(cfg).Embed(cmd.Context(), chunks)
	if err != nil {
		os.Exit(outputError(ExitError, "%v", err))
	}

	tr, err := stft.New()
	if err != nil {
		os.Exit(outputError(ExitError, "%v", err))
	}

	profile := make([]float64, tr.Bins())
	column := make([]float64, len(vectors))
	dims := len(vectors[0])

	for d := range dims {
		for i := range vectors {
			column[i] = vectors[i][d]
		}

		spec, err := tr.Forward(column)
		if err != nil {
			os.Exit(outputError(ExitError, "dimension %d: %v", d, err))
		}

		for k, p := range spectrum.AveragePowerPerBin(spec) {
			profile[k] += p
		}
	}

	for k := range profile {
		profile[k] /= float64(dims)
	}

	if humanOutput {
		for k, p := range profile {
			fmt.Printf("bin %2d: %.6g\n", k, p)
		}

		return nil
	}

	outputJSON(spectrumOutput{Chunks: len(chunks), Bins: len(profile), Power: profile})

	return nil
}
