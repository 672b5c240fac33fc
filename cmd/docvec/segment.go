package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/docvec/segment"
)

var (
	flagSegWindow  int
	flagSegOverlap float64
)

func init() {
	segmentCmd.Flags().IntVar(&flagSegWindow, "window", segment.DefaultWindowSize, "Words per chunk")
	segmentCmd.Flags().Float64Var(&flagSegOverlap, "overlap", segment.DefaultOverlapFraction, "Chunk overlap fraction in [0,1]")

	rootCmd.AddCommand(segmentCmd)
}

var segmentCmd = &cobra.Command{
	Use:   "segment [file]",
	Short: "Show the word windows a document splits into",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSegment,
}

// segmentOutput is the JSON output shape.
type segmentOutput struct {
	Count  int      `json:"count"`
	Chunks []string `json:"chunks"`
}

func runSegment(_ *cobra.Command, args []string) error {
	text, err := readTextArg(args)
	if err != nil {
		os.Exit(outputError(ExitError, "%v", err))
	}

	chunks, err := segment.Split(text, flagSegWindow, flagSegOverlap)
	if err != nil {
		os.Exit(outputError(ExitUsage, "%v", err))
	}

	if humanOutput {
		for i, chunk := range chunks {
			fmt.Printf("[%d] %s\n", i, chunk)
		}

		fmt.Fprintf(os.Stderr, "%d chunks\n", len(chunks))

		return nil
	}

	outputJSON(segmentOutput{Count: len(chunks), Chunks: chunks})

	return nil
}

// readTextArg reads the document from the argument path, or stdin when
// absent or "-".
func readTextArg(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}

		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", err
	}

	return string(data), nil
}
