package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/docvec/aggregate"
	"github.com/cwbudde/docvec/corpus"
	"github.com/cwbudde/docvec/pipeline"
)

var (
	flagWindowSize int
	flagOverlap    float64
	flagCutoff     float64
	flagNoFilter   bool
	flagWorkers    int
	flagSeed       int64
	flagShuffle    bool
)

func init() {
	aggregateCmd.Flags().IntVar(&flagWindowSize, "window", 0, "Words per chunk (default from config)")
	aggregateCmd.Flags().Float64Var(&flagOverlap, "overlap", -1, "Chunk overlap fraction in [0,1]")
	aggregateCmd.Flags().Float64Var(&flagCutoff, "cutoff", -1, "Lowpass cutoff fraction in [0,1]")
	aggregateCmd.Flags().BoolVar(&flagNoFilter, "no-filter", false, "Disable the lowpass filter (plain mean)")
	aggregateCmd.Flags().IntVar(&flagWorkers, "workers", 0, "Concurrently processed documents")
	aggregateCmd.Flags().Int64Var(&flagSeed, "seed", 0, "Shuffle seed (use with --shuffle)")
	aggregateCmd.Flags().BoolVar(&flagShuffle, "shuffle", false, "Shuffle the corpus before processing")

	rootCmd.AddCommand(aggregateCmd)
}

var aggregateCmd = &cobra.Command{
	Use:   "aggregate [corpus.jsonl]",
	Short: "Aggregate each corpus document into one embedding vector",
	Long: `Aggregate reads a JSONL corpus ({"id", "text", "label"} per line),
runs every document through segmentation, embedding, and spectral averaging,
and writes one JSON result per line: {"id", "label", "vector"} on success or
{"id", "label", "error"} on failure. A failing document never aborts the rest.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAggregate,
}

// aggregateResult is the JSON output shape for one document.
type aggregateResult struct {
	ID     string    `json:"id"`
	Label  string    `json:"label,omitempty"`
	Vector []float64 `json:"vector,omitempty"`
	Error  string    `json:"error,omitempty"`
}

func runAggregate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		os.Exit(outputError(ExitUsage, "%v", err))
	}

	applyAggregateFlags(cmd, cfg)

	docs, err := loadCorpus(args)
	if err != nil {
		os.Exit(outputError(ExitError, "%v", err))
	}

	if flagShuffle {
		seed := flagSeed
		if !cmd.Flags().Changed("seed") && cfg.Seed != nil {
			seed = *cfg.Seed
		}

		corpus.Shuffle(docs, seed)
	}

	averager, err := aggregate.New(
		aggregate.WithCutoff(cfg.CutoffFraction),
		aggregate.WithFilter(cfg.filterEnabled()),
	)
	if err != nil {
		os.Exit(outputError(ExitUsage, "%v", err))
	}

	opts := []pipeline.Option{
		pipeline.WithWindowSize(cfg.WindowSize),
		pipeline.WithOverlap(cfg.OverlapFraction),
		pipeline.WithWorkers(cfg.Workers),
		pipeline.WithAverager(averager),
	}

	if humanOutput {
		opts = append(opts, pipeline.WithProgress(pipeline.ProgressFunc(func(current, total int) {
			fmt.Fprintf(os.Stderr, "\rprocessed %d/%d", current, total)
		})))
	}

	p, err := pipeline.New(buildProvider(cfg), opts...)
	if err != nil {
		os.Exit(outputError(ExitUsage, "%v", err))
	}

	results := p.Run(cmd.Context(), docs)

	if humanOutput {
		fmt.Fprintln(os.Stderr)
	}

	failed := 0

	for _, res := range results {
		out := aggregateResult{ID: res.ID, Label: res.Label, Vector: res.Vector}
		if res.Err != nil {
			out.Error = res.Err.Error()
			failed++
		}

		if humanOutput {
			if out.Error != "" {
				fmt.Printf("%s: error: %s\n", out.ID, out.Error)
			} else {
				fmt.Printf("%s: %d dimensions\n", out.ID, len(out.Vector))
			}
		} else {
			outputJSON(out)
		}
	}

	if humanOutput {
		fmt.Fprintf(os.Stderr, "%d documents, %d failed\n", len(results), failed)
	}

	if failed == len(results) && len(results) > 0 {
		os.Exit(ExitError)
	}

	return nil
}

func applyAggregateFlags(cmd *cobra.Command, cfg *appConfig) {
	if cmd.Flags().Changed("window") {
		cfg.WindowSize = flagWindowSize
	}

	if cmd.Flags().Changed("overlap") {
		cfg.OverlapFraction = flagOverlap
	}

	if cmd.Flags().Changed("cutoff") {
		cfg.CutoffFraction = flagCutoff
	}

	if flagNoFilter {
		disabled := false
		cfg.Filter = &disabled
	}

	if cmd.Flags().Changed("workers") {
		cfg.Workers = flagWorkers
	}
}

// loadCorpus reads the corpus from the argument path, or stdin when absent
// or "-".
func loadCorpus(args []string) ([]corpus.Document, error) {
	if len(args) == 0 || args[0] == "-" {
		return corpus.Read(os.Stdin)
	}

	return corpus.Load(args[0])
}
