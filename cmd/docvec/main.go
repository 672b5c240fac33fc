// Package main provides the docvec CLI entry point.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var Version = "dev"

// humanOutput switches from JSON lines to human-readable output.
var humanOutput bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "docvec",
	Short: "Aggregate long documents into single embedding vectors",
	Long: `docvec turns long documents into fixed-length embedding vectors.

Each document is split into overlapping word windows, every window is embedded
by an OpenAI-compatible provider, and the per-window embedding sequence is
smoothed with a short-time Fourier transform and lowpass filter along the
window axis before averaging. Results are emitted as JSON lines for downstream
classifiers.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		// Pick up API keys from a local .env when present.
		_ = godotenv.Load()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file")
	rootCmd.Version = Version
}
