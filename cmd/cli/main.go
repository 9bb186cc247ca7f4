package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// options are the flags shared by every subcommand
type options struct {
	configPath string
	format     string
	verbose    bool

	groupColumn  string
	groupingHint string
	intent       string
	questions    []string
	resultsFile  string
	validationID string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "stataid",
		Short:         "Profile a dataset, check it, and suggest statistical methods",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to a YAML config file (environment variables override it)")
	rootCmd.PersistentFlags().StringVarP(&opts.format, "format", "f", "", "Output format: json|yaml|markdown|html")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log to stderr")

	rootCmd.AddCommand(
		newValidateCmd(opts),
		newRecommendCmd(opts),
		newResolveCmd(opts),
		newReportCmd(opts),
		newAnswersCmd(opts),
	)
	return rootCmd
}
