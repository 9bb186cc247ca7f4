package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"stataid/app"
	"stataid/domain/assumptions"
	"stataid/domain/core"
	"stataid/domain/stats"
)

func newValidateCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [data-file]",
		Short: "Profile and validate a CSV or XLSX file",
		Long: `Profile every column, check dataset limits and data quality, and run
assumption tests through the configured engine.

Example: stataid validate sales.csv --group region`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer rt.close()

			ds, err := rt.container.Reader.ReadFile(args[0])
			if err != nil {
				return err
			}
			result, err := rt.container.Advisor.Validate(cmd.Context(), ds, opts.groupColumn)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts.format, "json", &app.Analysis{Validation: result}, result)
		},
	}
	cmd.Flags().StringVarP(&opts.groupColumn, "group", "g", "", "Grouping column for per-group assumption tests")
	return cmd
}

func newRecommendCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommend [data-file]",
		Short: "Rank candidate statistical methods for a dataset",
		Long: `Validate the dataset and rank statistical methods that fit its column shapes.
A research intent nudges the ranking towards the methods it mentions.

Example: stataid recommend sales.csv --intent "do sales differ between regions?"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer rt.close()

			req, err := rt.request(args)
			if err != nil {
				return err
			}
			analysis, err := rt.container.Advisor.Recommend(cmd.Context(), req)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts.format, "json", analysis, analysis.Recommendations)
		},
	}
	addAnalysisFlags(cmd, opts)
	return cmd
}

func newResolveCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve [data-file]",
		Short: "Answer the assumption questions for a dataset",
		Long: `Answer the normality, variance homogeneity and variable type questions from
test results and heuristics. Without a data file, --validation-id re-resolves a
stored validation run; --results supplies fresh test results as JSON keyed by
question id.

Example: stataid resolve --validation-id 3f2a... --results results.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer rt.close()

			req, err := rt.request(args)
			if err != nil {
				return err
			}
			analysis, err := rt.container.Advisor.Resolve(cmd.Context(), req)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts.format, "json", analysis, analysis.Answers)
		},
	}
	addAnalysisFlags(cmd, opts)
	cmd.Flags().StringVar(&opts.validationID, "validation-id", "", "Stored validation run to resolve instead of a data file")
	cmd.Flags().StringVar(&opts.resultsFile, "results", "", "JSON file of test results keyed by question id")
	cmd.Flags().StringSliceVarP(&opts.questions, "question", "q", nil, "Questions to answer (default: all)")
	return cmd
}

func newReportCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report [data-file]",
		Short: "Run the full analysis and print a report",
		Long: `Validate, recommend and resolve in one pass. The default output is Markdown;
--format html writes a standalone page.

Example: stataid report sales.csv --group region -f html > report.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer rt.close()

			req, err := rt.request(args)
			if err != nil {
				return err
			}
			analysis, err := rt.container.Advisor.Analyze(cmd.Context(), req)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts.format, "markdown", analysis, analysis)
		},
	}
	addAnalysisFlags(cmd, opts)
	return cmd
}

func newAnswersCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "answers [fingerprint]",
		Short: "List the stored assumption answers for a dataset fingerprint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer rt.close()

			answers, err := rt.container.Advisor.Answers(cmd.Context(), core.DatasetFingerprint(args[0]))
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts.format, "json", &app.Analysis{Answers: answers}, answers)
		},
	}
}

func addAnalysisFlags(cmd *cobra.Command, opts *options) {
	cmd.Flags().StringVarP(&opts.groupColumn, "group", "g", "", "Grouping column for per-group assumption tests")
	cmd.Flags().StringVar(&opts.groupingHint, "hint", "", "Grouping column the resolver should assume")
	cmd.Flags().StringVarP(&opts.intent, "intent", "i", "", "Research question in plain words")
}

// loadResults reads test results keyed by question id
func loadResults(path string) (map[assumptions.QuestionID][]stats.TestOutcome, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read results: %w", err)
	}
	var results map[assumptions.QuestionID][]stats.TestOutcome
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("%w: results file: %v", core.ErrMalformedInput, err)
	}
	return results, nil
}
