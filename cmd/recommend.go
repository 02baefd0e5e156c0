package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/xrsl/careerflow/pkg/app"
	"github.com/xrsl/careerflow/pkg/recommend"
	"github.com/xrsl/careerflow/pkg/style"
)

var (
	recommendLimit int
	recommendJSON  bool
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Suggest which workflow to do next",
	Long: `Rank catalog workflows for your current situation.

Scores take into account the documents and applications you have, the
workflows you already completed, how long you have been away and your
career goal (careerflow context set careerGoal "...").`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			recs := a.Engine.Recommendations(ctx, recommendLimit)
			a.Metrics.RecommendationsServed(len(recs))
			if recommendJSON {
				return printJSON(cmd.OutOrStdout(), recs)
			}
			printRecommendations(cmd.OutOrStdout(), recs)
			return nil
		})
	},
}

func init() {
	recommendCmd.Flags().IntVarP(&recommendLimit, "limit", "n", 3, "Maximum number of recommendations")
	recommendCmd.Flags().BoolVar(&recommendJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(recommendCmd)
}

func printRecommendations(out io.Writer, recs []recommend.Recommendation) {
	if len(recs) == 0 {
		fmt.Fprintln(out, "Nothing to recommend right now.")
		return
	}
	for i, r := range recs {
		fmt.Fprintf(out, "%d. %s  %s %s\n", i+1, style.B(r.Name), style.Priority(string(r.Priority)),
			style.C(style.Gray, fmt.Sprintf("(%d)", r.Score)))
		fmt.Fprintf(out, "   %s\n", r.Reason)
		fmt.Fprintf(out, "   %s\n", style.C(style.Gray, fmt.Sprintf("%s · %s · careerflow start %s", r.Category, r.EstimatedTime, r.WorkflowID)))
	}
}
