package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/xrsl/careerflow/pkg/app"
	"github.com/xrsl/careerflow/pkg/dashboard"
	"github.com/xrsl/careerflow/pkg/style"
)

var (
	dashboardJSON  bool
	dashboardLimit int
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show progress, performance, impact and recommendations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			view := a.Board.Load(ctx, dashboardLimit)
			a.Metrics.RecommendationsServed(len(view.Recommendations))
			if dashboardJSON {
				return printJSON(cmd.OutOrStdout(), view)
			}
			printDashboard(cmd.OutOrStdout(), view)
			return nil
		})
	},
}

func init() {
	dashboardCmd.Flags().BoolVar(&dashboardJSON, "json", false, "Output as JSON")
	dashboardCmd.Flags().IntVarP(&dashboardLimit, "limit", "n", 3, "Number of recommendations")
	rootCmd.AddCommand(dashboardCmd)
}

func printDashboard(out io.Writer, v dashboard.View) {
	an := v.Analytics
	fmt.Fprintf(out, "\n%s\n", style.C(style.Magenta, style.B("Overview")))
	fmt.Fprintf(out, "  Workflows   %d total · %d active · %d completed\n", an.TotalWorkflows, an.ActiveWorkflows, an.CompletedWorkflows)
	fmt.Fprintf(out, "  Progress    %s\n", style.Bar(an.AverageProgress, 20))
	fmt.Fprintf(out, "  Completion  %d%%\n", an.CompletionRate)
	fmt.Fprintf(out, "  Steps       %d completed · %d skipped\n", an.StepsCompleted, an.StepsSkipped)
	if v.NewOutcomes > 0 {
		fmt.Fprintf(out, "  %s recorded %d missing outcome(s)\n", style.C(style.Green, "✓"), v.NewOutcomes)
	}

	if v.Active != nil {
		fmt.Fprintf(out, "\n%s\n", style.C(style.Magenta, style.B("Active")))
		fmt.Fprintf(out, "  %-32s %s\n", v.Active.Name, style.Bar(v.Active.Progress, 20))
	}

	if len(an.Categories) > 0 {
		fmt.Fprintf(out, "\n%s\n", style.C(style.Magenta, style.B("Categories")))
		for _, c := range an.Categories {
			fmt.Fprintf(out, "  %-22s %d/%d  %s\n", c.Category, c.Completed, c.Total, style.Bar(c.AverageProgress, 12))
		}
	}

	if len(v.Performance) > 0 {
		fmt.Fprintf(out, "\n%s\n", style.C(style.Magenta, style.B("Performance")))
		for _, p := range v.Performance {
			detail := fmt.Sprintf("%d days active", p.DaysActive)
			if p.TimeToComplete != nil {
				detail = fmt.Sprintf("done in %d days", *p.TimeToComplete)
			}
			if p.ROI != nil {
				detail += fmt.Sprintf(" · ROI %d%%", p.ROI.ROI)
			}
			fmt.Fprintf(out, "  %-32s %s  %s\n", p.Name, style.Bar(p.Progress, 12), style.C(style.Gray, detail))
		}
	}

	if len(v.Impact) > 0 {
		fmt.Fprintf(out, "\n%s", style.C(style.Magenta, style.B("Impact")))
		printImpacts(out, v.Impact)
	}

	fmt.Fprintf(out, "\n%s\n", style.C(style.Magenta, style.B("Recommended next")))
	printRecommendations(out, v.Recommendations)
}
