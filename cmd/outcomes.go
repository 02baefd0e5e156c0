package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/xrsl/careerflow/pkg/app"
	"github.com/xrsl/careerflow/pkg/outcome"
	"github.com/xrsl/careerflow/pkg/style"
)

var outcomesJSON bool

var outcomesCmd = &cobra.Command{
	Use:   "outcomes",
	Short: "Show recorded workflow outcomes",
	Long: `Show the outcome recorded for each completed workflow.

Subcommands:
  impact [workflow]   highlights of one or all outcomes
  roi <workflow>      estimated value per day invested
  reconcile           record outcomes missing for completed workflows`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			all := a.Outcomes.Outcomes(ctx)
			out := cmd.OutOrStdout()
			if outcomesJSON {
				return printJSON(out, all)
			}
			if len(all) == 0 {
				fmt.Fprintln(out, "No outcomes recorded yet.")
				return nil
			}
			for _, o := range all {
				fmt.Fprintf(out, "%s  %-32s %d/%d steps in %d days\n",
					o.CompletedAt.Local().Format("2006-01-02"), o.WorkflowName,
					o.StepsCompleted, o.TotalSteps, o.TimeToComplete)
			}
			return nil
		})
	},
}

var outcomesImpactCmd = &cobra.Command{
	Use:               "impact [workflow]",
	Short:             "Show outcome highlights",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeWorkflowIDs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var impacts []outcome.Impact
		err := withApp(cmd, func(ctx context.Context, a *app.App) error {
			if len(args) == 0 {
				impacts = a.Outcomes.AllImpactMetrics(ctx)
				return nil
			}
			id, err := parseWorkflowID(args[0])
			if err != nil {
				return err
			}
			imp, ok := a.Outcomes.ImpactMetrics(ctx, id)
			if !ok {
				return fmt.Errorf("no outcome recorded for %s", id)
			}
			impacts = []outcome.Impact{*imp}
			return nil
		})
		if err != nil {
			return err
		}
		if outcomesJSON {
			return printJSON(cmd.OutOrStdout(), impacts)
		}
		printImpacts(cmd.OutOrStdout(), impacts)
		return nil
	},
}

var outcomesROICmd = &cobra.Command{
	Use:               "roi <workflow>",
	Short:             "Show the return on time invested in a workflow",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeWorkflowIDs,
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseWorkflowID(args[0])
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			roi, ok := a.Outcomes.CalculateROI(ctx, id)
			if !ok {
				return fmt.Errorf("no outcome recorded for %s", id)
			}
			out := cmd.OutOrStdout()
			if outcomesJSON {
				return printJSON(out, roi)
			}
			fmt.Fprintf(out, "Time invested:   %d days\n", roi.TimeInvested)
			fmt.Fprintf(out, "Estimated value: %.0f\n", roi.EstimatedValue)
			fmt.Fprintf(out, "ROI:             %s\n", style.B(fmt.Sprintf("%d%%", roi.ROI)))
			return nil
		})
	},
}

var outcomesReconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Record outcomes missing for completed workflows",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			tracked := a.Outcomes.CheckAndTrack(ctx)
			out := cmd.OutOrStdout()
			if len(tracked) == 0 {
				fmt.Fprintf(out, "%s all completed workflows have outcomes\n", style.C(style.Green, "✓"))
				return nil
			}
			for _, o := range tracked {
				fmt.Fprintf(out, "%s %s\n", style.Success("Tracked"), o.WorkflowName)
			}
			return nil
		})
	},
}

func init() {
	outcomesCmd.PersistentFlags().BoolVar(&outcomesJSON, "json", false, "Output as JSON")
	outcomesCmd.AddCommand(outcomesImpactCmd, outcomesROICmd, outcomesReconcileCmd)
	rootCmd.AddCommand(outcomesCmd)
}

func printImpacts(out io.Writer, impacts []outcome.Impact) {
	if len(impacts) == 0 {
		fmt.Fprintln(out, "No outcomes recorded yet.")
		return
	}
	for _, imp := range impacts {
		fmt.Fprintf(out, "\n%s %s\n", style.B(imp.WorkflowName),
			style.C(style.Gray, fmt.Sprintf("%d days · %d%% of steps", imp.DaysToComplete, imp.CompletionRate)))
		for _, h := range imp.Highlights {
			fmt.Fprintf(out, "  %-24s %s\n", h.Label, h.Value)
		}
	}
}
