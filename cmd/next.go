package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xrsl/careerflow/pkg/app"
	"github.com/xrsl/careerflow/pkg/style"
)

var nextCmd = &cobra.Command{
	Use:               "next [workflow]",
	Short:             "Show the next open step",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeWorkflowIDs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			id, err := workflowArg(ctx, a, args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			step, ok := a.Workflows.NextStep(ctx, id)
			if !ok {
				fmt.Fprintf(out, "%s nothing left to do in %s\n", style.C(style.Green, "✓"), id)
				return nil
			}
			fmt.Fprintf(out, "%s %s\n", style.C(style.Cyan, "→"), style.B(step.Name))
			fmt.Fprintf(out, "  step:    %s\n", step.ID)
			fmt.Fprintf(out, "  feature: %s\n", step.Feature)
			fmt.Fprintf(out, "  open:    %s\n", step.Path)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(nextCmd)
}
