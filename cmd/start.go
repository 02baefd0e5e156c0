package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xrsl/careerflow/pkg/app"
	"github.com/xrsl/careerflow/pkg/style"
)

var startCmd = &cobra.Command{
	Use:   "start <workflow>",
	Short: "Start (or restart) a workflow",
	Long: `Start a workflow from the catalog and make it the active one.

Starting a workflow that already exists resets all of its steps.

Examples:
  careerflow start job-application-pipeline
  careerflow start interview`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeWorkflowIDs,
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseWorkflowID(args[0])
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			wf, err := a.Workflows.Initialize(ctx, id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s (%d steps)\n", style.Success("Started"), wf.Name, len(wf.Steps))
			if len(wf.Steps) > 0 {
				first := wf.Steps[0]
				fmt.Fprintf(out, "  Next: %s %s\n", first.Name, style.C(style.Gray, first.Path))
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
