package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xrsl/careerflow/pkg/app"
	"github.com/xrsl/careerflow/pkg/style"
)

var completeCmd = &cobra.Command{
	Use:   "complete <workflow>",
	Short: "Mark a workflow completed regardless of its steps",
	Long: `Force-complete a workflow. Step statuses are left as they are.

A workflow that is already completed keeps its original completion time.`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeWorkflowIDs,
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseWorkflowID(args[0])
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			wf, ok := a.Workflows.Complete(ctx, id)
			if !ok {
				return fmt.Errorf("workflow %s not started", id)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s at %s\n", style.Success("Completed"), wf.Name,
				wf.CompletedAt.Local().Format("2006-01-02 15:04"))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(completeCmd)
}
