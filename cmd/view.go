package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xrsl/careerflow/pkg/app"
)

var viewJSON bool

var viewCmd = &cobra.Command{
	Use:   "view [workflow]",
	Short: "Show a workflow and its steps",
	Long: `Show a workflow's steps and their statuses.

Without an argument the active workflow is shown.`,
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeWorkflowIDs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			id, err := workflowArg(ctx, a, args)
			if err != nil {
				return err
			}
			wf, ok := a.Workflows.Get(ctx, id)
			if !ok {
				return fmt.Errorf("workflow %s not started. Run: careerflow start %s", id, id)
			}
			if viewJSON {
				return printJSON(cmd.OutOrStdout(), wf)
			}
			printWorkflow(cmd.OutOrStdout(), wf)
			return nil
		})
	},
}

func init() {
	viewCmd.Flags().BoolVar(&viewJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(viewCmd)
}
