package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xrsl/careerflow/pkg/app"
	"github.com/xrsl/careerflow/pkg/style"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List started workflows",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			out := cmd.OutOrStdout()
			all := a.Workflows.All(ctx)
			if listJSON {
				return printJSON(out, all)
			}
			if len(all) == 0 {
				fmt.Fprintln(out, "No workflows started yet. Run: careerflow recommend")
				return nil
			}
			for _, wf := range all {
				name := wf.Name
				if wf.IsActive {
					name = style.C(style.Green, "● ") + name
				} else {
					name = "  " + name
				}
				fmt.Fprintf(out, "%-40s %s  %s\n", name, style.Bar(wf.Progress, 16), style.C(style.Gray, string(wf.ID)))
			}
			return nil
		})
	},
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(listCmd)
}
