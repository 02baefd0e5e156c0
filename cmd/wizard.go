package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xrsl/careerflow/pkg/app"
	"github.com/xrsl/careerflow/pkg/style"
	"github.com/xrsl/careerflow/pkg/wizard"
)

var wizardCmd = &cobra.Command{
	Use:   "wizard [workflow]",
	Short: "Step through a workflow interactively",
	Long: `Walk through a workflow one step at a time.

At each step choose:
  s  start    mark the step in progress and open its feature
  k  skip     mark the step skipped and move on
  n  next     move on without changing the step
  p  previous go back one step
  q  quit

The workflow is started if it has not been yet.`,
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeWorkflowIDs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			id, err := workflowArg(ctx, a, args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			nav := wizard.NavigatorFunc(func(path string) {
				fmt.Fprintf(out, "%s %s\n", style.C(style.Cyan, "→ Open"), path)
			})
			c, err := wizard.Open(ctx, a.Workflows, nav, id)
			if err != nil {
				return err
			}
			return runWizard(ctx, c, cmd.InOrStdin(), out)
		})
	},
}

func init() {
	rootCmd.AddCommand(wizardCmd)
}

func runWizard(ctx context.Context, c *wizard.Controller, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	total := len(c.Workflow().Steps)

	fmt.Fprintf(out, "\n%s\n", style.B(c.Workflow().Name))
	for !c.Closed() {
		s := c.Current()
		fmt.Fprintf(out, "\n%s %s  %s\n", style.C(style.Gray, fmt.Sprintf("[%d/%d]", c.Index()+1, total)),
			style.B(s.Name), style.Status(string(s.Status)))
		fmt.Fprint(out, "[s]tart  s[k]ip  [n]ext  [p]revious  [q]uit > ")

		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		var err error
		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "s", "start":
			err = c.Start(ctx)
		case "k", "skip":
			err = c.Skip(ctx)
		case "n", "next", "":
			err = c.Next()
		case "p", "prev", "previous":
			err = c.Previous()
		case "q", "quit", "exit":
			return nil
		default:
			fmt.Fprintln(out, style.Warn("Unknown choice")+scanner.Text())
		}
		if err != nil {
			return err
		}
	}

	wf := c.Workflow()
	fmt.Fprintf(out, "\n%s\n", style.Bar(wf.Progress, 20))
	return nil
}
