package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xrsl/careerflow/pkg/app"
	"github.com/xrsl/careerflow/pkg/style"
	"github.com/xrsl/careerflow/pkg/workflow"
)

var stepMeta []string

var stepCmd = &cobra.Command{
	Use:   "step <workflow> <step> <status>",
	Short: "Set the status of a workflow step",
	Long: `Set a step to not-started, in-progress, completed or skipped.

Metadata can be attached with --meta key=value (repeatable).
Completing the last open step completes the workflow and records its outcome.

Examples:
  careerflow step job-application-pipeline find-jobs completed
  careerflow step interview-prep practice in-progress --meta company=Acme`,
	Args: cobra.ExactArgs(3),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		switch len(args) {
		case 0:
			return completeWorkflowIDs(cmd, args, toComplete)
		case 2:
			return []string{
				string(workflow.StatusNotStarted),
				string(workflow.StatusInProgress),
				string(workflow.StatusCompleted),
				string(workflow.StatusSkipped),
			}, cobra.ShellCompDirectiveNoFileComp
		}
		return nil, cobra.ShellCompDirectiveNoFileComp
	},
	RunE: runStep,
}

func init() {
	stepCmd.Flags().StringArrayVar(&stepMeta, "meta", nil, "Step metadata as key=value")
	rootCmd.AddCommand(stepCmd)
}

func parseMeta(pairs []string) (*workflow.StepMetadata, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	meta := &workflow.StepMetadata{Extra: map[string]any{}}
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --meta %q, expected key=value", p)
		}
		if k == workflow.MetaStartedAt {
			return nil, fmt.Errorf("--meta %s is set by careerflow when a step starts", k)
		}
		meta.Extra[k] = v
	}
	return meta, nil
}

func runStep(cmd *cobra.Command, args []string) error {
	id, err := parseWorkflowID(args[0])
	if err != nil {
		return err
	}
	status, err := workflow.ParseStatus(args[2])
	if err != nil {
		return err
	}
	meta, err := parseMeta(stepMeta)
	if err != nil {
		return err
	}

	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		wf := a.Workflows.UpdateStepStatus(ctx, id, args[1], status, meta)
		if wf == nil {
			return fmt.Errorf("no step %q in workflow %s (is it started?)", args[1], id)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s → %s\n", style.Success("Updated"), args[1], style.Status(string(status)))
		fmt.Fprintf(out, "  %s\n", style.Bar(wf.Progress, 20))
		if wf.CompletedAt != nil && wf.Progress == 100 {
			fmt.Fprintf(out, "%s %s\n", style.Success("Completed"), wf.Name)
		}
		return nil
	})
}
