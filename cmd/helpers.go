package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xrsl/careerflow/pkg/app"
	"github.com/xrsl/careerflow/pkg/catalog"
	"github.com/xrsl/careerflow/pkg/config"
	clog "github.com/xrsl/careerflow/pkg/log"
	"github.com/xrsl/careerflow/pkg/signal"
	"github.com/xrsl/careerflow/pkg/style"
	"github.com/xrsl/careerflow/pkg/workflow"
)

// openApp loads configuration and wires the application.
func openApp(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return app.New(ctx, cfg)
}

// withApp runs fn against a wired app with an interrupt-aware context. The
// app is closed afterwards, which waits for pending outcome tracking.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	ctx, cancel := signal.WithInterrupt(cmd.Context())
	defer cancel()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			clog.Warn("failed to close app", "error", err)
		}
	}()
	return fn(ctx, a)
}

// parseWorkflowID accepts a full catalog id or an unambiguous prefix of one.
func parseWorkflowID(s string) (catalog.WorkflowID, error) {
	if id, err := catalog.ParseID(s); err == nil {
		return id, nil
	}
	var matches []catalog.WorkflowID
	for _, id := range catalog.IDs() {
		if s != "" && strings.HasPrefix(string(id), s) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", fmt.Errorf("unknown workflow %q (valid: %s)", s, joinIDs(catalog.IDs()))
	default:
		return "", fmt.Errorf("ambiguous workflow %q matches %s", s, joinIDs(matches))
	}
}

func joinIDs(ids []catalog.WorkflowID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, ", ")
}

// workflowArg resolves args[0], or the active workflow when no argument is given.
func workflowArg(ctx context.Context, a *app.App, args []string) (catalog.WorkflowID, error) {
	if len(args) > 0 {
		return parseWorkflowID(args[0])
	}
	active, ok := a.Workflows.Active(ctx)
	if !ok {
		return "", fmt.Errorf("no active workflow. Run: careerflow start <workflow>")
	}
	return active.ID, nil
}

func completeWorkflowIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var out []string
	for _, d := range catalog.Definitions() {
		if strings.HasPrefix(string(d.ID), toComplete) {
			out = append(out, string(d.ID)+"\t"+d.Name)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printWorkflow(out io.Writer, wf *workflow.Workflow) {
	active := ""
	if wf.IsActive {
		active = style.C(style.Green, " (active)")
	}
	fmt.Fprintf(out, "\n%s%s\n", style.B(wf.Name), active)
	fmt.Fprintf(out, "%s\n", style.C(style.Gray, string(wf.Category)+" · "+string(wf.ID)))
	fmt.Fprintf(out, "%s\n\n", style.Bar(wf.Progress, 20))

	next := wf.NextStepIndex()
	for i, s := range wf.Steps {
		marker := "  "
		if i == next {
			marker = style.C(style.Cyan, "→ ")
		}
		fmt.Fprintf(out, "%s%d. %-34s %s\n", marker, i+1, s.Name, style.Status(string(s.Status)))
		fmt.Fprintf(out, "     %s\n", style.C(style.Gray, s.ID+"  "+s.Path))
	}
	if wf.CompletedAt != nil {
		fmt.Fprintf(out, "\n%s %s\n", style.Success("Completed"), wf.CompletedAt.Local().Format("2006-01-02 15:04"))
	}
}
