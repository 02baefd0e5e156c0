package cmd

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/xrsl/careerflow/pkg/app"
	"github.com/xrsl/careerflow/pkg/style"
)

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Manage the shared workflow context",
	Long: `The workflow context is a small key/value bag shared by all workflows.

Known keys:
  careerGoal             free-text goal used by recommendations
  certificationsEarned   recorded on skill development outcomes
  skillsImproved         recorded on skill development outcomes
  improvementIterations  recorded on improvement loop outcomes
  averageMatchScore      recorded on improvement loop outcomes
  salaryIncrease         recorded on market intelligence outcomes
  marketReports          recorded on market intelligence outcomes`,
}

var contextGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Show one or all context values",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			bag := a.Workflows.Context(ctx)
			out := cmd.OutOrStdout()
			if len(args) == 1 {
				v, ok := bag[args[0]]
				if !ok {
					fmt.Fprintln(out, "(not set)")
					return nil
				}
				fmt.Fprintln(out, v)
				return nil
			}
			if len(bag) == 0 {
				fmt.Fprintln(out, "(empty)")
				return nil
			}
			keys := make([]string, 0, len(bag))
			for k := range bag {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(out, "%-22s %v\n", style.C(style.Cyan, k), bag[k])
			}
			return nil
		})
	},
}

var contextSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a context value",
	Long: `Set a context value. Numeric values are stored as numbers.

Examples:
  careerflow context set careerGoal "senior backend engineer"
  careerflow context set certificationsEarned 2`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			bag := a.Workflows.Context(ctx)
			bag[args[0]] = contextValue(args[1])
			a.Workflows.SetContext(ctx, bag)
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", args[0], args[1])
			return nil
		})
	},
}

var contextClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every context value",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			a.Workflows.ClearContext(ctx)
			fmt.Fprintln(cmd.OutOrStdout(), "Context cleared")
			return nil
		})
	},
}

func init() {
	contextCmd.AddCommand(contextGetCmd, contextSetCmd, contextClearCmd)
	rootCmd.AddCommand(contextCmd)
}

// contextValue stores integers and floats as numbers and anything else as text.
func contextValue(s string) any {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

