package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xrsl/careerflow/pkg/ai"
	"github.com/xrsl/careerflow/pkg/config"
	"github.com/xrsl/careerflow/pkg/style"
	"github.com/xrsl/careerflow/pkg/utils"
)

var initYes bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize careerflow in this directory",
	Long: `Initialize careerflow configuration and local state.

Creates:
  .careerflow.yaml   Configuration file
  .careerflow/       Local workflow state (git-ignored)

Use --yes to accept every default without prompting.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initYes, "yes", "y", false, "Accept defaults without prompting")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if _, err := os.Stat(config.Path()); err == nil {
		fmt.Fprintf(out, "%s Already initialized\n", style.C(style.Green, "✓"))
		fmt.Fprintf(out, "  Config: %s\n", style.C(style.Gray, config.Path()))
		return ensureStateDir(cfg)
	}

	if !initYes {
		reader := bufio.NewReader(cmd.InOrStdin())
		fmt.Fprintf(out, "\n%s\n\n", style.C(style.Gray, "Press Enter to accept defaults shown in brackets."))

		cfg.Store.Backend = askChoice(reader, out, "Store backend", cfg.Store.Backend, []string{"file", "memory", "redis"})
		if cfg.Store.Backend == "redis" {
			cfg.Store.RedisAddr = ask(reader, out, "Redis address", cfg.Store.RedisAddr)
		}
		cfg.Agent = askChoice(reader, out, "AI agent", cfg.Agent, ai.SupportedAgents())
		cfg.Goal = ask(reader, out, "Career goal (optional)", cfg.Goal)
	}

	if err := config.Save(cfg); err != nil {
		return err
	}
	if err := ensureStateDir(cfg); err != nil {
		return err
	}

	fmt.Fprintf(out, "%s Initialized\n", style.C(style.Green, "✓"))
	fmt.Fprintf(out, "  Config: %s\n", style.C(style.Gray, config.Path()))
	fmt.Fprintf(out, "\nNext: %s\n", style.C(style.Cyan, "careerflow recommend"))
	return nil
}

func ensureStateDir(cfg *config.Config) error {
	if cfg.Store.Backend != "file" {
		return nil
	}
	if err := utils.EnsureGitignore(cfg.Store.Dir); err != nil {
		return fmt.Errorf("create %s: %w", cfg.Store.Dir, err)
	}
	return nil
}

func ask(reader *bufio.Reader, out io.Writer, label, def string) string {
	if def != "" {
		fmt.Fprintf(out, "%s %s %s: ", style.C(style.Green, "?"), label, style.C(style.Cyan, "["+def+"]"))
	} else {
		fmt.Fprintf(out, "%s %s: ", style.C(style.Green, "?"), label)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return def
	}
	return input
}

// askChoice repeats the question until the answer is one of choices.
func askChoice(reader *bufio.Reader, out io.Writer, label, def string, choices []string) string {
	for {
		answer := ask(reader, out, label+" ("+strings.Join(choices, ", ")+")", def)
		for _, c := range choices {
			if answer == c {
				return answer
			}
		}
		if answer == def {
			return def
		}
		fmt.Fprintf(out, "  Unknown choice %q\n", answer)
	}
}
