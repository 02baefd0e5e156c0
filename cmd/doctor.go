package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xrsl/careerflow/pkg/ai"
	"github.com/xrsl/careerflow/pkg/app"
	"github.com/xrsl/careerflow/pkg/config"
	"github.com/xrsl/careerflow/pkg/signal"
	"github.com/xrsl/careerflow/pkg/style"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check careerflow setup",
	Long:  `Verify configuration, storage, the remote data source and AI agents.`,
	Args:  cobra.NoArgs,
	RunE:  runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func checkOK(out io.Writer, format string, args ...any) {
	fmt.Fprintf(out, "%s %s\n", style.C(style.Green, "✓"), fmt.Sprintf(format, args...))
}

func checkFail(out io.Writer, format string, args ...any) {
	fmt.Fprintf(out, "%s %s\n", style.C(style.Red, "✗"), fmt.Sprintf(format, args...))
}

func checkWarn(out io.Writer, format string, args ...any) {
	fmt.Fprintf(out, "%s %s\n", style.C(style.Yellow, "⚠"), fmt.Sprintf(format, args...))
}

func runDoctor(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s Checking careerflow setup\n\n", style.C(style.Blue, "→"))

	allGood := true

	cfg, err := config.Load()
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		checkFail(out, "configuration: %v", err)
		return fmt.Errorf("setup issues detected")
	}
	checkOK(out, "configuration valid (%s)", config.Path())

	ctx, cancel := signal.WithInterrupt(cmd.Context())
	defer cancel()

	a, err := app.New(ctx, cfg)
	if err != nil {
		checkFail(out, "storage or remote: %v", err)
		return fmt.Errorf("setup issues detected")
	}
	defer a.Close()
	checkOK(out, "store backend %s", cfg.Store.Backend)
	allGood = checkRemote(ctx, out, cfg, a) && allGood

	fmt.Fprintf(out, "\n%s Checking AI agents\n\n", style.C(style.Blue, "→"))
	for _, bin := range []string{"claude", "gemini"} {
		if _, err := exec.LookPath(bin); err != nil {
			checkWarn(out, "%s CLI not found in PATH", bin)
		} else {
			checkOK(out, "%s CLI available", bin)
		}
	}
	hasAnthropicKey := os.Getenv("ANTHROPIC_API_KEY") != ""
	hasGoogleKey := os.Getenv("GOOGLE_API_KEY") != "" || os.Getenv("GEMINI_API_KEY") != ""
	if hasAnthropicKey {
		checkOK(out, "ANTHROPIC_API_KEY set")
	} else {
		checkWarn(out, "ANTHROPIC_API_KEY not set (required for claude-* agents)")
	}
	if hasGoogleKey {
		checkOK(out, "GOOGLE_API_KEY set")
	} else {
		checkWarn(out, "GOOGLE_API_KEY not set (required for gemini-* agents)")
	}

	allGood = checkAgent(out, cfg.Agent) && allGood

	fmt.Fprintln(out)
	if !allGood {
		return fmt.Errorf("setup issues detected")
	}
	checkOK(out, "Setup OK")
	return nil
}

// checkAgent reports whether the configured agent can be constructed.
func checkAgent(out io.Writer, agent string) bool {
	switch {
	case agent == "":
		checkOK(out, "no agent configured; rewrite uses %s", ai.DefaultAgent())
		return true
	case ai.IsAgentCLI(agent):
		if !ai.IsAgentSupported(agent) {
			checkFail(out, "agent %s: CLI not found in PATH", agent)
			return false
		}
	case !ai.IsModelSupported(agent):
		checkFail(out, "agent %s is not supported (models: %s)", agent, strings.Join(ai.SupportedModels(), ", "))
		return false
	}
	checkOK(out, "agent %s", agent)
	return true
}

func checkRemote(ctx context.Context, out io.Writer, cfg *config.Config, a *app.App) bool {
	switch cfg.Remote.Backend {
	case "none", "":
		checkWarn(out, "no remote source configured; recommendations assume a fresh start")
		return true
	case "github":
		if _, err := exec.LookPath("gh"); err != nil {
			checkFail(out, "gh CLI not found in PATH (required for remote.backend github)")
			return false
		}
	}
	u, err := a.Remote.CurrentUser(ctx)
	if err != nil {
		checkFail(out, "remote %s: %v", cfg.Remote.Backend, err)
		return false
	}
	n, _ := a.Remote.CountApplications(ctx)
	checkOK(out, "remote %s as %s (%d applications)", cfg.Remote.Backend, u.Email, n)
	return true
}
