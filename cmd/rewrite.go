package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xrsl/careerflow/pkg/ai"
	"github.com/xrsl/careerflow/pkg/cache"
	"github.com/xrsl/careerflow/pkg/config"
	clog "github.com/xrsl/careerflow/pkg/log"
	"github.com/xrsl/careerflow/pkg/signal"
)

var (
	rewriteTone    string
	rewriteAgent   string
	rewriteNoCache bool
)

var rewriteCmd = &cobra.Command{
	Use:   "rewrite [text]",
	Short: "Rewrite a passage in a different tone",
	Long: `Rewrite a passage from a resume, cover letter or profile with an AI agent.

Reads the text from the argument, or from stdin when the argument is "-" or
missing.

Examples:
  careerflow rewrite "Led migration of billing to Go" --tone confident
  pbpaste | careerflow rewrite -t concise -a gemini-2.5-flash`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRewrite,
}

func init() {
	tones := make([]string, 0, len(ai.Tones()))
	for _, t := range ai.Tones() {
		tones = append(tones, string(t))
	}
	rewriteCmd.Flags().StringVarP(&rewriteTone, "tone", "t", string(ai.ToneProfessional), "Tone: "+strings.Join(tones, ", "))
	rewriteCmd.Flags().StringVarP(&rewriteAgent, "agent", "a", "", "Agent (overrides config)")
	rewriteCmd.Flags().BoolVar(&rewriteNoCache, "no-cache", false, "Always call the agent")
	rootCmd.AddCommand(rewriteCmd)
}

func runRewrite(cmd *cobra.Command, args []string) error {
	tone, err := ai.ParseTone(rewriteTone)
	if err != nil {
		return err
	}

	var text string
	if len(args) == 1 && args[0] != "-" {
		text = args[0]
	} else {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		text = string(data)
	}

	agent := rewriteAgent
	if agent == "" {
		if cfg, err := config.Load(); err == nil {
			agent = cfg.Agent
		}
	}
	if agent == "" {
		agent = ai.DefaultAgent()
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return ai.ErrEmptyText
	}
	rc := cache.Default()
	key := cache.Key(text, string(tone), agent)
	if !rewriteNoCache {
		if e, err := rc.Read(key); err == nil {
			clog.Debug("rewrite cache hit", "key", key[:12])
			fmt.Fprintln(cmd.OutOrStdout(), e.Output)
			return nil
		}
	}

	client, err := ai.NewClient(agent)
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := signal.WithInterrupt(cmd.Context())
	defer cancel()

	out, err := ai.NewRewriter(client).Rewrite(ctx, text, tone)
	if err != nil {
		return err
	}
	if err := rc.Write(key, cache.Entry{Agent: agent, Tone: string(tone), Input: text, Output: out}); err != nil {
		clog.Warn("failed to cache rewrite", "error", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}
