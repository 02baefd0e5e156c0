package ai

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	clog "github.com/xrsl/careerflow/pkg/log"
)

// ErrEmptyText is returned when there is nothing to rewrite.
var ErrEmptyText = errors.New("nothing to rewrite")

// Tone is the voice a rewrite should take.
type Tone string

const (
	ToneProfessional Tone = "professional"
	ToneConcise      Tone = "concise"
	ToneConfident    Tone = "confident"
	ToneFriendly     Tone = "friendly"
)

// Tones lists the supported tones.
func Tones() []Tone {
	return []Tone{ToneProfessional, ToneConcise, ToneConfident, ToneFriendly}
}

// ParseTone validates s. Empty means professional.
func ParseTone(s string) (Tone, error) {
	if s == "" {
		return ToneProfessional, nil
	}
	t := Tone(strings.ToLower(s))
	if !slices.Contains(Tones(), t) {
		return "", fmt.Errorf("unknown tone %q", s)
	}
	return t, nil
}

const systemPrompt = `You rewrite passages from resumes, cover letters and professional profiles.
Keep every fact, number and name from the original. Do not invent achievements.
Reply with the rewritten passage only: no preamble, no quotes, no markdown fences.`

// Rewriter is the text rewrite service.
type Rewriter struct {
	client Client
}

// NewRewriter returns a rewriter over client.
func NewRewriter(client Client) *Rewriter {
	return &Rewriter{client: client}
}

// Rewrite returns text rewritten in tone.
func (r *Rewriter) Rewrite(ctx context.Context, text string, tone Tone) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyText
	}
	if tone == "" {
		tone = ToneProfessional
	}

	user := fmt.Sprintf("Rewrite the following in a %s tone.\n\n%s", tone, text)

	var (
		out string
		err error
	)
	if cc, ok := r.client.(CachingClient); ok {
		out, err = cc.GenerateContentWithSystem(ctx, systemPrompt, user)
	} else {
		out, err = r.client.GenerateContent(ctx, systemPrompt+"\n\n"+user)
	}
	if err != nil {
		return "", fmt.Errorf("rewrite: %w", err)
	}

	out = clean(out)
	if out == "" {
		return "", fmt.Errorf("rewrite: empty response")
	}
	clog.Debug("text rewritten", "tone", tone, "in", len(text), "out", len(out))
	return out, nil
}

// clean strips fences and surrounding quotes some models add anyway.
func clean(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if i := strings.IndexByte(s, '\n'); i >= 0 {
			s = s[i+1:]
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	return strings.TrimSpace(s)
}
