package gemini

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/generative-ai-go/genai"
)

func TestIsAgentSupported(t *testing.T) {
	supported := []string{
		"gemini-3-flash-preview",
		"gemini-3-pro-preview",
		"gemini-2.5-flash",
		"gemini-2.5-pro",
	}

	for _, agent := range supported {
		if !IsAgentSupported(agent) {
			t.Errorf("agent %q should be supported", agent)
		}
	}

	unsupported := []string{
		"gemini-1.5-pro",
		"gemini-1.5-flash",
		"gpt-4",
		"invalid",
	}

	for _, agent := range unsupported {
		if IsAgentSupported(agent) {
			t.Errorf("agent %q should not be supported", agent)
		}
	}
}

func TestNewClientDefaultAgent(t *testing.T) {
	if DefaultAgent != "gemini-2.5-flash" {
		t.Errorf("DefaultAgent = %q, want %q", DefaultAgent, "gemini-2.5-flash")
	}
	if !IsAgentSupported(DefaultAgent) {
		t.Error("default agent must be supported")
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	if _, err := NewClient(""); err == nil || !strings.Contains(err.Error(), "GEMINI_API_KEY") {
		t.Errorf("error = %v, want missing key", err)
	}
}

func TestTextOf(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text("Shipped "), genai.Text("three releases.")}},
		}},
	}
	got, err := textOf(resp)
	if err != nil {
		t.Fatal(err)
	}
	if got != "Shipped three releases." {
		t.Errorf("textOf = %q", got)
	}

	if _, err := textOf(&genai.GenerateContentResponse{}); err == nil {
		t.Error("expected error for empty response")
	}
	if _, err := textOf(nil); err == nil {
		t.Error("expected error for nil response")
	}
}

func TestIsRetryableError(t *testing.T) {
	if !isRetryableError(errors.New("googleapi: Error 429: RESOURCE_EXHAUSTED")) {
		t.Error("429 should be retryable")
	}
	if isRetryableError(errors.New("googleapi: Error 400: INVALID_ARGUMENT")) {
		t.Error("400 should not be retryable")
	}
}
