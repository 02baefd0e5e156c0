package claude

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
)

func TestModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"claude-sonnet-4", "claude-sonnet-4-20250514"},
		{"claude-sonnet-4-5", "claude-sonnet-4-5-20250929"},
		{"claude-opus-4", "claude-opus-4-20250514"},
		{"claude-opus-4-5", "claude-opus-4-5-20251101"},
		{"claude-haiku-4-5", "claude-haiku-4-5-20251001"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			mapped, ok := modelMapping[tt.input]
			if !ok {
				t.Fatalf("model %q not found in mapping", tt.input)
			}
			if mapped != tt.expected {
				t.Errorf("model %q mapped to %q, expected %q", tt.input, mapped, tt.expected)
			}
		})
	}

	for _, agent := range SupportedAgents {
		if _, ok := modelMapping[agent]; !ok {
			t.Errorf("supported agent %q has no model mapping", agent)
		}
	}
}

func TestIsAgentSupported(t *testing.T) {
	for _, agent := range []string{"claude-sonnet-4", "claude-opus-4-5", DefaultAgent} {
		if !IsAgentSupported(agent) {
			t.Errorf("agent %q should be supported", agent)
		}
	}
	for _, agent := range []string{"claude-3", "gpt-4", "invalid"} {
		if IsAgentSupported(agent) {
			t.Errorf("agent %q should not be supported", agent)
		}
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	if _, err := NewClient(""); err == nil || !strings.Contains(err.Error(), "ANTHROPIC_API_KEY") {
		t.Errorf("error = %v, want missing key", err)
	}
}

func TestNewClientMapsModel(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "test-key")

	client, err := NewClient("")
	if err != nil {
		t.Fatal(err)
	}
	if client.Model() != "claude-sonnet-4-5-20250929" {
		t.Errorf("default model = %q", client.Model())
	}

	client, err = NewClient("claude-custom-model")
	if err != nil {
		t.Fatal(err)
	}
	if client.Model() != "claude-custom-model" {
		t.Errorf("unmapped model = %q, want raw value", client.Model())
	}
}

func TestGenerateContentWithSystem(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "test-key")

	var got struct {
		Model  string `json:"model"`
		System []struct {
			Text string `json:"text"`
		} `json:"system"`
		Messages []struct {
			Role string `json:"role"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_01",
			"type": "message",
			"role": "assistant",
			"model": "claude-sonnet-4-5-20250929",
			"content": [{"type": "text", "text": "Led a team of five engineers."}],
			"stop_reason": "end_turn",
			"stop_sequence": null,
			"usage": {"input_tokens": 12, "output_tokens": 8}
		}`))
	}))
	defer srv.Close()

	client, err := NewClient("claude-sonnet-4-5", option.WithBaseURL(srv.URL), option.WithMaxRetries(0))
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()

	out, err := client.GenerateContentWithSystem(context.Background(), "You rewrite resume bullets.", "managed 5 devs")
	if err != nil {
		t.Fatalf("GenerateContentWithSystem error: %v", err)
	}
	if out != "Led a team of five engineers." {
		t.Errorf("output = %q", out)
	}
	if got.Model != "claude-sonnet-4-5-20250929" {
		t.Errorf("request model = %q", got.Model)
	}
	if len(got.System) != 1 || got.System[0].Text != "You rewrite resume bullets." {
		t.Errorf("request system = %+v", got.System)
	}
	if len(got.Messages) != 1 || got.Messages[0].Role != "user" {
		t.Errorf("request messages = %+v", got.Messages)
	}
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		msg  string
		want bool
	}{
		{"529 overloaded_error", true},
		{"rate_limit_error", true},
		{"503 Service Unavailable", true},
		{"400 invalid_request_error", false},
	}
	for _, tt := range tests {
		if got := isRetryableError(errString(tt.msg)); got != tt.want {
			t.Errorf("isRetryableError(%q) = %v, want %v", tt.msg, got, tt.want)
		}
	}
	if isRetryableError(nil) {
		t.Error("nil is not retryable")
	}
}

type errString string

func (e errString) Error() string { return string(e) }
