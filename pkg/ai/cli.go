package ai

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// runFunc executes a command and returns its stdout.
type runFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRun(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

// ClaudeCLI implements Client using the claude CLI
type ClaudeCLI struct {
	model string // e.g., "sonnet-4-5", "opus-4"
	run   runFunc
}

// NewClaudeCLI creates a Claude CLI client
func NewClaudeCLI(model string) *ClaudeCLI {
	return &ClaudeCLI{model: model, run: execRun}
}

// IsClaudeCLIAvailable checks if claude CLI is installed
func IsClaudeCLIAvailable() bool {
	_, err := exec.LookPath("claude")
	return err == nil
}

func (c *ClaudeCLI) GenerateContent(ctx context.Context, prompt string) (string, error) {
	return c.GenerateContentWithSystem(ctx, "", prompt)
}

// GenerateContentWithSystem passes the system prompt with
// --append-system-prompt.
func (c *ClaudeCLI) GenerateContentWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	args := []string{"-p", userPrompt, "--output-format", "text"}
	if systemPrompt != "" {
		args = append(args, "--append-system-prompt", systemPrompt)
	}
	if c.model != "" {
		args = append(args, "--model", "claude-"+c.model)
	}
	out, err := c.run(ctx, "claude", args...)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (c *ClaudeCLI) Close() {}

// GeminiCLI implements Client using the gemini CLI
type GeminiCLI struct {
	model string // e.g., "flash", "pro"
	run   runFunc
}

// NewGeminiCLI creates a Gemini CLI client
func NewGeminiCLI(model string) *GeminiCLI {
	return &GeminiCLI{model: model, run: execRun}
}

// IsGeminiCLIAvailable checks if gemini CLI is installed
func IsGeminiCLIAvailable() bool {
	_, err := exec.LookPath("gemini")
	return err == nil
}

func (c *GeminiCLI) GenerateContent(ctx context.Context, prompt string) (string, error) {
	args := []string{"-p", prompt, "-o", "text"}
	if c.model != "" {
		args = append(args, "--model", c.model)
	}
	out, err := c.run(ctx, "gemini", args...)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (c *GeminiCLI) Close() {}
