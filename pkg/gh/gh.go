// Package gh provides an interface for GitHub CLI operations
package gh

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// CLI defines the GitHub CLI operations careerflow uses
type CLI interface {
	// IssueList lists issues as JSON
	IssueList(ctx context.Context, repo, state string, limit int) ([]byte, error)
	// CurrentUser returns the authenticated user as JSON
	CurrentUser(ctx context.Context) ([]byte, error)
}

// DefaultCLI implements CLI using the gh command
type DefaultCLI struct{}

// New returns a new DefaultCLI instance
func New() *DefaultCLI {
	return &DefaultCLI{}
}

// Available reports whether gh is installed
func Available() bool {
	_, err := exec.LookPath("gh")
	return err == nil
}

// IssueList lists issues
func (c *DefaultCLI) IssueList(ctx context.Context, repo, state string, limit int) ([]byte, error) {
	args := []string{"issue", "list", "--repo", repo, "--json", "number,title,state,labels"}
	if state != "" {
		args = append(args, "--state", state)
	}
	if limit > 0 {
		args = append(args, "--limit", fmt.Sprintf("%d", limit))
	}
	out, err := exec.CommandContext(ctx, "gh", args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("gh issue list failed: %w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("gh issue list failed: %w", err)
	}
	return out, nil
}

// CurrentUser returns the authenticated user
func (c *DefaultCLI) CurrentUser(ctx context.Context) ([]byte, error) {
	out, err := exec.CommandContext(ctx, "gh", "api", "user").CombinedOutput()
	if err != nil {
		return out, fmt.Errorf("%w: %s", err, string(out))
	}
	return out, nil
}

// transientMarkers appear in gh output when the GitHub API or the network
// failed rather than the request itself.
var transientMarkers = []string{
	"rate limit",
	"timeout",
	"timed out",
	"connection reset",
	"connection refused",
	"tls handshake",
	"502",
	"503",
	"504",
	"bad gateway",
	"service unavailable",
}

// IsTransient reports whether a failed gh call may succeed when repeated.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, m := range transientMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

// Label is an issue label
type Label struct {
	Name string `json:"name"`
}

// Issue represents a GitHub issue
type Issue struct {
	Number int     `json:"number"`
	Title  string  `json:"title"`
	State  string  `json:"state"`
	Body   string  `json:"body"`
	Labels []Label `json:"labels"`
}

// HasLabel reports whether the issue carries the named label
func (i Issue) HasLabel(name string) bool {
	for _, l := range i.Labels {
		if l.Name == name {
			return true
		}
	}
	return false
}

// User is the authenticated GitHub user
type User struct {
	Login string `json:"login"`
	Email string `json:"email"`
}

// ParseIssue parses issue JSON
func ParseIssue(data []byte) (*Issue, error) {
	var issue Issue
	if err := json.Unmarshal(data, &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

// ParseIssues parses a JSON issue list
func ParseIssues(data []byte) ([]Issue, error) {
	var issues []Issue
	if err := json.Unmarshal(data, &issues); err != nil {
		return nil, err
	}
	return issues, nil
}

// ParseUser parses user JSON
func ParseUser(data []byte) (*User, error) {
	var u User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
