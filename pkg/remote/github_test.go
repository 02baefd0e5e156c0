package remote

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xrsl/careerflow/pkg/retry"
)

type fakeCLI struct {
	issues    string
	user      string
	listErr   error
	listFails []error // returned in order before issues
	listCalls int
	calls     int
}

func (f *fakeCLI) IssueList(_ context.Context, _, _ string, _ int) ([]byte, error) {
	f.listCalls++
	if f.listCalls <= len(f.listFails) {
		return nil, f.listFails[f.listCalls-1]
	}
	return []byte(f.issues), f.listErr
}

func (f *fakeCLI) CurrentUser(context.Context) ([]byte, error) {
	f.calls++
	if f.user == "" {
		return nil, errors.New("not logged in")
	}
	return []byte(f.user), nil
}

func TestGitHubCountApplications(t *testing.T) {
	tests := []struct {
		name   string
		issues string
		want   int
	}{
		{"empty", `[]`, 0},
		{"unlabelled counts all", `[{"number":1},{"number":2},{"number":3}]`, 3},
		{
			"labelled only",
			`[{"number":1,"labels":[{"name":"applied"}]},{"number":2},{"number":3,"labels":[{"name":"applied"}]}]`,
			2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGitHub(&fakeCLI{issues: tt.issues}, "me/jobs", nil)
			got, err := g.CountApplications(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGitHubCountApplicationsErrors(t *testing.T) {
	ctx := context.Background()

	g := NewGitHub(&fakeCLI{listErr: errors.New("gh missing")}, "me/jobs", nil)
	if _, err := g.CountApplications(ctx); err == nil {
		t.Error("expected list error")
	}

	g = NewGitHub(&fakeCLI{issues: `not json`}, "me/jobs", nil)
	if _, err := g.CountApplications(ctx); err == nil {
		t.Error("expected parse error")
	}
}

func TestGitHubFallback(t *testing.T) {
	ctx := context.Background()
	g := NewGitHub(&fakeCLI{issues: `[]`}, "me/jobs", &Static{Resumes: 3, Content: 7})

	if n, _ := g.CountResumes(ctx); n != 3 {
		t.Errorf("CountResumes = %d, want 3", n)
	}
	if n, _ := g.CountContent(ctx); n != 7 {
		t.Errorf("CountContent = %d, want 7", n)
	}
}

func TestGitHubCurrentUser(t *testing.T) {
	ctx := context.Background()
	cli := &fakeCLI{user: `{"login":"octocat","email":"octo@example.com"}`}
	g := NewGitHub(cli, "me/jobs", nil)

	u, err := g.CurrentUser(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if u.ID != "octocat" {
		t.Errorf("ID = %q, want octocat", u.ID)
	}
	if _, err := g.CurrentUser(ctx); err != nil {
		t.Fatal(err)
	}
	if cli.calls != 1 {
		t.Errorf("gh called %d times, want 1", cli.calls)
	}

	g = NewGitHub(&fakeCLI{}, "me/jobs", nil)
	if _, err := g.CurrentUser(ctx); !errors.Is(err, ErrNoUser) {
		t.Errorf("error = %v, want ErrNoUser", err)
	}
}

func TestGitHubRetriesTransientFailures(t *testing.T) {
	ctx := context.Background()
	fast := retry.Backoff{Attempts: 3, Initial: time.Millisecond, Max: time.Millisecond}
	rateLimited := errors.New("gh issue list failed: exit status 1: API rate limit exceeded")
	notFound := errors.New("gh issue list failed: exit status 1: Could not resolve to a Repository")

	tests := []struct {
		name      string
		fails     []error
		want      int
		wantErr   bool
		wantCalls int
	}{
		{"recovers after rate limit", []error{rateLimited, rateLimited}, 2, false, 3},
		{"gives up after attempts", []error{rateLimited, rateLimited, rateLimited}, 0, true, 3},
		{"permanent failure not repeated", []error{notFound}, 0, true, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cli := &fakeCLI{issues: `[{"number":1},{"number":2}]`, listFails: tt.fails}
			g := NewGitHub(cli, "me/jobs", nil)
			g.backoff = fast

			got, err := g.CountApplications(ctx)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
			if cli.listCalls != tt.wantCalls {
				t.Errorf("gh called %d times, want %d", cli.listCalls, tt.wantCalls)
			}
			if retry.IsTransient(err) {
				t.Errorf("error leaked the transient mark: %v", err)
			}
		})
	}
}
