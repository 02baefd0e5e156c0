package remote

import (
	"context"
	"fmt"
	"sync"

	"github.com/xrsl/careerflow/pkg/gh"
	"github.com/xrsl/careerflow/pkg/retry"
)

// AppliedLabel marks an application issue that has been submitted.
const AppliedLabel = "applied"

// GitHub is a Source for users who track applications as issues in a
// repository. Applications are counted from issues; every other query is
// answered by the fallback source.
type GitHub struct {
	Source

	cli     gh.CLI
	repo    string
	backoff retry.Backoff

	mu   sync.Mutex
	user *User
}

// NewGitHub returns a GitHub source over repo. A nil fallback answers zero
// for everything except applications.
func NewGitHub(cli gh.CLI, repo string, fallback Source) *GitHub {
	if fallback == nil {
		fallback = &Static{}
	}
	return &GitHub{Source: fallback, cli: cli, repo: repo, backoff: retry.Remote}
}

// CurrentUser resolves the gh-authenticated user.
func (g *GitHub) CurrentUser(ctx context.Context) (User, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.user != nil {
		return *g.user, nil
	}
	out, err := retry.Do(ctx, g.backoff, func(ctx context.Context) ([]byte, error) {
		out, err := g.cli.CurrentUser(ctx)
		return out, classifyGH(err)
	})
	if err != nil {
		return User{}, fmt.Errorf("%w: %v", ErrNoUser, err)
	}
	u, err := gh.ParseUser(out)
	if err != nil || u.Login == "" {
		return User{}, ErrNoUser
	}
	g.user = &User{ID: u.Login, Email: u.Email}
	return *g.user, nil
}

// CountApplications counts issues in the repository. When any issue carries
// the applied label only labelled issues count.
func (g *GitHub) CountApplications(ctx context.Context) (int, error) {
	out, err := retry.Do(ctx, g.backoff, func(ctx context.Context) ([]byte, error) {
		out, err := g.cli.IssueList(ctx, g.repo, "all", 1000)
		return out, classifyGH(err)
	})
	if err != nil {
		return 0, err
	}
	issues, err := gh.ParseIssues(out)
	if err != nil {
		return 0, fmt.Errorf("parse issues: %w", err)
	}
	labelled := 0
	for _, issue := range issues {
		if issue.HasLabel(AppliedLabel) {
			labelled++
		}
	}
	if labelled > 0 {
		return labelled, nil
	}
	return len(issues), nil
}
