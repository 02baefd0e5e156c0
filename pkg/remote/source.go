// Package remote is the remote data capability: per-user counts and records
// held by the product backend. Consumers must treat every error as "zero or
// absent" for that one metric.
package remote

import (
	"context"
	"errors"
	"time"
)

// ErrNoUser is returned when no authenticated user can be resolved.
var ErrNoUser = errors.New("no authenticated user")

// User is the authenticated user the queries are scoped to.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}

// BrandAudit is one brand audit result.
type BrandAudit struct {
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"createdAt"`
}

// Skill is an entry of the user's skill watchlist.
type Skill struct {
	Name      string `json:"name"`
	Status    string `json:"status"`
	Certified bool   `json:"certified"`
}

// Skill watchlist statuses.
const (
	SkillWatching = "watching"
	SkillLearning = "learning"
	SkillAcquired = "acquired"
)

// Source provides remote per-user data.
type Source interface {
	CurrentUser(ctx context.Context) (User, error)
	CountResumes(ctx context.Context) (int, error)
	CountApplications(ctx context.Context) (int, error)
	CountCoverLetters(ctx context.Context) (int, error)
	// RecentBrandAudits returns up to n audits, newest first.
	RecentBrandAudits(ctx context.Context, n int) ([]BrandAudit, error)
	CountContent(ctx context.Context) (int, error)
	SkillWatchlist(ctx context.Context) ([]Skill, error)
}

// LatestBrandScore returns the score of the newest audit, or nil when there
// is none or the source fails.
func LatestBrandScore(ctx context.Context, src Source) *int {
	audits, err := src.RecentBrandAudits(ctx, 1)
	if err != nil || len(audits) == 0 {
		return nil
	}
	score := audits[0].Score
	return &score
}
