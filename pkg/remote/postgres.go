package remote

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	clog "github.com/xrsl/careerflow/pkg/log"
	"github.com/xrsl/careerflow/pkg/retry"
)

// Schema creates the tables the Postgres source reads.
const Schema = `
CREATE TABLE IF NOT EXISTS users (
	id    TEXT PRIMARY KEY,
	email TEXT UNIQUE NOT NULL
);
CREATE TABLE IF NOT EXISTS resumes (
	id         BIGSERIAL PRIMARY KEY,
	user_id    TEXT NOT NULL REFERENCES users(id),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS applications (
	id         BIGSERIAL PRIMARY KEY,
	user_id    TEXT NOT NULL REFERENCES users(id),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS cover_letters (
	id         BIGSERIAL PRIMARY KEY,
	user_id    TEXT NOT NULL REFERENCES users(id),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS brand_audits (
	id         BIGSERIAL PRIMARY KEY,
	user_id    TEXT NOT NULL REFERENCES users(id),
	score      INTEGER NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS content_records (
	id         BIGSERIAL PRIMARY KEY,
	user_id    TEXT NOT NULL REFERENCES users(id),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS skill_watchlist (
	user_id   TEXT NOT NULL REFERENCES users(id),
	skill     TEXT NOT NULL,
	status    TEXT NOT NULL DEFAULT 'watching',
	certified BOOLEAN NOT NULL DEFAULT false,
	PRIMARY KEY (user_id, skill)
);
`

// count queries by table; table names never come from input
var countQueries = map[string]string{
	"resumes":         "SELECT count(*) FROM resumes WHERE user_id = $1",
	"applications":    "SELECT count(*) FROM applications WHERE user_id = $1",
	"cover_letters":   "SELECT count(*) FROM cover_letters WHERE user_id = $1",
	"content_records": "SELECT count(*) FROM content_records WHERE user_id = $1",
}

// Postgres is a Source backed by the product database. Queries are scoped to
// the user identified by email. Connection drops, serialization conflicts
// and similar transient failures are retried on the retry.Remote schedule.
type Postgres struct {
	pool    *pgxpool.Pool
	email   string
	backoff retry.Backoff

	mu   sync.Mutex
	user *User
}

// NewPostgres wraps an existing pool.
func NewPostgres(pool *pgxpool.Pool, email string) *Postgres {
	return &Postgres{pool: pool, email: email, backoff: retry.Remote}
}

// Connect opens a pool for dsn and verifies connectivity.
func Connect(ctx context.Context, dsn, email string) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	clog.Debug("postgres source connected", "host", cfg.ConnConfig.Host, "database", cfg.ConnConfig.Database)
	return NewPostgres(pool, email), nil
}

// Migrate creates the schema when missing.
func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Close releases the pool.
func (p *Postgres) Close() {
	p.pool.Close()
}

// CurrentUser resolves the configured email to a user row. The result is
// cached for the lifetime of the source.
func (p *Postgres) CurrentUser(ctx context.Context) (User, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.user != nil {
		return *p.user, nil
	}
	if p.email == "" {
		return User{}, ErrNoUser
	}

	u, err := retry.Do(ctx, p.backoff, func(ctx context.Context) (User, error) {
		var u User
		err := p.pool.QueryRow(ctx, "SELECT id, email FROM users WHERE email = $1", p.email).Scan(&u.ID, &u.Email)
		return u, classifyPG(err)
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNoUser
	}
	if err != nil {
		return User{}, fmt.Errorf("lookup user: %w", err)
	}
	p.user = &u
	return u, nil
}

func (p *Postgres) count(ctx context.Context, table string) (int, error) {
	u, err := p.CurrentUser(ctx)
	if err != nil {
		return 0, err
	}
	n, err := retry.Do(ctx, p.backoff, func(ctx context.Context) (int, error) {
		var n int
		err := p.pool.QueryRow(ctx, countQueries[table], u.ID).Scan(&n)
		return n, classifyPG(err)
	})
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

func (p *Postgres) CountResumes(ctx context.Context) (int, error) {
	return p.count(ctx, "resumes")
}

func (p *Postgres) CountApplications(ctx context.Context) (int, error) {
	return p.count(ctx, "applications")
}

func (p *Postgres) CountCoverLetters(ctx context.Context) (int, error) {
	return p.count(ctx, "cover_letters")
}

func (p *Postgres) CountContent(ctx context.Context) (int, error) {
	return p.count(ctx, "content_records")
}

func (p *Postgres) RecentBrandAudits(ctx context.Context, n int) ([]BrandAudit, error) {
	u, err := p.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	audits, err := retry.Do(ctx, p.backoff, func(ctx context.Context) ([]BrandAudit, error) {
		rows, err := p.pool.Query(ctx,
			"SELECT score, created_at FROM brand_audits WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2",
			u.ID, n)
		if err != nil {
			return nil, classifyPG(err)
		}
		audits, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (BrandAudit, error) {
			var a BrandAudit
			err := row.Scan(&a.Score, &a.CreatedAt)
			return a, err
		})
		return audits, classifyPG(err)
	})
	if err != nil {
		return nil, fmt.Errorf("query brand audits: %w", err)
	}
	return audits, nil
}

func (p *Postgres) SkillWatchlist(ctx context.Context) ([]Skill, error) {
	u, err := p.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	skills, err := retry.Do(ctx, p.backoff, func(ctx context.Context) ([]Skill, error) {
		rows, err := p.pool.Query(ctx,
			"SELECT skill, status, certified FROM skill_watchlist WHERE user_id = $1 ORDER BY skill",
			u.ID)
		if err != nil {
			return nil, classifyPG(err)
		}
		skills, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Skill, error) {
			var s Skill
			err := row.Scan(&s.Name, &s.Status, &s.Certified)
			return s, err
		})
		return skills, classifyPG(err)
	})
	if err != nil {
		return nil, fmt.Errorf("query skill watchlist: %w", err)
	}
	return skills, nil
}
