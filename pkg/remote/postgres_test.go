package remote

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

func setupPostgres(t *testing.T) (*pgxpool.Pool, context.Context) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	t.Cleanup(cancel)

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("careerflow_test"),
		postgres.WithUsername("careerflow"),
		postgres.WithPassword("careerflow"),
		postgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = testcontainers.TerminateContainer(container)
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, Schema)
	require.NoError(t, err)
	return pool, ctx
}

func TestPostgresSource(t *testing.T) {
	pool, ctx := setupPostgres(t)

	_, err := pool.Exec(ctx, `
		INSERT INTO users (id, email) VALUES ('u1', 'ada@example.com'), ('u2', 'bob@example.com');
		INSERT INTO resumes (user_id) VALUES ('u1'), ('u1'), ('u2');
		INSERT INTO applications (user_id) VALUES ('u1'), ('u1'), ('u1');
		INSERT INTO cover_letters (user_id) VALUES ('u1');
		INSERT INTO content_records (user_id) VALUES ('u2');
		INSERT INTO brand_audits (user_id, score, created_at) VALUES
			('u1', 42, '2026-01-01T00:00:00Z'),
			('u1', 58, '2026-02-01T00:00:00Z');
		INSERT INTO skill_watchlist (user_id, skill, status, certified) VALUES
			('u1', 'kubernetes', 'acquired', true),
			('u1', 'go', 'learning', false);
	`)
	require.NoError(t, err)

	src := NewPostgres(pool, "ada@example.com")

	u, err := src.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)

	n, err := src.CountResumes(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = src.CountApplications(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = src.CountCoverLetters(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = src.CountContent(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	audits, err := src.RecentBrandAudits(ctx, 2)
	require.NoError(t, err)
	require.Len(t, audits, 2)
	assert.Equal(t, 58, audits[0].Score)
	assert.Equal(t, 42, audits[1].Score)

	skills, err := src.SkillWatchlist(ctx)
	require.NoError(t, err)
	require.Len(t, skills, 2)
	assert.Equal(t, "go", skills[0].Name)
	assert.True(t, skills[1].Certified)
}

func TestPostgresUnknownUser(t *testing.T) {
	pool, ctx := setupPostgres(t)

	src := NewPostgres(pool, "nobody@example.com")
	_, err := src.CurrentUser(ctx)
	assert.True(t, errors.Is(err, ErrNoUser))

	_, err = src.CountResumes(ctx)
	assert.Error(t, err)
}
