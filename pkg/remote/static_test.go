package remote

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestStaticZeroValue(t *testing.T) {
	ctx := context.Background()
	s := &Static{}

	if _, err := s.CurrentUser(ctx); !errors.Is(err, ErrNoUser) {
		t.Errorf("CurrentUser error = %v, want ErrNoUser", err)
	}
	n, err := s.CountResumes(ctx)
	if err != nil || n != 0 {
		t.Errorf("CountResumes = %d, %v", n, err)
	}
	if got := LatestBrandScore(ctx, s); got != nil {
		t.Errorf("LatestBrandScore = %d, want nil", *got)
	}
}

func TestStaticErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	s := &Static{
		Resumes:      2,
		Applications: 4,
		Errors:       map[string]error{MethodCountApplications: boom},
	}

	if n, err := s.CountResumes(ctx); err != nil || n != 2 {
		t.Errorf("CountResumes = %d, %v", n, err)
	}
	if _, err := s.CountApplications(ctx); !errors.Is(err, boom) {
		t.Errorf("CountApplications error = %v, want boom", err)
	}
}

func TestStaticBrandAudits(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	s := &Static{BrandAudits: []BrandAudit{
		{Score: 55, CreatedAt: now},
		{Score: 40, CreatedAt: now.AddDate(0, 0, -14)},
	}}

	audits, err := s.RecentBrandAudits(ctx, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(audits) != 2 {
		t.Fatalf("got %d audits, want 2", len(audits))
	}
	audits[0].Score = 0
	if s.BrandAudits[0].Score != 55 {
		t.Error("RecentBrandAudits must return a copy")
	}

	latest := LatestBrandScore(ctx, s)
	if latest == nil || *latest != 55 {
		t.Errorf("LatestBrandScore = %v, want 55", latest)
	}
}
