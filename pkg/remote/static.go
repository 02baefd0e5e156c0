package remote

import (
	"context"
)

// Method names accepted as Static.Errors keys.
const (
	MethodCurrentUser       = "CurrentUser"
	MethodCountResumes      = "CountResumes"
	MethodCountApplications = "CountApplications"
	MethodCountCoverLetters = "CountCoverLetters"
	MethodRecentBrandAudits = "RecentBrandAudits"
	MethodCountContent      = "CountContent"
	MethodSkillWatchlist    = "SkillWatchlist"
)

// Static is a Source serving fixed values. The zero value is a user with no
// data. Errors makes individual methods fail.
type Static struct {
	User         User
	Resumes      int
	Applications int
	CoverLetters int
	// BrandAudits are ordered newest first.
	BrandAudits []BrandAudit
	Content     int
	Watchlist   []Skill
	Errors      map[string]error
}

func (s *Static) fail(method string) error {
	if s == nil || s.Errors == nil {
		return nil
	}
	return s.Errors[method]
}

func (s *Static) CurrentUser(context.Context) (User, error) {
	if err := s.fail(MethodCurrentUser); err != nil {
		return User{}, err
	}
	if s.User.ID == "" {
		return User{}, ErrNoUser
	}
	return s.User, nil
}

func (s *Static) CountResumes(context.Context) (int, error) {
	return s.Resumes, s.fail(MethodCountResumes)
}

func (s *Static) CountApplications(context.Context) (int, error) {
	return s.Applications, s.fail(MethodCountApplications)
}

func (s *Static) CountCoverLetters(context.Context) (int, error) {
	return s.CoverLetters, s.fail(MethodCountCoverLetters)
}

func (s *Static) RecentBrandAudits(_ context.Context, n int) ([]BrandAudit, error) {
	if err := s.fail(MethodRecentBrandAudits); err != nil {
		return nil, err
	}
	if n < 0 || n > len(s.BrandAudits) {
		n = len(s.BrandAudits)
	}
	out := make([]BrandAudit, n)
	copy(out, s.BrandAudits[:n])
	return out, nil
}

func (s *Static) CountContent(context.Context) (int, error) {
	return s.Content, s.fail(MethodCountContent)
}

func (s *Static) SkillWatchlist(context.Context) ([]Skill, error) {
	if err := s.fail(MethodSkillWatchlist); err != nil {
		return nil, err
	}
	out := make([]Skill, len(s.Watchlist))
	copy(out, s.Watchlist)
	return out, nil
}
