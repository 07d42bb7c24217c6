package app

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/eugener/foyer/internal/upstream"
)

// MyPageBundle is the combined result of the my-page fan-out. It is
// materialized only when every branch succeeds.
type MyPageBundle struct {
	Profile    *upstream.User       `json:"profile"`
	Resumes    []upstream.Resume    `json:"resumes"`
	Interviews []upstream.Interview `json:"interviews"`
}

// Aggregator composes independent proxy calls into single multi-source
// views with all-or-nothing semantics: a partial dashboard is worse than a
// clear failure, so the first branch error aborts the bundle and the other
// results are discarded.
type Aggregator struct {
	users      *UserService
	resumes    *ResumeService
	interviews *InterviewService
}

// NewAggregator wires an Aggregator over the per-resource services.
func NewAggregator(users *UserService, resumes *ResumeService, interviews *InterviewService) *Aggregator {
	return &Aggregator{users: users, resumes: resumes, interviews: interviews}
}

// MyPage runs the profile, resume-list, and interview-history calls
// concurrently and combines them. Branches share an errgroup context: the
// first failure cancels the siblings still in flight, and in-flight
// upstream work is abandoned rather than compensated -- upstream effects of
// already-issued calls are left to complete, their results discarded.
func (a *Aggregator) MyPage(ctx context.Context, token string) (*MyPageBundle, error) {
	g, ctx := errgroup.WithContext(ctx)

	var bundle MyPageBundle
	g.Go(func() error {
		profile, err := a.users.Profile(ctx, token)
		if err != nil {
			return err
		}
		bundle.Profile = profile
		return nil
	})
	g.Go(func() error {
		resumes, err := a.resumes.List(ctx, token)
		if err != nil {
			return err
		}
		bundle.Resumes = resumes
		return nil
	})
	g.Go(func() error {
		interviews, err := a.interviews.History(ctx, token)
		if err != nil {
			return err
		}
		bundle.Interviews = interviews
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &bundle, nil
}
