package app

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/eugener/foyer/internal/upstream"
)

// InterviewService proxies mock-interview session operations.
type InterviewService struct {
	upstream *upstream.Client
}

// NewInterviewService returns an InterviewService backed by the upstream client.
func NewInterviewService(client *upstream.Client) *InterviewService {
	return &InterviewService{upstream: client}
}

// Create starts a new interview session for a resume. The resume ID rides
// in the query string per the upstream's routing convention.
func (i *InterviewService) Create(ctx context.Context, token string, resumeID, jobID int) (*upstream.Interview, error) {
	q := url.Values{}
	q.Set("resume_id", strconv.Itoa(resumeID))
	if jobID > 0 {
		q.Set("job_id", strconv.Itoa(jobID))
	}

	var out upstream.Interview
	err := i.upstream.Do(ctx, upstream.Call{
		Method:  http.MethodPost,
		Path:    "/interviews/",
		Query:   q,
		Token:   token,
		Timeout: shortCallTimeout,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// History fetches the caller's interview sessions.
func (i *InterviewService) History(ctx context.Context, token string) ([]upstream.Interview, error) {
	var out []upstream.Interview
	err := i.upstream.Do(ctx, upstream.Call{
		Method:  http.MethodGet,
		Path:    "/interviews/",
		Token:   token,
		Timeout: shortCallTimeout,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Results fetches the post-interview analysis. AI-generated, so it keeps
// the full call budget.
func (i *InterviewService) Results(ctx context.Context, token string, interviewID int) (*upstream.Analysis, error) {
	var out upstream.Analysis
	err := i.upstream.Do(ctx, upstream.Call{
		Method: http.MethodGet,
		Path:   "/interviews/" + strconv.Itoa(interviewID) + "/results",
		Token:  token,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SendVideoAnalysis forwards captured facial-landmark frames for analysis.
func (i *InterviewService) SendVideoAnalysis(ctx context.Context, token string, interviewID int, landmarks []map[string]any) error {
	call, err := upstream.Call{
		Method: http.MethodPost,
		Path:   "/interviews/" + strconv.Itoa(interviewID) + "/video-analysis",
		Token:  token,
	}.WithJSON(upstream.VideoAnalysisRequest{Landmarks: landmarks})
	if err != nil {
		return err
	}
	return i.upstream.Do(ctx, call, nil)
}
