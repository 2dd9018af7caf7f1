package client

import (
	"context"
	"net/url"
	"strconv"

	domain "github.com/donaldgifford/device-compare/pkg/types"
)

// ListJobsParams holds the query parameters for ListJobs.
type ListJobsParams struct {
	JobName string
	Status  string
	Limit   int
	Offset  int
}

// JobsResponse is a page of job runs.
type JobsResponse struct {
	Jobs  []domain.JobRun `json:"jobs"`
	Total int             `json:"total"`
}

// ListJobs returns job run history, newest first.
func (c *Client) ListJobs(ctx context.Context, p *ListJobsParams) (*JobsResponse, error) {
	q := url.Values{}
	if p != nil {
		if p.JobName != "" {
			q.Set("job_name", p.JobName)
		}
		if p.Status != "" {
			q.Set("status", p.Status)
		}
		if p.Limit > 0 {
			q.Set("limit", strconv.Itoa(p.Limit))
		}
		if p.Offset > 0 {
			q.Set("offset", strconv.Itoa(p.Offset))
		}
	}

	var resp JobsResponse
	if err := c.get(ctx, withQuery("/api/v1/jobs", q), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// LatestJobs returns the most recent run for each distinct job.
func (c *Client) LatestJobs(ctx context.Context) ([]domain.JobRun, error) {
	var runs []domain.JobRun
	if err := c.get(ctx, "/api/v1/jobs/latest", &runs); err != nil {
		return nil, err
	}
	return runs, nil
}
