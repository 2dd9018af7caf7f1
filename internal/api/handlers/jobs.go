package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/device-compare/internal/store"
	domain "github.com/donaldgifford/device-compare/pkg/types"
)

// JobsProvider defines the store methods required by the jobs handler.
type JobsProvider interface {
	ListLatestJobRuns(ctx context.Context) ([]domain.JobRun, error)
	ListJobRuns(ctx context.Context, q *store.JobRunQuery) ([]domain.JobRun, int, error)
}

// JobsHandler handles scheduler job history requests.
type JobsHandler struct {
	store JobsProvider
}

// NewJobsHandler creates a new JobsHandler.
func NewJobsHandler(s JobsProvider) *JobsHandler {
	return &JobsHandler{store: s}
}

// ListJobsInput filters job history.
type ListJobsInput struct {
	JobName string    `query:"job_name" doc:"Only runs of this job" example:"catalog_refresh"`
	Status  string    `query:"status"   doc:"Only runs with this status" enum:"running,succeeded,failed,crashed"`
	Since   time.Time `query:"since"    doc:"Only runs started at or after this time"`
	Limit   int       `query:"limit"    doc:"Page size" default:"20" minimum:"1" maximum:"200"`
	Offset  int       `query:"offset"   doc:"Rows to skip" minimum:"0"`
	OrderBy string    `query:"order_by" doc:"Sort order" enum:"started_at,duration,job_name"`
}

// ListJobsOutput is a page of job runs.
type ListJobsOutput struct {
	Body struct {
		Jobs  []domain.JobRun `json:"jobs"`
		Total int             `json:"total" doc:"Runs matching the filters, ignoring paging"`
	}
}

// ListJobs returns job run history, newest first by default.
func (h *JobsHandler) ListJobs(ctx context.Context, input *ListJobsInput) (*ListJobsOutput, error) {
	q := &store.JobRunQuery{
		Limit:   input.Limit,
		Offset:  input.Offset,
		OrderBy: input.OrderBy,
	}
	if input.JobName != "" {
		q.JobName = &input.JobName
	}
	if input.Status != "" {
		q.Status = &input.Status
	}
	if !input.Since.IsZero() {
		q.Since = &input.Since
	}

	runs, total, err := h.store.ListJobRuns(ctx, q)
	if err != nil {
		return nil, huma.Error500InternalServerError("listing jobs failed: " + err.Error())
	}
	if runs == nil {
		runs = []domain.JobRun{}
	}

	out := &ListJobsOutput{}
	out.Body.Jobs = runs
	out.Body.Total = total
	return out, nil
}

// LatestJobsOutput is the most recent run per job.
type LatestJobsOutput struct {
	Body []domain.JobRun
}

// LatestJobs returns the most recent run for each distinct job.
func (h *JobsHandler) LatestJobs(ctx context.Context, _ *struct{}) (*LatestJobsOutput, error) {
	runs, err := h.store.ListLatestJobRuns(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("listing jobs failed: " + err.Error())
	}
	if runs == nil {
		runs = []domain.JobRun{}
	}
	return &LatestJobsOutput{Body: runs}, nil
}

// RegisterJobRoutes registers job history endpoints with the Huma API.
func RegisterJobRoutes(api huma.API, h *JobsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-jobs",
		Method:      http.MethodGet,
		Path:        "/api/v1/jobs",
		Summary:     "List job runs",
		Description: "Returns catalog refresh history with optional filters and paging.",
		Tags:        []string{"scheduler"},
		Errors:      []int{http.StatusInternalServerError},
	}, h.ListJobs)

	huma.Register(api, huma.Operation{
		OperationID: "latest-jobs",
		Method:      http.MethodGet,
		Path:        "/api/v1/jobs/latest",
		Summary:     "Latest run per job",
		Description: "Returns the most recent run record for each distinct job.",
		Tags:        []string{"scheduler"},
		Errors:      []int{http.StatusInternalServerError},
	}, h.LatestJobs)
}
