package handlers_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/device-compare/internal/api/handlers"
	"github.com/donaldgifford/device-compare/internal/store"
	storeMocks "github.com/donaldgifford/device-compare/internal/store/mocks"
	domain "github.com/donaldgifford/device-compare/pkg/types"
)

func sampleJobRun(jobName, status string) domain.JobRun {
	return domain.JobRun{
		ID:        "job-run-id-1",
		JobName:   jobName,
		StartedAt: time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC),
		Status:    status,
	}
}

func TestListJobs(t *testing.T) {
	t.Parallel()

	since := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		path       string
		match      func(*store.JobRunQuery) bool
		runs       []domain.JobRun
		total      int
		err        error
		wantStatus int
		wantBody   []string
	}{
		{
			name: "defaults",
			path: "/api/v1/jobs",
			match: func(q *store.JobRunQuery) bool {
				return q.Limit == 20 && q.Offset == 0 && q.JobName == nil && q.Status == nil && q.Since == nil
			},
			runs:       []domain.JobRun{sampleJobRun("catalog_refresh", domain.JobStatusSucceeded)},
			total:      1,
			wantStatus: http.StatusOK,
			wantBody:   []string{`"job_name":"catalog_refresh"`, `"total":1`},
		},
		{
			name: "filters",
			path: "/api/v1/jobs?job_name=catalog_refresh&status=failed&since=2026-04-01T00:00:00Z&limit=5&offset=10&order_by=duration",
			match: func(q *store.JobRunQuery) bool {
				return q.Limit == 5 && q.Offset == 10 && q.OrderBy == "duration" &&
					q.JobName != nil && *q.JobName == "catalog_refresh" &&
					q.Status != nil && *q.Status == "failed" &&
					q.Since != nil && q.Since.Equal(since)
			},
			total:      12,
			wantStatus: http.StatusOK,
			wantBody:   []string{`"jobs":[]`, `"total":12`},
		},
		{
			name: "store error",
			path: "/api/v1/jobs",
			match: func(*store.JobRunQuery) bool {
				return true
			},
			err:        errors.New("db error"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   []string{"listing jobs failed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ms := storeMocks.NewMockStore(t)
			ms.EXPECT().ListJobRuns(mock.Anything, mock.MatchedBy(tt.match)).Return(tt.runs, tt.total, tt.err).Once()

			_, api := humatest.New(t)
			handlers.RegisterJobRoutes(api, handlers.NewJobsHandler(ms))

			resp := api.Get(tt.path)
			require.Equal(t, tt.wantStatus, resp.Code, resp.Body.String())
			for _, want := range tt.wantBody {
				assert.Contains(t, resp.Body.String(), want)
			}
		})
	}
}

func TestListJobs_InvalidStatus(t *testing.T) {
	t.Parallel()

	_, api := humatest.New(t)
	handlers.RegisterJobRoutes(api, handlers.NewJobsHandler(storeMocks.NewMockStore(t)))

	resp := api.Get("/api/v1/jobs?status=exploded")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestLatestJobs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		runs       []domain.JobRun
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "latest per job",
			runs:       []domain.JobRun{sampleJobRun("catalog_refresh", domain.JobStatusRunning)},
			wantStatus: http.StatusOK,
			wantBody:   `"status":"running"`,
		},
		{
			name:       "empty",
			wantStatus: http.StatusOK,
			wantBody:   "[]",
		},
		{
			name:       "store error",
			err:        errors.New("db error"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   "db error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ms := storeMocks.NewMockStore(t)
			ms.EXPECT().ListLatestJobRuns(mock.Anything).Return(tt.runs, tt.err).Once()

			_, api := humatest.New(t)
			handlers.RegisterJobRoutes(api, handlers.NewJobsHandler(ms))

			resp := api.Get("/api/v1/jobs/latest")
			require.Equal(t, tt.wantStatus, resp.Code)
			assert.Contains(t, resp.Body.String(), tt.wantBody)
		})
	}
}
