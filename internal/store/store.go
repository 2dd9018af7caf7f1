// Package store defines the datastore abstraction for device-compare.
// Services depend on the Store interface, never on concrete implementations,
// so they can be tested with mocks instead of a running database.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	domain "github.com/donaldgifford/device-compare/pkg/types"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// CatalogRow is a raw upstream catalog record as persisted for stale
// fallback. Payload holds the record exactly as it was decoded.
type CatalogRow struct {
	ID        string          `json:"id"`
	Payload   json.RawMessage `json:"payload"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// Store defines all data access operations for device-compare.
type Store interface {
	// Catalog snapshot
	ReplaceCatalog(ctx context.Context, rows []CatalogRow) (int, error)
	ListCatalog(ctx context.Context) ([]CatalogRow, error)
	GetCatalogRecord(ctx context.Context, id string) (*CatalogRow, error)
	CountCatalog(ctx context.Context) (int, error)

	// Search quota
	GetSearchCount(ctx context.Context, clientID string) (int, error)
	IncrementSearchCount(ctx context.Context, clientID string) (int, error)
	ResetSearchCount(ctx context.Context, clientID string) error

	// Scheduler
	InsertJobRun(ctx context.Context, jobName string) (id string, err error)
	CompleteJobRun(ctx context.Context, id string, status string, errText string, rowsAffected int) error
	ListJobRuns(ctx context.Context, q *JobRunQuery) ([]domain.JobRun, int, error)
	ListLatestJobRuns(ctx context.Context) ([]domain.JobRun, error)
	RecoverStaleJobRuns(ctx context.Context, olderThan time.Duration) (int, error)
	AcquireSchedulerLock(ctx context.Context, jobName string, holder string, ttl time.Duration) (bool, error)
	ReleaseSchedulerLock(ctx context.Context, jobName string, holder string) error

	// Migrations
	Migrate(ctx context.Context) error

	// Health
	Ping(ctx context.Context) error
}
