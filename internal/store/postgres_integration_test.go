//go:build integration

package store_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/donaldgifford/device-compare/internal/store"
	domain "github.com/donaldgifford/device-compare/pkg/types"
)

func setupPostgres(t *testing.T) *store.PostgresStore {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("dcmp_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, pgContainer.Terminate(ctx))
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := store.NewPostgresStore(ctx, connStr, 4)
	require.NoError(t, err)

	t.Cleanup(func() {
		s.Close()
	})

	require.NoError(t, s.Migrate(ctx))

	return s
}

func row(id, model string) store.CatalogRow {
	payload, _ := json.Marshal(map[string]any{"_id": id, "model_name": model})
	return store.CatalogRow{ID: id, Payload: payload}
}

func TestPostgresStore_Ping(t *testing.T) {
	s := setupPostgres(t)
	require.NoError(t, s.Ping(context.Background()))
}

func TestPostgresStore_MigrateIsIdempotent(t *testing.T) {
	s := setupPostgres(t)
	require.NoError(t, s.Migrate(context.Background()))
}

func TestPostgresStore_ReplaceCatalog(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	n, err := s.ReplaceCatalog(ctx, []store.CatalogRow{row("b", "Beta"), row("a", "Alpha"), row("c", "Gamma")})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	rows, err := s.ListCatalog(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "b", rows[0].ID, "insertion order is kept")
	assert.Equal(t, "c", rows[2].ID)
	assert.False(t, rows[0].FetchedAt.IsZero())

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(rows[1].Payload, &decoded))
	assert.Equal(t, "Alpha", decoded["model_name"])

	// A second snapshot replaces the first.
	_, err = s.ReplaceCatalog(ctx, []store.CatalogRow{row("c", "Gamma 2"), row("d", "Delta")})
	require.NoError(t, err)

	count, err := s.CountCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	got, err := s.GetCatalogRecord(ctx, "c")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(got.Payload, &decoded))
	assert.Equal(t, "Gamma 2", decoded["model_name"])

	_, err = s.GetCatalogRecord(ctx, "a")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestPostgresStore_ReplaceCatalogEmpty(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	_, err := s.ReplaceCatalog(ctx, []store.CatalogRow{row("a", "Alpha")})
	require.NoError(t, err)

	n, err := s.ReplaceCatalog(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	count, err := s.CountCatalog(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestPostgresStore_SearchQuota(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	n, err := s.GetSearchCount(ctx, "client-1")
	require.NoError(t, err)
	assert.Zero(t, n)

	for want := 1; want <= 3; want++ {
		n, err = s.IncrementSearchCount(ctx, "client-1")
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}

	n, err = s.GetSearchCount(ctx, "client-2")
	require.NoError(t, err)
	assert.Zero(t, n, "clients are counted separately")

	require.NoError(t, s.ResetSearchCount(ctx, "client-1"))
	n, err = s.GetSearchCount(ctx, "client-1")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPostgresStore_JobRuns(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	first, err := s.InsertJobRun(ctx, "catalog_refresh")
	require.NoError(t, err)
	require.NoError(t, s.CompleteJobRun(ctx, first, domain.JobStatusSucceeded, "", 42))

	second, err := s.InsertJobRun(ctx, "catalog_refresh")
	require.NoError(t, err)
	require.NoError(t, s.CompleteJobRun(ctx, second, domain.JobStatusFailed, "upstream down", 0))

	name := "catalog_refresh"
	runs, total, err := s.ListJobRuns(ctx, &store.JobRunQuery{JobName: &name})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, runs, 2)
	assert.Equal(t, second, runs[0].ID, "newest first")
	assert.Equal(t, "upstream down", runs[0].ErrorText)
	require.NotNil(t, runs[1].RowsAffected)
	assert.Equal(t, 42, *runs[1].RowsAffected)

	failed := domain.JobStatusFailed
	runs, total, err = s.ListJobRuns(ctx, &store.JobRunQuery{Status: &failed})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, runs, 1)

	latest, err := s.ListLatestJobRuns(ctx)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, second, latest[0].ID)
}

func TestPostgresStore_RecoverStaleJobRuns(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	_, err := s.InsertJobRun(ctx, "catalog_refresh")
	require.NoError(t, err)

	n, err := s.RecoverStaleJobRuns(ctx, time.Hour)
	require.NoError(t, err)
	assert.Zero(t, n, "fresh runs are left alone")

	n, err = s.RecoverStaleJobRuns(ctx, -time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	runs, _, err := s.ListJobRuns(ctx, nil)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, domain.JobStatusCrashed, runs[0].Status)
}

func TestPostgresStore_SchedulerLock(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	ok, err := s.AcquireSchedulerLock(ctx, "catalog_refresh", "pod-a", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.AcquireSchedulerLock(ctx, "catalog_refresh", "pod-b", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "held by pod-a")

	require.NoError(t, s.ReleaseSchedulerLock(ctx, "catalog_refresh", "pod-a"))

	ok, err = s.AcquireSchedulerLock(ctx, "catalog_refresh", "pod-b", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}
