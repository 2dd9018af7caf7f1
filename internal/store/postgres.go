package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/donaldgifford/device-compare/pkg/types"
)

const defaultPoolSize = 10

// PostgresStore implements Store using pgxpool (connection-pooled PostgreSQL).
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore with connection pooling.
// maxConns of zero keeps the default pool size.
func NewPostgresStore(ctx context.Context, connString string, maxConns int32) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	cfg.MaxConns = defaultPoolSize
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close gracefully shuts down the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, s.pool)
}

// ReplaceCatalog stores rows as the current catalog snapshot, in order, and
// drops records that are no longer listed. Returns the number of rows written.
func (s *PostgresStore) ReplaceCatalog(ctx context.Context, rows []CatalogRow) (int, error) {
	ids := make([]string, 0, len(rows))
	batch := &pgx.Batch{}
	for i, r := range rows {
		fetched := r.FetchedAt
		if fetched.IsZero() {
			fetched = time.Now()
		}
		batch.Queue(queryUpsertCatalogRecord, r.ID, []byte(r.Payload), i, fetched)
		ids = append(ids, r.ID)
	}

	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if batch.Len() > 0 {
			if err := tx.SendBatch(ctx, batch).Close(); err != nil {
				return fmt.Errorf("upserting catalog records: %w", err)
			}
		}
		if _, err := tx.Exec(ctx, queryDeleteCatalogExcept, ids); err != nil {
			return fmt.Errorf("pruning catalog records: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

// ListCatalog returns the stored snapshot in its original order.
func (s *PostgresStore) ListCatalog(ctx context.Context) ([]CatalogRow, error) {
	rows, err := s.pool.Query(ctx, queryListCatalog)
	if err != nil {
		return nil, fmt.Errorf("querying catalog records: %w", err)
	}
	defer rows.Close()

	var out []CatalogRow
	for rows.Next() {
		var r CatalogRow
		if err := rows.Scan(&r.ID, &r.Payload, &r.FetchedAt); err != nil {
			return nil, fmt.Errorf("scanning catalog record: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetCatalogRecord returns a single stored record.
func (s *PostgresStore) GetCatalogRecord(ctx context.Context, id string) (*CatalogRow, error) {
	var r CatalogRow
	err := s.pool.QueryRow(ctx, queryGetCatalogRecord, id).Scan(&r.ID, &r.Payload, &r.FetchedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("catalog record %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting catalog record: %w", err)
	}
	return &r, nil
}

// CountCatalog returns the number of stored records.
func (s *PostgresStore) CountCatalog(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, queryCountCatalog).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting catalog records: %w", err)
	}
	return n, nil
}

// GetSearchCount returns how many searches clientID has made. Unknown
// clients have made none.
func (s *PostgresStore) GetSearchCount(ctx context.Context, clientID string) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, queryGetSearchCount, clientID).Scan(&n)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("getting search count: %w", err)
	}
	return n, nil
}

// IncrementSearchCount adds one search for clientID and returns the new count.
func (s *PostgresStore) IncrementSearchCount(ctx context.Context, clientID string) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, queryIncrementSearchCount, clientID).Scan(&n); err != nil {
		return 0, fmt.Errorf("incrementing search count: %w", err)
	}
	return n, nil
}

// ResetSearchCount clears the count for clientID.
func (s *PostgresStore) ResetSearchCount(ctx context.Context, clientID string) error {
	if _, err := s.pool.Exec(ctx, queryResetSearchCount, clientID); err != nil {
		return fmt.Errorf("resetting search count: %w", err)
	}
	return nil
}

// InsertJobRun records the start of a job and returns its UUID.
func (s *PostgresStore) InsertJobRun(ctx context.Context, jobName string) (string, error) {
	var id string
	if err := s.pool.QueryRow(ctx, queryInsertJobRun, jobName).Scan(&id); err != nil {
		return "", fmt.Errorf("inserting job run: %w", err)
	}
	return id, nil
}

// CompleteJobRun marks a job run as finished with the given status and metadata.
func (s *PostgresStore) CompleteJobRun(
	ctx context.Context,
	id string,
	status string,
	errText string,
	rowsAffected int,
) error {
	_, err := s.pool.Exec(ctx, queryCompleteJobRun, id, status, errText, rowsAffected)
	if err != nil {
		return fmt.Errorf("completing job run: %w", err)
	}
	return nil
}

// ListJobRuns returns job runs matching q along with the total match count.
func (s *PostgresStore) ListJobRuns(ctx context.Context, q *JobRunQuery) ([]domain.JobRun, int, error) {
	if q == nil {
		q = &JobRunQuery{}
	}
	dataSQL, countSQL, args := q.ToSQL()

	var total int
	if err := s.pool.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting job runs: %w", err)
	}

	rows, err := s.pool.Query(ctx, dataSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying job runs: %w", err)
	}
	defer rows.Close()

	runs, err := scanJobRuns(rows)
	if err != nil {
		return nil, 0, err
	}
	return runs, total, nil
}

// ListLatestJobRuns returns the single most recent run for each distinct job name.
func (s *PostgresStore) ListLatestJobRuns(ctx context.Context) ([]domain.JobRun, error) {
	rows, err := s.pool.Query(ctx, queryListLatestJobRuns)
	if err != nil {
		return nil, fmt.Errorf("querying latest job runs: %w", err)
	}
	defer rows.Close()

	return scanJobRuns(rows)
}

// RecoverStaleJobRuns marks any 'running' job rows older than olderThan as 'crashed',
// then deletes all rows older than 30 days. Returns the number of rows marked as crashed.
func (s *PostgresStore) RecoverStaleJobRuns(
	ctx context.Context,
	olderThan time.Duration,
) (int, error) {
	cutoff := time.Now().Add(-olderThan)

	tag, err := s.pool.Exec(ctx, queryMarkStaleJobRunsCrashed, cutoff)
	if err != nil {
		return 0, fmt.Errorf("marking stale job runs crashed: %w", err)
	}
	affected := int(tag.RowsAffected())

	if _, err := s.pool.Exec(ctx, queryDeleteOldJobRuns); err != nil {
		return affected, fmt.Errorf("deleting old job runs: %w", err)
	}

	return affected, nil
}

// AcquireSchedulerLock attempts to take the lock for jobName. It reports
// false when another holder owns an unexpired lock.
func (s *PostgresStore) AcquireSchedulerLock(
	ctx context.Context,
	jobName string,
	holder string,
	ttl time.Duration,
) (bool, error) {
	expiresAt := time.Now().Add(ttl)

	var gotName string
	err := s.pool.QueryRow(ctx, queryAcquireSchedulerLock, jobName, holder, expiresAt).Scan(&gotName)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("acquiring scheduler lock: %w", err)
	}

	return true, nil
}

// ReleaseSchedulerLock deletes the lock row for the given job and holder.
func (s *PostgresStore) ReleaseSchedulerLock(
	ctx context.Context,
	jobName string,
	holder string,
) error {
	_, err := s.pool.Exec(ctx, queryReleaseSchedulerLock, jobName, holder)
	if err != nil {
		return fmt.Errorf("releasing scheduler lock: %w", err)
	}
	return nil
}

func scanJobRuns(rows pgx.Rows) ([]domain.JobRun, error) {
	var runs []domain.JobRun
	for rows.Next() {
		var r domain.JobRun
		if err := rows.Scan(
			&r.ID, &r.JobName, &r.StartedAt, &r.CompletedAt,
			&r.Status, &r.ErrorText, &r.RowsAffected,
		); err != nil {
			return nil, fmt.Errorf("scanning job run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
