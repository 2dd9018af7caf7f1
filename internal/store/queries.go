package store

// Catalog queries.
const (
	queryUpsertCatalogRecord = `
		INSERT INTO catalog_records (id, payload, position, fetched_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			payload    = EXCLUDED.payload,
			position   = EXCLUDED.position,
			fetched_at = EXCLUDED.fetched_at`

	queryDeleteCatalogExcept = `
		DELETE FROM catalog_records WHERE NOT (id = ANY($1))`

	queryListCatalog = `
		SELECT id, payload, fetched_at
		FROM catalog_records
		ORDER BY position, id`

	queryGetCatalogRecord = `
		SELECT id, payload, fetched_at
		FROM catalog_records
		WHERE id = $1`

	queryCountCatalog = `SELECT COUNT(*) FROM catalog_records`

)

// Search quota queries.
const (
	queryGetSearchCount = `
		SELECT count FROM search_quota WHERE client_id = $1`

	queryIncrementSearchCount = `
		INSERT INTO search_quota (client_id, count)
		VALUES ($1, 1)
		ON CONFLICT (client_id) DO UPDATE SET
			count      = search_quota.count + 1,
			updated_at = now()
		RETURNING count`

	queryResetSearchCount = `
		DELETE FROM search_quota WHERE client_id = $1`
)

// Scheduler queries.
const (
	queryInsertJobRun = `
		INSERT INTO job_runs (job_name)
		VALUES ($1)
		RETURNING id`

	queryCompleteJobRun = `
		UPDATE job_runs SET
			completed_at  = now(),
			status        = $2,
			error_text    = $3,
			rows_affected = $4
		WHERE id = $1`

	queryListLatestJobRuns = `
		SELECT DISTINCT ON (job_name)
			id, job_name, started_at, completed_at, status,
			COALESCE(error_text, ''), rows_affected
		FROM job_runs
		ORDER BY job_name, started_at DESC`

	queryMarkStaleJobRunsCrashed = `
		UPDATE job_runs SET
			status       = 'crashed',
			completed_at = now()
		WHERE status = 'running' AND started_at < $1`

	queryDeleteOldJobRuns = `
		DELETE FROM job_runs WHERE started_at < now() - interval '30 days'`

	queryAcquireSchedulerLock = `
		INSERT INTO scheduler_locks (job_name, lock_holder, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (job_name) DO UPDATE
			SET locked_at   = now(),
				lock_holder = EXCLUDED.lock_holder,
				expires_at  = EXCLUDED.expires_at
			WHERE scheduler_locks.expires_at < now()
		RETURNING job_name`

	queryReleaseSchedulerLock = `
		DELETE FROM scheduler_locks WHERE job_name = $1 AND lock_holder = $2`
)
