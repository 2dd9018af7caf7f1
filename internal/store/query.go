package store

import (
	"fmt"
	"strings"
	"time"
)

const (
	defaultLimit = 20
	maxLimit     = 200

	orderByStarted  = "started_at"
	orderByDuration = "duration"
	orderByJob      = "job_name"
)

// validOrderBy maps allowed OrderBy values to their SQL column expressions.
var validOrderBy = map[string]string{
	orderByStarted:  "started_at DESC",
	orderByDuration: "(completed_at - started_at) DESC NULLS LAST",
	orderByJob:      "job_name ASC, started_at DESC",
}

const defaultOrderBy = "started_at DESC"

const baseJobRunsSelect = `SELECT id, job_name, started_at, completed_at, status,
	COALESCE(error_text, ''), rows_affected
FROM job_runs`

const countJobRunsSelect = "SELECT COUNT(*) FROM job_runs"

// JobRunQuery defines optional filters for job run listings.
type JobRunQuery struct {
	JobName *string
	Status  *string
	Since   *time.Time
	Limit   int // default 20
	Offset  int
	OrderBy string // "started_at", "duration", "job_name"
}

// ToSQL builds the data and count queries for q along with their
// positional parameters.
func (q *JobRunQuery) ToSQL() (dataSQL, countSQL string, args []any) {
	var conditions []string
	paramIdx := 1

	if q.JobName != nil {
		conditions = append(conditions, fmt.Sprintf("job_name = $%d", paramIdx))
		args = append(args, *q.JobName)
		paramIdx++
	}

	if q.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", paramIdx))
		args = append(args, *q.Status)
		paramIdx++
	}

	if q.Since != nil {
		conditions = append(conditions, fmt.Sprintf("started_at >= $%d", paramIdx))
		args = append(args, *q.Since)
	}

	var whereClause string
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	orderClause := defaultOrderBy
	if col, ok := validOrderBy[q.OrderBy]; ok {
		orderClause = col
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	limit = min(limit, maxLimit)

	offset := max(q.Offset, 0)

	dataSQL = fmt.Sprintf(
		"%s%s ORDER BY %s LIMIT %d OFFSET %d",
		baseJobRunsSelect, whereClause, orderClause, limit, offset,
	)
	countSQL = countJobRunsSelect + whereClause

	return dataSQL, countSQL, args
}
