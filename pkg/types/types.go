// Package domain defines the core business types for the device comparison
// storefront.
package domain

import "time"

// Job status constants recorded in job_runs.
const (
	JobStatusRunning   = "running"
	JobStatusSucceeded = "succeeded"
	JobStatusFailed    = "failed"
	JobStatusCrashed   = "crashed"
)

// JobRun records a single execution of a scheduled or triggered job.
type JobRun struct {
	ID           string     `json:"id"                      db:"id"`
	JobName      string     `json:"job_name"                db:"job_name"`
	StartedAt    time.Time  `json:"started_at"              db:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"  db:"completed_at"`
	Status       string     `json:"status"                  db:"status"`
	ErrorText    string     `json:"error_text,omitempty"    db:"error_text"`
	RowsAffected *int       `json:"rows_affected,omitempty" db:"rows_affected"`
}

// AffiliateStatus reports which retailer links a catalog entry carries.
// The admin view uses it to find products that still need links.
type AffiliateStatus struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Brand    string `json:"brand"`
	Amazon   string `json:"amazon"`
	Flipkart string `json:"flipkart"`
}

// Complete reports whether both primary retailer links look usable.
func (a *AffiliateStatus) Complete() bool {
	return validAffiliateURL(a.Amazon) && validAffiliateURL(a.Flipkart)
}

// validAffiliateURL mirrors the admin tool's heuristic: anything shorter
// than six characters is a placeholder, not a link.
func validAffiliateURL(u string) bool {
	return len(u) > 5
}
