package store

import "sqlfleet/pkg/model"

// RunStore caches finished assessment runs for the daemon. Each run is an
// independent snapshot; nothing is computed across runs.
type RunStore interface {
	SaveRun(model.AssessmentRun) error
	LatestRun() (model.AssessmentRun, bool, error)
	GetRun(id string) (model.AssessmentRun, bool, error)
	ListRuns(limit int) ([]model.AssessmentRun, error)
	Close() error
}
