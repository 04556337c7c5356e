// Package report turns raw worker output into the final assessment: dedup by
// instance identity, per-rule tallies, CSV export and the console summary.
package report

import (
	"time"

	"sqlfleet/pkg/model"
	"sqlfleet/pkg/policy"
)

// Dedup keeps the first report seen per instance identity. Input is in
// target order, so the outcome does not depend on worker completion order.
func Dedup(reports []model.InstanceReport) []model.InstanceReport {
	seen := make(map[model.InstanceIdentity]bool, len(reports))
	out := make([]model.InstanceReport, 0, len(reports))
	for _, r := range reports {
		if seen[r.Identity] {
			continue
		}
		seen[r.Identity] = true
		out = append(out, r)
	}
	return out
}

// Tally counts OK and REVIEW verdicts per rule. N/A verdicts are counted in
// neither column.
func Tally(reports []model.InstanceReport) map[string]model.RuleTally {
	tallies := make(map[string]model.RuleTally)
	for _, name := range policy.RuleNames() {
		tallies[name] = model.RuleTally{}
	}
	for _, r := range reports {
		for name, v := range r.Verdicts {
			t := tallies[name]
			switch v.Status {
			case model.StatusOK:
				t.OK++
			case model.StatusReview:
				t.Review++
			}
			tallies[name] = t
		}
	}
	return tallies
}

// NewRun assembles the immutable run result from the orchestrator's output.
func NewRun(reports []model.InstanceReport, targets, failed int, started, finished time.Time) model.AssessmentRun {
	deduped := Dedup(reports)
	return model.AssessmentRun{
		ID:         started.UTC().Format("20060102T150405Z"),
		StartedAt:  started,
		FinishedAt: finished,
		Targets:    targets,
		Failed:     failed,
		Reports:    deduped,
		Tallies:    Tally(deduped),
	}
}
