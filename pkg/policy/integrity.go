package policy

import (
	"fmt"
	"strings"
	"time"

	"sqlfleet/pkg/model"
)

const checkDBWindow = 7 * 24 * time.Hour

// evalCheckDB flags databases whose last known good integrity check is older
// than seven days or missing. Recency is measured against the snapshot's
// collection time so re-evaluating the same snapshot stays deterministic.
func evalCheckDB(snap model.InstanceSnapshot) model.RuleVerdict {
	if len(snap.Integrity) == 0 {
		return model.Review("integrity check history not collected")
	}

	cutoff := snap.CollectedAt.Add(-checkDBWindow)
	var offenders []string
	for _, c := range snap.Integrity {
		switch {
		case c.LastGood.IsZero():
			offenders = append(offenders, c.Database+" (never)")
		case c.LastGood.Before(cutoff):
			offenders = append(offenders, fmt.Sprintf("%s (%s)", c.Database, c.LastGood.Format("2006-01-02")))
		}
	}
	if len(offenders) > 0 {
		return model.Review("databases without a recent CHECKDB: " + strings.Join(offenders, ", "))
	}
	return model.OK(fmt.Sprintf("all %d databases checked within 7 days", len(snap.Integrity)))
}
