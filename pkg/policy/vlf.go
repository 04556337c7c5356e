package policy

import (
	"fmt"
	"sort"
	"strings"

	"sqlfleet/pkg/model"
)

const vlfThreshold = 1000

// evalVLF flags databases with excessive virtual log file counts, listed
// descending by count.
func evalVLF(snap model.InstanceSnapshot) model.RuleVerdict {
	if len(snap.Databases) == 0 {
		return model.Review("VLF counts not collected")
	}

	var offenders []model.DatabaseInfo
	for _, db := range snap.Databases {
		if db.VLFCount > vlfThreshold {
			offenders = append(offenders, db)
		}
	}
	if len(offenders) == 0 {
		return model.OK(fmt.Sprintf("no database exceeds %d VLFs", vlfThreshold))
	}
	sort.Slice(offenders, func(i, j int) bool { return offenders[i].VLFCount > offenders[j].VLFCount })
	parts := make([]string, 0, len(offenders))
	for _, db := range offenders {
		parts = append(parts, fmt.Sprintf("%s (%d)", db.Name, db.VLFCount))
	}
	return model.Review(fmt.Sprintf("databases above %d VLFs: %s", vlfThreshold, strings.Join(parts, ", ")))
}
