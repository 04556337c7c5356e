package policy

import (
	"fmt"
	"strings"

	"sqlfleet/pkg/model"
)

// evalDatabaseOptions requires auto-create-stats, auto-update-stats and
// CHECKSUM page verification on every database.
func evalDatabaseOptions(snap model.InstanceSnapshot) model.RuleVerdict {
	if len(snap.Databases) == 0 {
		return model.Review("database options not collected")
	}

	var offenders []string
	for _, db := range snap.Databases {
		var reasons []string
		if !db.AutoCreateStats {
			reasons = append(reasons, "auto create stats off")
		}
		if !db.AutoUpdateStats {
			reasons = append(reasons, "auto update stats off")
		}
		if !strings.EqualFold(db.PageVerify, "CHECKSUM") {
			reasons = append(reasons, "page verify "+db.PageVerify)
		}
		if len(reasons) > 0 {
			offenders = append(offenders, fmt.Sprintf("%s (%s)", db.Name, strings.Join(reasons, ", ")))
		}
	}
	if len(offenders) > 0 {
		return model.Review("databases needing attention: " + strings.Join(offenders, "; "))
	}
	return model.OK(fmt.Sprintf("all %d databases have stats options on and CHECKSUM page verify", len(snap.Databases)))
}
