package policy

import (
	"fmt"
	"strings"

	"sqlfleet/pkg/model"
)

const maxGrowthIncrementMB = 1024

// evalAutogrowth flags files with unlimited max size, percentage growth, or a
// growth increment above 1024 MB, grouped by offending category.
func evalAutogrowth(snap model.InstanceSnapshot) model.RuleVerdict {
	if len(snap.Files) == 0 {
		return model.Review("file growth metadata not collected")
	}

	var unlimited, percent, oversized []string
	for _, f := range snap.Files {
		name := f.Database + "." + f.LogicalName
		if f.Unlimited() {
			unlimited = append(unlimited, name)
		}
		if f.IsPercent {
			percent = append(percent, fmt.Sprintf("%s (%d%%)", name, f.GrowthPct))
		} else if f.GrowthMB > maxGrowthIncrementMB {
			oversized = append(oversized, fmt.Sprintf("%s (%d MB)", name, f.GrowthMB))
		}
	}

	var reasons []string
	if len(unlimited) > 0 {
		reasons = append(reasons, "unlimited growth: "+strings.Join(unlimited, ", "))
	}
	if len(percent) > 0 {
		reasons = append(reasons, "percentage growth: "+strings.Join(percent, ", "))
	}
	if len(oversized) > 0 {
		reasons = append(reasons, fmt.Sprintf("increment above %d MB: %s", maxGrowthIncrementMB, strings.Join(oversized, ", ")))
	}
	if len(reasons) > 0 {
		return model.Review(strings.Join(reasons, "; "))
	}
	return model.OK(fmt.Sprintf("all %d files have bounded, fixed-size growth", len(snap.Files)))
}
