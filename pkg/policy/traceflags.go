package policy

import (
	"fmt"
	"strings"

	"sqlfleet/pkg/model"
)

// evalTraceFlags requires the version's mandated trace flag set to be a
// subset of the enabled flags. Versions without a defined set, and instances
// with nothing enabled at all, classify as REVIEW.
func evalTraceFlags(snap model.InstanceSnapshot) model.RuleVerdict {
	if snap.ServerInfo == nil {
		return model.Review("engine version not collected")
	}
	required, ok := requiredTraceFlags[snap.ServerInfo.Major]
	if !ok {
		return model.Review(fmt.Sprintf("no trace flag policy defined for engine major version %d", snap.ServerInfo.Major))
	}
	if !snap.FlagsCollected {
		return model.Review("enabled trace flags not collected")
	}
	if len(snap.TraceFlags) == 0 {
		return model.Review("no trace flags enabled; required: " + joinFlags(required))
	}

	enabled := make(map[int]bool, len(snap.TraceFlags))
	for _, f := range snap.TraceFlags {
		enabled[f] = true
	}
	var missing []int
	for _, f := range required {
		if !enabled[f] {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return model.Review("missing required trace flags: " + joinFlags(missing))
	}
	return model.OK("required trace flags enabled: " + joinFlags(required))
}

func joinFlags(flags []int) string {
	parts := make([]string, 0, len(flags))
	for _, f := range flags {
		parts = append(parts, fmt.Sprintf("%d", f))
	}
	return strings.Join(parts, ", ")
}
