package policy

import (
	"fmt"
	"strings"

	"sqlfleet/pkg/model"
)

// evalCompatLevel flags databases below the engine's native compatibility
// level for its major version.
func evalCompatLevel(snap model.InstanceSnapshot) model.RuleVerdict {
	if snap.ServerInfo == nil {
		return model.Review("engine version not collected")
	}
	native := NativeCompatLevel(snap.ServerInfo.Major)
	if native == 0 {
		return model.Review(fmt.Sprintf("unknown engine major version %d; cannot determine native compatibility level", snap.ServerInfo.Major))
	}
	if len(snap.Databases) == 0 {
		return model.Review("database inventory not collected")
	}

	var offenders []string
	for _, db := range snap.Databases {
		if db.CompatLevel < native {
			offenders = append(offenders, fmt.Sprintf("%s (%d)", db.Name, db.CompatLevel))
		}
	}
	if len(offenders) > 0 {
		return model.Review(fmt.Sprintf("databases below native level %d: %s", native, strings.Join(offenders, ", ")))
	}
	return model.OK(fmt.Sprintf("all %d databases at native level %d", len(snap.Databases), native))
}
