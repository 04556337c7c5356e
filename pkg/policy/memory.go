package policy

import (
	"fmt"
	"strings"

	"sqlfleet/pkg/model"
)

const expectedMinMemoryMB = 1024

// evalMemory checks min/max server memory against total physical memory:
// min pinned at 1024 MB, max at least 75% of physical but below it.
func evalMemory(snap model.InstanceSnapshot) model.RuleVerdict {
	if snap.Config == nil {
		return model.Review("server memory configuration not collected")
	}
	if snap.ServerInfo == nil || snap.ServerInfo.TotalMemoryMB <= 0 {
		return model.Review("total physical memory unknown; cannot validate max server memory")
	}

	total := snap.ServerInfo.TotalMemoryMB
	min := snap.Config.MinServerMemoryMB
	max := snap.Config.MaxServerMemoryMB
	floor := (3*total + 3) / 4 // ceil(0.75 * total)

	var reasons []string
	if max == model.MaxMemorySentinel {
		reasons = append(reasons, "max server memory left at unlimited default")
	} else {
		if max >= total {
			reasons = append(reasons, fmt.Sprintf("max server memory %d MB is not below physical %d MB", max, total))
		}
		if max < floor {
			reasons = append(reasons, fmt.Sprintf("max server memory %d MB is below 75%% of physical (%d MB)", max, floor))
		}
	}
	if min != expectedMinMemoryMB {
		reasons = append(reasons, fmt.Sprintf("min server memory is %d MB, expected %d", min, expectedMinMemoryMB))
	}
	if len(reasons) > 0 {
		return model.Review(strings.Join(reasons, "; "))
	}
	return model.OK(fmt.Sprintf("min=%d MB, max=%d MB of %d MB physical", min, max, total))
}
