package policy

import (
	"fmt"

	"sqlfleet/pkg/model"
)

// RecommendedMaxDOP computes the NUMA/CPU-aware MaxDOP recommendation.
// cpu is the count of online schedulers, numa the count of distinct NUMA
// nodes among them, major the engine major version ordinal. Combinations the
// table does not cover return 0, which can never match a configured value.
func RecommendedMaxDOP(cpu, numa, major int) int {
	if cpu < 1 || numa < 1 {
		return 0
	}
	if numa == 1 {
		if cpu < 8 {
			return cpu
		}
		return 8
	}
	perNode := (cpu + numa - 1) / numa
	if major >= major2016 {
		if perNode <= 15 {
			return perNode
		}
		half := (perNode + 1) / 2
		if half > 16 {
			return 16
		}
		return half
	}
	if perNode < 8 {
		return perNode
	}
	return 8
}

// evalMaxDOP compares the configured MaxDOP with the recommendation.
func evalMaxDOP(snap model.InstanceSnapshot) model.RuleVerdict {
	if snap.Config == nil {
		return model.Review("instance configuration not collected")
	}
	if snap.ServerInfo == nil {
		return model.Review("scheduler/NUMA topology not collected")
	}

	configured := snap.Config.MaxDOP
	recommended := RecommendedMaxDOP(snap.ServerInfo.Schedulers, snap.ServerInfo.NUMANodes, snap.ServerInfo.Major)
	if configured != 0 && configured == recommended {
		return model.OK(fmt.Sprintf("MaxDOP %d matches recommendation (%d schedulers, %d NUMA nodes)",
			configured, snap.ServerInfo.Schedulers, snap.ServerInfo.NUMANodes))
	}
	return model.Review(fmt.Sprintf("MaxDOP configured %d, recommended %d (%d schedulers, %d NUMA nodes)",
		configured, recommended, snap.ServerInfo.Schedulers, snap.ServerInfo.NUMANodes))
}
