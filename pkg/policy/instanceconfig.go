package policy

import (
	"strings"

	"sqlfleet/pkg/model"
)

// evalInstanceConfig checks the ad-hoc-workloads and remote-admin-connections
// flags, plus backup compression where the edition offers it at all.
func evalInstanceConfig(snap model.InstanceSnapshot) model.RuleVerdict {
	if snap.Config == nil {
		return model.Review("instance configuration not collected")
	}

	var reasons []string
	if !snap.Config.OptimizeAdhoc {
		reasons = append(reasons, "optimize for ad hoc workloads is disabled")
	}
	if !snap.Config.RemoteAdmin {
		reasons = append(reasons, "remote admin connections are disabled")
	}
	if snap.Config.BackupCompression != nil && !*snap.Config.BackupCompression {
		reasons = append(reasons, "backup compression default is disabled")
	}
	if len(reasons) > 0 {
		return model.Review(strings.Join(reasons, "; "))
	}
	if snap.Config.BackupCompression == nil {
		return model.OK("ad hoc workloads and remote admin enabled; backup compression not offered by this edition")
	}
	return model.OK("ad hoc workloads, remote admin and backup compression enabled")
}
