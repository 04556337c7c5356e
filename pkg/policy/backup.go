package policy

import (
	"fmt"
	"strings"
	"time"

	"sqlfleet/pkg/model"
)

const (
	fullBackupWindow = 7 * 24 * time.Hour
	logBackupWindow  = 24 * time.Hour
)

// evalFullBackup requires a full backup within seven days for every database.
func evalFullBackup(snap model.InstanceSnapshot) model.RuleVerdict {
	if len(snap.Backups) == 0 {
		return model.Review("backup history not collected")
	}

	cutoff := snap.CollectedAt.Add(-fullBackupWindow)
	var offenders []string
	for _, b := range snap.Backups {
		switch {
		case b.LastFull.IsZero():
			offenders = append(offenders, b.Database+" (never)")
		case b.LastFull.Before(cutoff):
			offenders = append(offenders, fmt.Sprintf("%s (%s)", b.Database, b.LastFull.Format("2006-01-02")))
		}
	}
	if len(offenders) > 0 {
		return model.Review("databases without a recent full backup: " + strings.Join(offenders, ", "))
	}
	return model.OK(fmt.Sprintf("all %d databases fully backed up within 7 days", len(snap.Backups)))
}

// evalLogBackup requires a log backup within 24 hours for every database not
// running SIMPLE recovery. When every database is SIMPLE the rule does not
// apply and is excluded from tallies.
func evalLogBackup(snap model.InstanceSnapshot) model.RuleVerdict {
	if len(snap.Backups) == 0 {
		return model.Review("backup history not collected")
	}

	cutoff := snap.CollectedAt.Add(-logBackupWindow)
	logged := 0
	var offenders []string
	for _, b := range snap.Backups {
		if strings.EqualFold(b.RecoveryModel, "SIMPLE") {
			continue
		}
		logged++
		switch {
		case b.LastLog.IsZero():
			offenders = append(offenders, b.Database+" (never)")
		case b.LastLog.Before(cutoff):
			offenders = append(offenders, fmt.Sprintf("%s (%s)", b.Database, b.LastLog.Format("2006-01-02 15:04")))
		}
	}
	if logged == 0 {
		return model.NA("all databases use SIMPLE recovery")
	}
	if len(offenders) > 0 {
		return model.Review("databases without a recent log backup: " + strings.Join(offenders, ", "))
	}
	return model.OK(fmt.Sprintf("all %d FULL/BULK_LOGGED databases log-backed up within 24 hours", logged))
}
