package policy

import (
	"testing"
	"time"

	"sqlfleet/pkg/model"
)

var collected = time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

func TestEvalFullBackup(t *testing.T) {
	snap := model.InstanceSnapshot{
		CollectedAt: collected,
		Backups: []model.BackupState{
			{Database: "orders", RecoveryModel: "FULL", LastFull: collected.Add(-24 * time.Hour)},
			{Database: "stage", RecoveryModel: "SIMPLE", LastFull: collected.Add(-48 * time.Hour)},
		},
	}
	if v := evalFullBackup(snap); v.Status != model.StatusOK {
		t.Fatalf("recent full backups: got %s (%s), want OK", v.Status, v.Detail)
	}

	snap.Backups[0].LastFull = collected.Add(-8 * 24 * time.Hour)
	if v := evalFullBackup(snap); v.Status != model.StatusReview {
		t.Fatalf("stale full backup: got %s, want REVIEW", v.Status)
	}

	snap.Backups[0].LastFull = time.Time{}
	v := evalFullBackup(snap)
	if v.Status != model.StatusReview {
		t.Fatalf("missing full backup: got %s, want REVIEW", v.Status)
	}
}

func TestEvalLogBackup(t *testing.T) {
	t.Run("AllSimpleNotApplicable", func(t *testing.T) {
		snap := model.InstanceSnapshot{
			CollectedAt: collected,
			Backups: []model.BackupState{
				{Database: "stage", RecoveryModel: "SIMPLE"},
				{Database: "scratch", RecoveryModel: "SIMPLE"},
			},
		}
		if v := evalLogBackup(snap); v.Status != model.StatusNA {
			t.Fatalf("all SIMPLE: got %s (%s), want N/A", v.Status, v.Detail)
		}
	})

	t.Run("FullModelNeedsRecentLog", func(t *testing.T) {
		snap := model.InstanceSnapshot{
			CollectedAt: collected,
			Backups: []model.BackupState{
				{Database: "orders", RecoveryModel: "FULL", LastLog: collected.Add(-2 * time.Hour)},
				{Database: "stage", RecoveryModel: "SIMPLE"},
			},
		}
		if v := evalLogBackup(snap); v.Status != model.StatusOK {
			t.Fatalf("recent log backup: got %s (%s), want OK", v.Status, v.Detail)
		}

		snap.Backups[0].LastLog = collected.Add(-30 * time.Hour)
		if v := evalLogBackup(snap); v.Status != model.StatusReview {
			t.Fatalf("stale log backup: got %s, want REVIEW", v.Status)
		}
	})

	t.Run("BulkLoggedCounts", func(t *testing.T) {
		snap := model.InstanceSnapshot{
			CollectedAt: collected,
			Backups: []model.BackupState{
				{Database: "etl", RecoveryModel: "BULK_LOGGED"},
			},
		}
		if v := evalLogBackup(snap); v.Status != model.StatusReview {
			t.Fatalf("BULK_LOGGED with no log backup: got %s, want REVIEW", v.Status)
		}
	})
}
