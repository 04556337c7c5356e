package store

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"sqlfleet/pkg/model"
)

func runWithID(id string, started time.Time) model.AssessmentRun {
	return model.AssessmentRun{
		ID:        id,
		StartedAt: started,
		Targets:   2,
		Reports: []model.InstanceReport{
			{Identity: model.InstanceIdentity{Server: "db01", Instance: model.DefaultInstance}},
		},
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()

	if _, ok, err := s.LatestRun(); err != nil || ok {
		t.Fatalf("empty store: ok=%v err=%v, want no run", ok, err)
	}

	started := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	if err := s.SaveRun(runWithID("first", started)); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}
	if err := s.SaveRun(runWithID("second", started.Add(time.Hour))); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	latest, ok, err := s.LatestRun()
	if err != nil || !ok || latest.ID != "second" {
		t.Errorf("latest = %q ok=%v err=%v, want second", latest.ID, ok, err)
	}
	got, ok, err := s.GetRun("first")
	if err != nil || !ok || got.ID != "first" {
		t.Errorf("GetRun(first) = %q ok=%v err=%v", got.ID, ok, err)
	}
	if _, ok, _ := s.GetRun("missing"); ok {
		t.Error("GetRun(missing) reported a run")
	}

	runs, err := s.ListRuns(1)
	if err != nil || len(runs) != 1 || runs[0].ID != "second" {
		t.Errorf("ListRuns(1) = %v err=%v, want just second", runs, err)
	}
}

func TestMemoryStoreRetention(t *testing.T) {
	s := NewMemoryStore()
	started := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	for i := 0; i < memoryRetention+5; i++ {
		if err := s.SaveRun(runWithID(fmt.Sprintf("run-%02d", i), started.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("SaveRun %d failed: %v", i, err)
		}
	}
	runs, err := s.ListRuns(0)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != memoryRetention {
		t.Fatalf("retained %d runs, want %d", len(runs), memoryRetention)
	}
	// newest first, oldest dropped
	if runs[0].ID != fmt.Sprintf("run-%02d", memoryRetention+4) {
		t.Errorf("newest run = %q", runs[0].ID)
	}
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	defer s.Close()

	started := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	if err := s.SaveRun(runWithID("a", started)); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}
	if err := s.SaveRun(runWithID("b", started.Add(time.Hour))); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	latest, ok, err := s.LatestRun()
	if err != nil || !ok || latest.ID != "b" {
		t.Fatalf("latest = %q ok=%v err=%v, want b", latest.ID, ok, err)
	}
	got, ok, err := s.GetRun("a")
	if err != nil || !ok {
		t.Fatalf("GetRun(a) ok=%v err=%v", ok, err)
	}
	if len(got.Reports) != 1 || got.Reports[0].Identity.Server != "db01" {
		t.Errorf("payload did not survive the round trip: %+v", got.Reports)
	}

	runs, err := s.ListRuns(10)
	if err != nil || len(runs) != 2 || runs[0].ID != "b" {
		t.Errorf("ListRuns = %d runs err=%v, want b first of 2", len(runs), err)
	}
}
