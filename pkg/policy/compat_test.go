package policy

import (
	"strings"
	"testing"

	"sqlfleet/pkg/model"
)

func compatSnap(major int, levels map[string]int) model.InstanceSnapshot {
	snap := model.InstanceSnapshot{ServerInfo: &model.ServerInfo{Major: major}}
	for name, level := range levels {
		snap.Databases = append(snap.Databases, model.DatabaseInfo{Name: name, CompatLevel: level})
	}
	return snap
}

func TestEvalCompatLevel(t *testing.T) {
	if v := evalCompatLevel(compatSnap(major2019, map[string]int{"orders": 150, "stage": 150})); v.Status != model.StatusOK {
		t.Fatalf("all at native level: got %s (%s), want OK", v.Status, v.Detail)
	}

	v := evalCompatLevel(compatSnap(major2019, map[string]int{"orders": 150, "legacy": 100}))
	if v.Status != model.StatusReview {
		t.Fatalf("database below native level: got %s, want REVIEW", v.Status)
	}
	if !strings.Contains(v.Detail, "legacy (100)") {
		t.Errorf("detail %q does not name the offender with its level", v.Detail)
	}
	if strings.Contains(v.Detail, "orders") {
		t.Errorf("detail lists a compliant database: %q", v.Detail)
	}

	if v := evalCompatLevel(compatSnap(99, map[string]int{"orders": 150})); v.Status != model.StatusReview {
		t.Errorf("unknown engine version: got %s, want REVIEW", v.Status)
	}
	if v := evalCompatLevel(model.InstanceSnapshot{ServerInfo: &model.ServerInfo{Major: major2019}}); v.Status != model.StatusReview {
		t.Errorf("missing database inventory: got %s, want REVIEW", v.Status)
	}
	if v := evalCompatLevel(model.InstanceSnapshot{}); v.Status != model.StatusReview {
		t.Errorf("missing engine version: got %s, want REVIEW", v.Status)
	}
}
