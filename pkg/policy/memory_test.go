package policy

import (
	"testing"

	"sqlfleet/pkg/model"
)

func memorySnap(min, max, total int64) model.InstanceSnapshot {
	return model.InstanceSnapshot{
		ServerInfo: &model.ServerInfo{TotalMemoryMB: total},
		Config:     &model.InstanceConfig{MinServerMemoryMB: min, MaxServerMemoryMB: max},
	}
}

func TestEvalMemory(t *testing.T) {
	cases := []struct {
		name            string
		min, max, total int64
		want            model.Status
	}{
		{"WellTuned", 1024, 24576, 32768, model.StatusOK},
		{"UnlimitedDefault", 1024, model.MaxMemorySentinel, 32768, model.StatusReview},
		{"WrongMin", 2048, 24576, 32768, model.StatusReview},
		{"MaxAtPhysical", 1024, 32768, 32768, model.StatusReview},
		{"MaxBelowFloor", 1024, 16384, 32768, model.StatusReview},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := evalMemory(memorySnap(tc.min, tc.max, tc.total))
			if v.Status != tc.want {
				t.Errorf("min=%d max=%d total=%d: got %s (%s), want %s", tc.min, tc.max, tc.total, v.Status, v.Detail, tc.want)
			}
		})
	}

	if v := evalMemory(model.InstanceSnapshot{}); v.Status != model.StatusReview {
		t.Errorf("empty snapshot: got %s, want REVIEW", v.Status)
	}
}
