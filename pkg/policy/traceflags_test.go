package policy

import (
	"testing"

	"sqlfleet/pkg/model"
)

func flagSnap(major int, flags []int) model.InstanceSnapshot {
	return model.InstanceSnapshot{
		ServerInfo:     &model.ServerInfo{Major: major},
		TraceFlags:     flags,
		FlagsCollected: true,
	}
}

func TestEvalTraceFlags(t *testing.T) {
	cases := []struct {
		name  string
		major int
		flags []int
		want  model.Status
	}{
		{"2016Missing7745", major2016, []int{4199}, model.StatusReview},
		{"2016Complete", major2016, []int{4199, 7745}, model.StatusOK},
		{"2016Superset", major2016, []int{1117, 4199, 7745}, model.StatusOK},
		{"UnknownVersion", 99, []int{4199, 7745}, model.StatusReview},
		{"NothingEnabled", major2019, nil, model.StatusReview},
		{"2022Complete", major2022, []int{4199, 7745, 12656, 12618}, model.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := evalTraceFlags(flagSnap(tc.major, tc.flags))
			if v.Status != tc.want {
				t.Errorf("major=%d flags=%v: got %s (%s), want %s", tc.major, tc.flags, v.Status, v.Detail, tc.want)
			}
		})
	}

	uncollected := model.InstanceSnapshot{ServerInfo: &model.ServerInfo{Major: major2019}}
	if v := evalTraceFlags(uncollected); v.Status != model.StatusReview {
		t.Errorf("uncollected flags: got %s, want REVIEW", v.Status)
	}
}
