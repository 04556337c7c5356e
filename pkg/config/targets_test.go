package config

import (
	"strings"
	"testing"
)

func TestParseTargets(t *testing.T) {
	input := `
# production fleet
db01
db02\SALES,REPORTING
db03 corp.example.com

db01
`
	targets, err := ParseTargets(strings.NewReader(input), "default.local")
	if err != nil {
		t.Fatalf("ParseTargets failed: %v", err)
	}
	if len(targets) != 4 {
		t.Fatalf("targets = %d, want 4 (duplicates kept)", len(targets))
	}

	if targets[0].Host != "db01" || targets[0].Domain != "default.local" {
		t.Errorf("plain host: %+v", targets[0])
	}
	if targets[1].Host != "db02" || len(targets[1].Instances) != 2 || targets[1].Instances[1] != "REPORTING" {
		t.Errorf("instance list: %+v", targets[1])
	}
	if targets[2].Domain != "corp.example.com" {
		t.Errorf("explicit domain: %+v", targets[2])
	}
	if got := targets[2].FQDN(); got != "db03.corp.example.com" {
		t.Errorf("FQDN = %q", got)
	}
}

func TestParseTargetsRejectsBadLines(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"TooManyFields", "db01 corp.local extra"},
		{"EmptyHost", `\SALES`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseTargets(strings.NewReader(tc.input), ""); err == nil {
				t.Errorf("expected an error for %q", tc.input)
			}
		})
	}
}
