package model

import "time"

// InstanceReport is one assessed instance: identity, descriptive fields, and
// the verdict per rule keyed by rule name (order fixed by the rule catalogue).
type InstanceReport struct {
	Identity     InstanceIdentity       `json:"identity"`
	VersionLabel string                 `json:"versionLabel"` // e.g. "SQL Server 2019"
	Build        string                 `json:"build"`
	Edition      string                 `json:"edition"`
	MemoryMB     int64                  `json:"memoryMb"`
	CPUs         int                    `json:"cpus"`
	Verdicts     map[string]RuleVerdict `json:"verdicts"`
	CollectedAt  time.Time              `json:"collectedAt"`
}

// RuleTally counts classification outcomes for one rule across a run.
// N/A verdicts are counted in neither column.
type RuleTally struct {
	OK     int `json:"ok"`
	Review int `json:"review"`
}

// AssessmentRun is the final deduplicated result set of a single scan.
// Created once at the end of a run, immutable afterwards.
type AssessmentRun struct {
	ID         string               `json:"id"`
	StartedAt  time.Time            `json:"startedAt"`
	FinishedAt time.Time            `json:"finishedAt"`
	Targets    int                  `json:"targets"`
	Failed     int                  `json:"failedTargets"`
	Reports    []InstanceReport     `json:"reports"`
	Tallies    map[string]RuleTally `json:"tallies"`
}
