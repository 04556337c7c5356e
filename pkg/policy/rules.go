// Package policy classifies raw instance snapshots against a fixed catalogue
// of operational best-practice rules. Every rule is a pure function: it never
// performs I/O, never fails, and maps missing input to a REVIEW verdict.
package policy

import "sqlfleet/pkg/model"

// Rule names double as report column headers; order is fixed by Catalog.
const (
	RuleMemory         = "Memory"
	RuleInstanceConfig = "InstanceConfig"
	RuleMaxDOP         = "MaxDOP"
	RuleDBOptions      = "DatabaseOptions"
	RuleCompatLevel    = "Compatibility"
	RuleVLF            = "VLF"
	RuleAutogrowth     = "Autogrowth"
	RuleCheckDB        = "CheckDB"
	RuleFullBackup     = "FullBackup"
	RuleLogBackup      = "LogBackup"
	RuleTraceFlags     = "TraceFlags"
	RuleTempDB         = "TempDB"
)

// Rule is one classifier in the catalogue.
type Rule struct {
	Name     string
	Evaluate func(model.InstanceSnapshot) model.RuleVerdict
}

// Catalog returns the full rule catalogue in report column order.
func Catalog() []Rule {
	return []Rule{
		{RuleMemory, evalMemory},
		{RuleInstanceConfig, evalInstanceConfig},
		{RuleMaxDOP, evalMaxDOP},
		{RuleDBOptions, evalDatabaseOptions},
		{RuleCompatLevel, evalCompatLevel},
		{RuleVLF, evalVLF},
		{RuleAutogrowth, evalAutogrowth},
		{RuleCheckDB, evalCheckDB},
		{RuleFullBackup, evalFullBackup},
		{RuleLogBackup, evalLogBackup},
		{RuleTraceFlags, evalTraceFlags},
		{RuleTempDB, evalTempDB},
	}
}

// RuleNames returns the catalogue's rule names in column order.
func RuleNames() []string {
	rules := Catalog()
	names := make([]string, 0, len(rules))
	for _, r := range rules {
		names = append(names, r.Name)
	}
	return names
}

// EvaluateAll runs the whole catalogue against one snapshot.
func EvaluateAll(snap model.InstanceSnapshot) map[string]model.RuleVerdict {
	verdicts := make(map[string]model.RuleVerdict)
	for _, r := range Catalog() {
		verdicts[r.Name] = r.Evaluate(snap)
	}
	return verdicts
}
