package report

import (
	"fmt"
	"io"

	"sqlfleet/pkg/model"
	"sqlfleet/pkg/policy"
)

// PrintSummary writes the per-rule OK/REVIEW tally and run totals.
func PrintSummary(w io.Writer, run model.AssessmentRun) {
	fmt.Fprintf(w, "assessment %s: %d instances from %d targets (%d failed)\n",
		run.ID, len(run.Reports), run.Targets, run.Failed)
	fmt.Fprintf(w, "%-16s %6s %8s\n", "RULE", "OK", "REVIEW")
	for _, name := range policy.RuleNames() {
		t := run.Tallies[name]
		fmt.Fprintf(w, "%-16s %6d %8d\n", name, t.OK, t.Review)
	}
}
