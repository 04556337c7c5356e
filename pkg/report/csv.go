package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"sqlfleet/pkg/model"
	"sqlfleet/pkg/policy"
)

// WriteCSV serializes the deduplicated report table: identity columns, one
// status column per rule in catalogue order, then the descriptive columns
// and a notes column with the detail of every non-OK verdict.
func WriteCSV(w io.Writer, run model.AssessmentRun) error {
	cw := csv.NewWriter(w)
	ruleNames := policy.RuleNames()

	header := append([]string{"Server", "Instance"}, ruleNames...)
	header = append(header, "Version", "Build", "Edition", "MemoryMB", "CPUs", "Notes")
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, r := range run.Reports {
		row := []string{r.Identity.Server, r.Identity.Instance}
		var notes []string
		for _, name := range ruleNames {
			v := r.Verdicts[name]
			row = append(row, string(v.Status))
			if v.Status != model.StatusOK && v.Detail != "" {
				notes = append(notes, name+": "+v.Detail)
			}
		}
		row = append(row,
			r.VersionLabel, r.Build, r.Edition,
			fmt.Sprintf("%d", r.MemoryMB), fmt.Sprintf("%d", r.CPUs),
			strings.Join(notes, " | "))
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the report table to path.
func WriteCSVFile(path string, run model.AssessmentRun) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()
	if err := WriteCSV(f, run); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
