package policy

import (
	"fmt"
	"strings"

	"sqlfleet/pkg/model"
)

// tempDBMinFiles is the processor-based minimum tempdb data file count.
func tempDBMinFiles(cpu int) int {
	switch cpu {
	case 4:
		return 2
	case 8:
		return 4
	default:
		return 8
	}
}

// evalTempDB checks the tempdb data file layout: a multiple of four files,
// at or above the processor-based minimum, all equally sized. SQL Server 2022
// and later with exactly one data file is accepted as configured by setup.
func evalTempDB(snap model.InstanceSnapshot) model.RuleVerdict {
	if snap.ServerInfo == nil {
		return model.Review("CPU topology not collected")
	}
	var dataFiles []model.TempFile
	for _, f := range snap.TempFiles {
		if f.IsData {
			dataFiles = append(dataFiles, f)
		}
	}
	if len(dataFiles) == 0 {
		return model.Review("tempdb file metadata not collected")
	}

	if snap.ServerInfo.Major >= major2022 && len(dataFiles) == 1 {
		return model.OK("single tempdb data file accepted on SQL Server 2022+")
	}

	var reasons []string
	if len(dataFiles)%4 != 0 {
		reasons = append(reasons, fmt.Sprintf("%d data files is not a multiple of 4", len(dataFiles)))
	}
	if min := tempDBMinFiles(snap.ServerInfo.Schedulers); len(dataFiles) < min {
		reasons = append(reasons, fmt.Sprintf("%d data files is below the minimum of %d for %d CPUs",
			len(dataFiles), min, snap.ServerInfo.Schedulers))
	}
	for _, f := range dataFiles[1:] {
		if f.SizeMB != dataFiles[0].SizeMB {
			reasons = append(reasons, "data files are not equally sized")
			break
		}
	}
	if len(reasons) > 0 {
		return model.Review(strings.Join(reasons, "; "))
	}
	return model.OK(fmt.Sprintf("%d equally sized tempdb data files", len(dataFiles)))
}
