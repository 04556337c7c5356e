package policy

// Engine major version ordinals as reported by SERVERPROPERTY('ProductMajorVersion').
const (
	major2012 = 11
	major2014 = 12
	major2016 = 13
	major2017 = 14
	major2019 = 15
	major2022 = 16
)

var versionLabels = map[int]string{
	major2012: "SQL Server 2012",
	major2014: "SQL Server 2014",
	major2016: "SQL Server 2016",
	major2017: "SQL Server 2017",
	major2019: "SQL Server 2019",
	major2022: "SQL Server 2022",
}

// VersionLabel maps an engine major version to its marketing name, or
// "Unknown" for versions outside the supported table.
func VersionLabel(major int) string {
	if label, ok := versionLabels[major]; ok {
		return label
	}
	return "Unknown"
}

// NativeCompatLevel returns the engine's default compatibility level for its
// major version, or 0 when the version is not in the supported table.
func NativeCompatLevel(major int) int {
	if _, ok := versionLabels[major]; ok {
		return major * 10
	}
	return 0
}

// requiredTraceFlags is the per-version required trace flag policy. Versions
// absent from the table have no defined policy and always classify as REVIEW.
var requiredTraceFlags = map[int][]int{
	major2012: {1118, 4199},
	major2014: {1118, 4199},
	major2016: {4199, 7745},
	major2017: {4199, 7745, 12310},
	major2019: {4199, 7745, 12310},
	major2022: {4199, 7745, 12656, 12618},
}
