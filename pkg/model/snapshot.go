package model

import "time"

// MaxMemorySentinel is the max-server-memory value SQL Server reports when the
// setting was never lowered from its install default (effectively unlimited).
const MaxMemorySentinel = 2147483647

// ServerInfo is the version/hardware snapshot for one instance.
type ServerInfo struct {
	ServerName    string `json:"serverName"`
	VersionBuild  string `json:"versionBuild"` // e.g. "15.0.4123.1"
	Major         int    `json:"major"`        // engine major version ordinal
	Edition       string `json:"edition"`
	TotalMemoryMB int64  `json:"totalMemoryMb"`
	Schedulers    int    `json:"schedulers"` // online schedulers
	NUMANodes     int    `json:"numaNodes"`  // distinct NUMA nodes among them
}

// InstanceConfig mirrors the sys.configurations values the rules consume.
type InstanceConfig struct {
	MinServerMemoryMB int64 `json:"minServerMemoryMb"`
	MaxServerMemoryMB int64 `json:"maxServerMemoryMb"`
	OptimizeAdhoc     bool  `json:"optimizeAdhoc"`
	RemoteAdmin       bool  `json:"remoteAdmin"`
	// BackupCompression is nil on editions where the option does not exist.
	BackupCompression *bool `json:"backupCompression,omitempty"`
	MaxDOP            int   `json:"maxDop"`
}

// DatabaseInfo carries the per-database options and counters the rules read.
type DatabaseInfo struct {
	Name            string `json:"name"`
	AutoCreateStats bool   `json:"autoCreateStats"`
	AutoUpdateStats bool   `json:"autoUpdateStats"`
	PageVerify      string `json:"pageVerify"` // CHECKSUM expected
	CompatLevel     int    `json:"compatLevel"`
	RecoveryModel   string `json:"recoveryModel"` // SIMPLE / FULL / BULK_LOGGED
	VLFCount        int    `json:"vlfCount"`
}

// FileGrowth describes one database file's size cap and growth setting.
type FileGrowth struct {
	Database    string `json:"database"`
	LogicalName string `json:"logicalName"`
	MaxSizeMB   int64  `json:"maxSizeMb"` // -1: unlimited
	IsPercent   bool   `json:"isPercent"`
	GrowthMB    int64  `json:"growthMb"`  // valid when !IsPercent
	GrowthPct   int    `json:"growthPct"` // valid when IsPercent
}

// Unlimited reports whether the file has no max size cap.
func (f FileGrowth) Unlimited() bool { return f.MaxSizeMB < 0 }

// IntegrityCheck is the last known good DBCC CHECKDB per database. A zero
// LastGood means no successful check was ever recorded.
type IntegrityCheck struct {
	Database string    `json:"database"`
	LastGood time.Time `json:"lastGood"`
}

// BackupState is the backup history summary per database. Zero timestamps
// mean no backup of that kind was ever recorded.
type BackupState struct {
	Database      string    `json:"database"`
	RecoveryModel string    `json:"recoveryModel"`
	LastFull      time.Time `json:"lastFull"`
	LastLog       time.Time `json:"lastLog"`
}

// TempFile is one tempdb file.
type TempFile struct {
	LogicalName string `json:"logicalName"`
	IsData      bool   `json:"isData"` // data file vs. log file
	SizeMB      int64  `json:"sizeMb"`
}

// InstanceSnapshot is the raw per-instance collection result, owned by the
// worker that fetched it. A nil category means that category's collection
// failed; rules treat it as a classifiable degraded state, never an error.
type InstanceSnapshot struct {
	Identity   InstanceIdentity `json:"identity"`
	ServerInfo *ServerInfo      `json:"serverInfo,omitempty"`
	Config     *InstanceConfig  `json:"config,omitempty"`
	Databases  []DatabaseInfo   `json:"databases,omitempty"`
	Files      []FileGrowth     `json:"files,omitempty"`
	// TraceFlags distinguishes "none enabled" from "not collected" via
	// FlagsCollected, since both encode to an empty list.
	TraceFlags     []int            `json:"traceFlags,omitempty"`
	FlagsCollected bool             `json:"flagsCollected"`
	Integrity      []IntegrityCheck `json:"integrity,omitempty"`
	Backups        []BackupState    `json:"backups,omitempty"`
	TempFiles      []TempFile       `json:"tempFiles,omitempty"`
	CollectedAt    time.Time        `json:"collectedAt"`
}
