// Package mssql collects raw metric snapshots from SQL Server instances.
// Each category is fetched independently so one failing collection never
// poisons the others; callers degrade a failed category to its empty form.
package mssql

import (
	"context"
	"errors"

	"sqlfleet/pkg/model"
)

// ErrUnreachable marks an instance-level failure (connect/ping), as opposed
// to a single category being unavailable. Workers skip the whole instance.
var ErrUnreachable = errors.New("instance unreachable")

// MetricsProvider exposes one operation per metric category. Every call is
// bounded by the provider's query timeout through the supplied context.
type MetricsProvider interface {
	ServerInfo(ctx context.Context, id model.InstanceIdentity) (*model.ServerInfo, error)
	Config(ctx context.Context, id model.InstanceIdentity) (*model.InstanceConfig, error)
	Databases(ctx context.Context, id model.InstanceIdentity) ([]model.DatabaseInfo, error)
	Files(ctx context.Context, id model.InstanceIdentity) ([]model.FileGrowth, error)
	TraceFlags(ctx context.Context, id model.InstanceIdentity) ([]int, error)
	Integrity(ctx context.Context, id model.InstanceIdentity) ([]model.IntegrityCheck, error)
	Backups(ctx context.Context, id model.InstanceIdentity) ([]model.BackupState, error)
	TempFiles(ctx context.Context, id model.InstanceIdentity) ([]model.TempFile, error)
	Close() error
}
