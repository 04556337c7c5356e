package run

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"sqlfleet/pkg/model"
	"sqlfleet/pkg/mssql"
	"sqlfleet/pkg/policy"
)

// Resolver expands a target host into the instance names running on it.
type Resolver func(ctx context.Context, target model.Target) []string

// Worker drives one target end to end: resolve instances, collect snapshots,
// classify, assemble reports. Failures stay inside the worker; an unreachable
// instance is skipped, a failed metric category degrades to empty.
type Worker struct {
	Provider mssql.MetricsProvider
	Resolver Resolver
	Events   EventFunc
}

// Run assesses every instance resolved on the target. It returns an error
// only when instances were resolved but none could be reached.
func (w *Worker) Run(ctx context.Context, target model.Target) ([]model.InstanceReport, error) {
	host := target.FQDN()
	instances := target.Instances
	if len(instances) == 0 && w.Resolver != nil {
		instances = w.Resolver(ctx, target)
	}
	if len(instances) == 0 {
		instances = []string{model.DefaultInstance}
	}

	var reports []model.InstanceReport
	unreachable := 0
	for _, inst := range instances {
		id := model.InstanceIdentity{Server: host, Instance: normalizeInstance(inst)}
		snap, err := w.collect(ctx, id)
		if err != nil {
			unreachable++
			log.Printf("instance %s skipped: %v", id, err)
			emit(w.Events, Event{Type: EventInstanceSkipped, Target: host, Instance: id.Instance, Detail: err.Error()})
			continue
		}
		reports = append(reports, buildReport(snap))
		emit(w.Events, Event{Type: EventInstanceDone, Target: host, Instance: id.Instance})
	}
	if len(reports) == 0 && unreachable > 0 {
		return nil, fmt.Errorf("no reachable instance on %s (%d tried)", host, unreachable)
	}
	return reports, nil
}

// collect fetches every metric category for one instance. Only an
// unreachable instance aborts collection; a category error is logged and
// the category left empty, which downstream rules classify as REVIEW.
func (w *Worker) collect(ctx context.Context, id model.InstanceIdentity) (model.InstanceSnapshot, error) {
	snap := model.InstanceSnapshot{Identity: id, CollectedAt: time.Now().UTC()}

	info, err := w.Provider.ServerInfo(ctx, id)
	if err != nil {
		if errors.Is(err, mssql.ErrUnreachable) {
			return snap, err
		}
		w.degrade(id, "server info", err)
	} else {
		snap.ServerInfo = info
	}

	if cfg, err := w.Provider.Config(ctx, id); err != nil {
		w.degrade(id, "configuration", err)
	} else {
		snap.Config = cfg
	}
	if dbs, err := w.Provider.Databases(ctx, id); err != nil {
		w.degrade(id, "database inventory", err)
	} else {
		snap.Databases = dbs
	}
	if files, err := w.Provider.Files(ctx, id); err != nil {
		w.degrade(id, "file growth", err)
	} else {
		snap.Files = files
	}
	if flags, err := w.Provider.TraceFlags(ctx, id); err != nil {
		w.degrade(id, "trace flags", err)
	} else {
		snap.TraceFlags = flags
		snap.FlagsCollected = true
	}
	if checks, err := w.Provider.Integrity(ctx, id); err != nil {
		w.degrade(id, "integrity history", err)
	} else {
		snap.Integrity = checks
	}
	if backups, err := w.Provider.Backups(ctx, id); err != nil {
		w.degrade(id, "backup history", err)
	} else {
		snap.Backups = backups
	}
	if files, err := w.Provider.TempFiles(ctx, id); err != nil {
		w.degrade(id, "tempdb layout", err)
	} else {
		snap.TempFiles = files
	}
	return snap, nil
}

func (w *Worker) degrade(id model.InstanceIdentity, category string, err error) {
	log.Printf("instance %s: %s collection failed, continuing without it: %v", id, category, err)
}

func buildReport(snap model.InstanceSnapshot) model.InstanceReport {
	report := model.InstanceReport{
		Identity:     snap.Identity,
		VersionLabel: "Unknown",
		Verdicts:     policy.EvaluateAll(snap),
		CollectedAt:  snap.CollectedAt,
	}
	if snap.ServerInfo != nil {
		report.VersionLabel = policy.VersionLabel(snap.ServerInfo.Major)
		report.Build = snap.ServerInfo.VersionBuild
		report.Edition = snap.ServerInfo.Edition
		report.MemoryMB = snap.ServerInfo.TotalMemoryMB
		report.CPUs = snap.ServerInfo.Schedulers
	}
	return report
}

func normalizeInstance(name string) string {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" || name == "MSSQLSERVER" {
		return model.DefaultInstance
	}
	return name
}
