package run

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"sqlfleet/pkg/model"
	"sqlfleet/pkg/mssql"
	"sqlfleet/pkg/policy"
)

// fakeProvider serves canned snapshots and tracks concurrent use.
type fakeProvider struct {
	unreachable map[string]bool // host -> refuse all instances
	failCats    map[string]bool // host -> fail every non-info category
	delay       time.Duration

	mu          sync.Mutex
	inflight    int
	maxInflight int
}

func (f *fakeProvider) enter() {
	f.mu.Lock()
	f.inflight++
	if f.inflight > f.maxInflight {
		f.maxInflight = f.inflight
	}
	f.mu.Unlock()
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
}

func (f *fakeProvider) leave() {
	f.mu.Lock()
	f.inflight--
	f.mu.Unlock()
}

func (f *fakeProvider) ServerInfo(_ context.Context, id model.InstanceIdentity) (*model.ServerInfo, error) {
	f.enter()
	defer f.leave()
	if f.unreachable[id.Server] {
		return nil, fmt.Errorf("dial %s: %w", id.Server, mssql.ErrUnreachable)
	}
	return &model.ServerInfo{
		ServerName: id.Server, Major: 15, Edition: "Standard",
		TotalMemoryMB: 32768, Schedulers: 8, NUMANodes: 1,
	}, nil
}

func (f *fakeProvider) Config(_ context.Context, id model.InstanceIdentity) (*model.InstanceConfig, error) {
	if f.failCats[id.Server] {
		return nil, fmt.Errorf("configuration query failed")
	}
	return &model.InstanceConfig{MinServerMemoryMB: 1024, MaxServerMemoryMB: 24576, OptimizeAdhoc: true, RemoteAdmin: true, MaxDOP: 8}, nil
}

func (f *fakeProvider) Databases(_ context.Context, id model.InstanceIdentity) ([]model.DatabaseInfo, error) {
	if f.failCats[id.Server] {
		return nil, fmt.Errorf("database query failed")
	}
	return []model.DatabaseInfo{{Name: "app", AutoCreateStats: true, AutoUpdateStats: true, PageVerify: "CHECKSUM", CompatLevel: 150, RecoveryModel: "SIMPLE", VLFCount: 10}}, nil
}

func (f *fakeProvider) Files(context.Context, model.InstanceIdentity) ([]model.FileGrowth, error) {
	return []model.FileGrowth{{Database: "app", LogicalName: "app_data", MaxSizeMB: 10240, GrowthMB: 256}}, nil
}

func (f *fakeProvider) TraceFlags(context.Context, model.InstanceIdentity) ([]int, error) {
	return []int{4199, 7745, 12310}, nil
}

func (f *fakeProvider) Integrity(context.Context, model.InstanceIdentity) ([]model.IntegrityCheck, error) {
	return []model.IntegrityCheck{{Database: "app", LastGood: time.Now().UTC()}}, nil
}

func (f *fakeProvider) Backups(context.Context, model.InstanceIdentity) ([]model.BackupState, error) {
	return []model.BackupState{{Database: "app", RecoveryModel: "SIMPLE", LastFull: time.Now().UTC()}}, nil
}

func (f *fakeProvider) TempFiles(context.Context, model.InstanceIdentity) ([]model.TempFile, error) {
	return []model.TempFile{
		{LogicalName: "tempdev", IsData: true, SizeMB: 256},
		{LogicalName: "tempdev2", IsData: true, SizeMB: 256},
		{LogicalName: "tempdev3", IsData: true, SizeMB: 256},
		{LogicalName: "tempdev4", IsData: true, SizeMB: 256},
	}, nil
}

func (f *fakeProvider) Close() error { return nil }

func targetsFor(hosts ...string) []model.Target {
	targets := make([]model.Target, 0, len(hosts))
	for _, h := range hosts {
		targets = append(targets, model.Target{Host: h, Instances: []string{model.DefaultInstance}})
	}
	return targets
}

func TestOrchestratorPartialFailure(t *testing.T) {
	provider := &fakeProvider{unreachable: map[string]bool{"db02": true}}
	orch := NewOrchestrator(provider, Options{Concurrency: 4})

	reports, failed := orch.Run(context.Background(), targetsFor("db01", "db02", "db03"))
	if failed != 1 {
		t.Fatalf("failed targets = %d, want 1", failed)
	}
	if len(reports) != 2 {
		t.Fatalf("reports = %d, want 2", len(reports))
	}
	// result order follows input order regardless of completion order
	if reports[0].Identity.Server != "db01" || reports[1].Identity.Server != "db03" {
		t.Errorf("unexpected report order: %s, %s", reports[0].Identity, reports[1].Identity)
	}
}

func TestOrchestratorBoundedConcurrency(t *testing.T) {
	provider := &fakeProvider{delay: 10 * time.Millisecond}
	orch := NewOrchestrator(provider, Options{Concurrency: 2})

	reports, failed := orch.Run(context.Background(), targetsFor("a", "b", "c", "d", "e", "f"))
	if failed != 0 || len(reports) != 6 {
		t.Fatalf("reports=%d failed=%d, want 6/0", len(reports), failed)
	}
	if provider.maxInflight > 2 {
		t.Errorf("max in-flight collections = %d, want <= 2", provider.maxInflight)
	}
}

func TestWorkerDegradedCategory(t *testing.T) {
	provider := &fakeProvider{failCats: map[string]bool{"db01": true}}
	w := &Worker{Provider: provider}

	reports, err := w.Run(context.Background(), model.Target{Host: "db01"})
	if err != nil {
		t.Fatalf("worker failed: %v", err)
	}
	if len(reports) != 1 {
		t.Fatalf("reports = %d, want 1", len(reports))
	}
	// the failed categories must classify as REVIEW, not abort the instance
	if v := reports[0].Verdicts[policy.RuleDBOptions]; v.Status != model.StatusReview {
		t.Errorf("DatabaseOptions on degraded input: got %s, want REVIEW", v.Status)
	}
	if v := reports[0].Verdicts[policy.RuleTempDB]; v.Status != model.StatusOK {
		t.Errorf("TempDB should still classify from its own data: got %s (%s)", v.Status, v.Detail)
	}
}

func TestWorkerExplicitInstances(t *testing.T) {
	provider := &fakeProvider{}
	w := &Worker{Provider: provider}

	target := model.Target{Host: "db01", Domain: "corp.example.com", Instances: []string{"sales", "MSSQLSERVER"}}
	reports, err := w.Run(context.Background(), target)
	if err != nil {
		t.Fatalf("worker failed: %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("reports = %d, want 2", len(reports))
	}
	if got := reports[0].Identity; got.Server != "db01.corp.example.com" || got.Instance != "SALES" {
		t.Errorf("first identity = %s", got)
	}
	if got := reports[1].Identity; got.Instance != model.DefaultInstance {
		t.Errorf("MSSQLSERVER should normalize to DEFAULT, got %s", got.Instance)
	}
}

func TestWorkerAllInstancesUnreachable(t *testing.T) {
	provider := &fakeProvider{unreachable: map[string]bool{"db09": true}}
	w := &Worker{Provider: provider}

	reports, err := w.Run(context.Background(), model.Target{Host: "db09"})
	if err == nil {
		t.Fatal("expected an error when no instance is reachable")
	}
	if len(reports) != 0 {
		t.Fatalf("reports = %d, want 0", len(reports))
	}
}
