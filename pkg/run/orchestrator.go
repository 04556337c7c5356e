// Package run fans a scan out over the target list with a bounded worker
// pool and joins the per-target outcomes into one ordered result set.
package run

import (
	"context"
	"log"
	"sync"
	"sync/atomic"

	"sqlfleet/pkg/model"
	"sqlfleet/pkg/mssql"
)

const defaultConcurrency = 8

// Orchestrator expands targets into workers and is the only join point of a
// scan. No shared mutable state crosses workers; each result lands in its
// own write-once slot so output order follows input order, not completion.
type Orchestrator struct {
	provider    mssql.MetricsProvider
	resolver    Resolver
	concurrency int
	events      EventFunc
}

// Options carries the scan-wide settings threaded into workers.
type Options struct {
	Concurrency int
	Resolver    Resolver
	Events      EventFunc
}

func NewOrchestrator(provider mssql.MetricsProvider, opts Options) *Orchestrator {
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultConcurrency
	}
	return &Orchestrator{
		provider:    provider,
		resolver:    opts.Resolver,
		concurrency: opts.Concurrency,
		events:      opts.Events,
	}
}

// Run assesses every target and returns the concatenated per-instance
// reports in target order, plus the count of targets that produced nothing
// due to failure. A failed target never aborts or blocks the others.
func (o *Orchestrator) Run(ctx context.Context, targets []model.Target) ([]model.InstanceReport, int) {
	emit(o.events, Event{Type: EventRunStarted, Reports: len(targets)})

	slots := make([][]model.InstanceReport, len(targets))
	jobs := make(chan int)
	var failed atomic.Int64

	workers := o.concurrency
	if workers > len(targets) {
		workers = len(targets)
	}
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				target := targets[idx]
				emit(o.events, Event{Type: EventTargetStarted, Target: target.Host})
				w := &Worker{Provider: o.provider, Resolver: o.resolver, Events: o.events}
				reports, err := w.Run(ctx, target)
				if err != nil {
					failed.Add(1)
					log.Printf("target %s failed: %v", target.Host, err)
					emit(o.events, Event{Type: EventTargetFailed, Target: target.Host, Detail: err.Error()})
					continue
				}
				slots[idx] = reports
				emit(o.events, Event{Type: EventTargetDone, Target: target.Host, Reports: len(reports)})
			}
		}()
	}
	for idx := range targets {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	var all []model.InstanceReport
	for _, reports := range slots {
		all = append(all, reports...)
	}
	emit(o.events, Event{Type: EventRunDone, Reports: len(all)})
	return all, int(failed.Load())
}
