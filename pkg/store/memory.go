package store

import (
	"sync"

	"sqlfleet/pkg/model"
)

const memoryRetention = 20

// MemoryStore is a simple in-memory implementation, intended for dev/demo.
// Runs beyond the retention window are dropped oldest-first.
type MemoryStore struct {
	mu   sync.RWMutex
	runs []model.AssessmentRun // newest last
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) SaveRun(run model.AssessmentRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, run)
	if len(m.runs) > memoryRetention {
		m.runs = m.runs[len(m.runs)-memoryRetention:]
	}
	return nil
}

func (m *MemoryStore) LatestRun() (model.AssessmentRun, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.runs) == 0 {
		return model.AssessmentRun{}, false, nil
	}
	return m.runs[len(m.runs)-1], true, nil
}

func (m *MemoryStore) GetRun(id string) (model.AssessmentRun, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, run := range m.runs {
		if run.ID == id {
			return run, true, nil
		}
	}
	return model.AssessmentRun{}, false, nil
}

func (m *MemoryStore) ListRuns(limit int) ([]model.AssessmentRun, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.AssessmentRun, 0, len(m.runs))
	for i := len(m.runs) - 1; i >= 0; i-- {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, m.runs[i])
	}
	return out, nil
}

func (m *MemoryStore) Close() error { return nil }
