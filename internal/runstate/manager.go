package runstate

import (
	"log"
	"sync"
	"time"

	"ChartFeed/internal/model"
)

// Manager tracks the latest refresh outcome with concurrency safety.
type Manager struct {
	mu       sync.Mutex
	state    *State
	filePath string
}

// NewManager creates a Manager, loading or initializing state from disk.
func NewManager(filePath string) (*Manager, error) {
	state, err := Load(filePath)
	if err != nil {
		return nil, err
	}
	return &Manager{state: state, filePath: filePath}, nil
}

// Get returns a copy of the current state.
func (m *Manager) Get() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.state
}

// RecordSuccess stores the outcome of a completed run.
func (m *Manager) RecordSuccess(rep *model.RunReport) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.LastRunAt = rep.FinishedAt
	m.state.LastStatus = string(rep.Status)
	m.state.LastError = ""
	m.state.DaysKept = rep.DaysKept
	m.state.FilesWritten = rep.FilesWritten
	m.state.FirstDate = rep.FirstDate
	m.state.LastDate = rep.LastDate
	m.state.RunCount++

	if err := m.save(); err != nil {
		log.Printf("[ERROR] failed to save run state: %v", err)
	}
}

// RecordFailure stores a failed run so /status can report it.
func (m *Manager) RecordFailure(runErr error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.LastRunAt = time.Now()
	m.state.LastStatus = "FAILED"
	m.state.LastError = runErr.Error()
	m.state.RunCount++

	if err := m.save(); err != nil {
		log.Printf("[ERROR] failed to save run state: %v", err)
	}
}

func (m *Manager) save() error {
	return Save(m.filePath, m.state)
}
