package didi

import (
	"fmt"
	"sync"
)

// Teardown releases whatever a resource maker acquired.
type Teardown func() error

type teardownEntry struct {
	provider string
	fn       Teardown
}

// lifecycleManager holds the teardowns of a composer's resources.
type lifecycleManager struct {
	entries  []teardownEntry
	disposed bool
	mu       sync.Mutex
}

// newLifecycleManager creates a new lifecycle manager
func newLifecycleManager() *lifecycleManager {
	return &lifecycleManager{
		entries: make([]teardownEntry, 0),
	}
}

// track registers a teardown. It reports false, without registering, once
// dispose has run. Nil teardowns are accepted and ignored.
func (m *lifecycleManager) track(provider string, fn Teardown) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.disposed {
		return false
	}
	if fn != nil {
		m.entries = append(m.entries, teardownEntry{provider: provider, fn: fn})
	}
	return true
}

// dispose runs all tracked teardowns in reverse order (LIFO). Each teardown
// is handed out exactly once, even under concurrent calls.
func (m *lifecycleManager) dispose() []error {
	m.mu.Lock()
	entries := m.entries
	m.entries = nil
	m.disposed = true
	m.mu.Unlock()

	var errs []error

	for i := len(entries) - 1; i >= 0; i-- {
		if err := entries[i].fn(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", entries[i].provider, err))
		}
	}

	return errs
}
