package cache

import (
	"context"
	stdsync "sync"

	"github.com/dropship/backend/internal/application/sync"
)

// InMemoryRunLock implements sync.RunLock for single-node deployments
type InMemoryRunLock struct {
	mu   stdsync.Mutex
	held bool
}

var _ sync.RunLock = (*InMemoryRunLock)(nil)

// NewInMemoryRunLock creates an in-memory run lock
func NewInMemoryRunLock() *InMemoryRunLock {
	return &InMemoryRunLock{}
}

// TryLock attempts to take the lock, returning false when a run holds it
func (l *InMemoryRunLock) TryLock(_ context.Context) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held {
		return false, nil
	}
	l.held = true
	return true, nil
}

// Unlock releases the lock
func (l *InMemoryRunLock) Unlock(_ context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.held = false
	return nil
}
