package locks

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryTaskLocker is a TaskLocker for single-instance deployments and tests.
type MemoryTaskLocker struct {
	mu    sync.Mutex
	slots map[string]*memorySlot
	wait  time.Duration
}

type memorySlot struct {
	sem   chan struct{}
	token string
	refs  int
}

func NewMemoryTaskLocker(wait time.Duration) *MemoryTaskLocker {
	return &MemoryTaskLocker{
		slots: make(map[string]*memorySlot),
		wait:  wait,
	}
}

func (m *MemoryTaskLocker) Acquire(ctx context.Context, taskID string) (Lease, error) {
	m.mu.Lock()
	slot, ok := m.slots[taskID]
	if !ok {
		slot = &memorySlot{sem: make(chan struct{}, 1)}
		m.slots[taskID] = slot
	}
	slot.refs++
	m.mu.Unlock()

	timer := time.NewTimer(m.wait)
	defer timer.Stop()

	select {
	case slot.sem <- struct{}{}:
	case <-timer.C:
		m.unref(taskID, slot)
		return Lease{}, ErrLockNotAcquired
	case <-ctx.Done():
		m.unref(taskID, slot)
		return Lease{}, ctx.Err()
	}

	lease := Lease{Key: taskID, Token: uuid.NewString()}
	m.mu.Lock()
	slot.token = lease.Token
	m.mu.Unlock()

	return lease, nil
}

func (m *MemoryTaskLocker) Release(_ context.Context, lease Lease) error {
	m.mu.Lock()
	slot, ok := m.slots[lease.Key]
	if !ok || slot.token != lease.Token {
		m.mu.Unlock()
		return nil
	}
	slot.token = ""
	m.mu.Unlock()

	<-slot.sem
	m.unref(lease.Key, slot)
	return nil
}

func (m *MemoryTaskLocker) unref(taskID string, slot *memorySlot) {
	m.mu.Lock()
	defer m.mu.Unlock()

	slot.refs--
	if slot.refs == 0 {
		delete(m.slots, taskID)
	}
}
