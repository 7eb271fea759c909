package cache

import (
	"context"
	"sync"
	"time"

	"github.com/shoplink/backend/internal/domain/connection"
)

// lockEntry represents a held lock with expiration
type lockEntry struct {
	expiresAt time.Time
}

// InMemorySyncGuard implements SyncGuard using an in-memory map.
// This is suitable for single-instance deployments and testing.
type InMemorySyncGuard struct {
	mu        sync.Mutex
	locks     map[string]lockEntry
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemorySyncGuard creates a new in-memory sync guard.
// It starts a background goroutine to clean up expired locks.
func NewInMemorySyncGuard() *InMemorySyncGuard {
	guard := &InMemorySyncGuard{
		locks:    make(map[string]lockEntry),
		stopChan: make(chan struct{}),
	}

	guard.wg.Add(1)
	go guard.cleanupLoop()

	return guard
}

// TryLock acquires the lock for the key if it is free or expired
func (g *InMemorySyncGuard) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if e, held := g.locks[key]; held && time.Now().Before(e.expiresAt) {
		return false, nil
	}

	g.locks[key] = lockEntry{expiresAt: time.Now().Add(ttl)}
	return true, nil
}

// Unlock releases the lock. Releasing a key that is not held is a no-op.
func (g *InMemorySyncGuard) Unlock(ctx context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.locks, key)
	return nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (g *InMemorySyncGuard) Close() error {
	g.closeOnce.Do(func() {
		close(g.stopChan)
		g.wg.Wait()
	})
	return nil
}

// cleanupLoop periodically removes expired locks
func (g *InMemorySyncGuard) cleanupLoop() {
	defer g.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-g.stopChan:
			return
		case <-ticker.C:
			g.cleanup()
		}
	}
}

func (g *InMemorySyncGuard) cleanup() {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now()
	for key, e := range g.locks {
		if now.After(e.expiresAt) {
			delete(g.locks, key)
		}
	}
}

// Size returns the number of held locks (for testing/monitoring)
func (g *InMemorySyncGuard) Size() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.locks)
}

// Ensure InMemorySyncGuard implements SyncGuard
var _ connection.SyncGuard = (*InMemorySyncGuard)(nil)
