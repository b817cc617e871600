package repository

import (
	"context"
	"sync"
	"time"
)

type windowEntry struct {
	count     int
	expiresAt time.Time
}

// MemoryLimiter is the in-process fallback when redis is unreachable. Windows
// are per replica, so limits are approximate during a redis outage.
type MemoryLimiter struct {
	mu      sync.Mutex
	windows map[int64]*windowEntry
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{windows: make(map[int64]*windowEntry)}
}

func (m *MemoryLimiter) CheckRateLimit(_ context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.windows[userID]
	if !ok || now.After(entry.expiresAt) {
		entry = &windowEntry{count: 1, expiresAt: now.Add(window)}
		m.windows[userID] = entry
	} else {
		entry.count++
	}
	return entry.count <= limit, nil
}
