package cache

import (
	"container/list"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

type memEntry struct {
	key      string
	value    []byte
	storedAt time.Time
	ttl      time.Duration
	elem     *list.Element
}

// valid reports whether the entry is still live at now. A non-positive ttl
// never expires, matching redis semantics for a zero expiration.
func (e *memEntry) valid(now time.Time) bool {
	if e.ttl <= 0 {
		return true
	}
	return now.Sub(e.storedAt) < e.ttl
}

// Memory is an in-process Store. Expiry is lazy: Get ignores stale entries
// without removing them. Growth is bounded by an optional capacity (oldest
// write evicted first) and an optional cron-scheduled sweep.
type Memory struct {
	mu       sync.Mutex
	items    map[string]*memEntry
	order    *list.List
	capacity int
	now      Clock

	sweepSpec string
	cron      *cron.Cron
}

// MemoryOption configures a Memory store.
type MemoryOption func(*Memory)

// WithClock sets the time source.
func WithClock(c Clock) MemoryOption {
	return func(m *Memory) {
		if c != nil {
			m.now = c
		}
	}
}

// WithCapacity bounds the number of entries; n <= 0 means unbounded.
func WithCapacity(n int) MemoryOption {
	return func(m *Memory) { m.capacity = n }
}

// WithSweep schedules Sweep with a cron spec such as "@every 10m".
func WithSweep(spec string) MemoryOption {
	return func(m *Memory) { m.sweepSpec = spec }
}

// NewMemory creates a memory store and starts the sweep schedule if one is set.
func NewMemory(opts ...MemoryOption) (*Memory, error) {
	m := &Memory{
		items: make(map[string]*memEntry),
		order: list.New(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.sweepSpec != "" {
		c := cron.New()
		if _, err := c.AddFunc(m.sweepSpec, func() {
			if n := m.Sweep(); n > 0 {
				slog.Debug("cache sweep removed expired entries", slog.Int("removed", n))
			}
		}); err != nil {
			return nil, fmt.Errorf("op=cache.NewMemory: invalid sweep spec %q: %w", m.sweepSpec, err)
		}
		c.Start()
		m.cron = c
	}
	return m, nil
}

// Get returns a copy of the value stored under key when it has not expired.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.items[key]
	if !ok || !e.valid(m.now()) {
		return nil, false, nil
	}
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, true, nil
}

// Set replaces any existing entry wholesale and stamps a fresh storedAt.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	buf := make([]byte, len(value))
	copy(buf, value)

	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.items[key]; ok {
		m.order.Remove(old.elem)
	}
	e := &memEntry{key: key, value: buf, storedAt: m.now(), ttl: ttl}
	e.elem = m.order.PushBack(e)
	m.items[key] = e

	for m.capacity > 0 && len(m.items) > m.capacity {
		oldest := m.order.Front()
		if oldest == nil {
			break
		}
		m.removeLocked(oldest.Value.(*memEntry))
	}
	return nil
}

// Delete removes key if present.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.items[key]; ok {
		m.removeLocked(e)
	}
	return nil
}

// Sweep removes every expired entry and returns how many were dropped.
func (m *Memory) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	removed := 0
	for el := m.order.Front(); el != nil; {
		next := el.Next()
		if e := el.Value.(*memEntry); !e.valid(now) {
			m.removeLocked(e)
			removed++
		}
		el = next
	}
	return removed
}

// Len counts stored entries, expired ones included until swept or overwritten.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Close stops the sweep schedule and waits for a running sweep to finish.
func (m *Memory) Close() error {
	if m.cron != nil {
		<-m.cron.Stop().Done()
	}
	return nil
}

func (m *Memory) removeLocked(e *memEntry) {
	m.order.Remove(e.elem)
	delete(m.items, e.key)
}
