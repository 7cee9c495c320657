package ratelimit

import (
	"sync"
	"time"
)

// RouteClass partitions endpoints into budget classes.
type RouteClass string

const (
	ClassRead  RouteClass = "read"
	ClassWrite RouteClass = "write"
	ClassAdmin RouteClass = "admin"
)

// Limiter enforces a fixed-window request budget per identity and route
// class. State is process-local; under horizontal scaling each instance
// carries its own budget.
type Limiter struct {
	window  time.Duration
	budgets map[RouteClass]int
	enabled bool

	entries map[string]*windowEntry
	mu      sync.Mutex
}

type windowEntry struct {
	count       int
	windowStart time.Time
}

// NewLimiter creates a limiter with the given fixed window and per-class
// budgets. A class missing from budgets is unlimited.
func NewLimiter(window time.Duration, budgets map[RouteClass]int, enabled bool) *Limiter {
	return &Limiter{
		window:  window,
		budgets: budgets,
		enabled: enabled,
		entries: make(map[string]*windowEntry),
	}
}

// Allow records one request for identity in class and reports whether it is
// within budget. The first rejection in a window does not extend the window.
func (l *Limiter) Allow(identity string, class RouteClass) bool {
	if !l.enabled {
		return true
	}
	budget, ok := l.budgets[class]
	if !ok || budget <= 0 {
		return true
	}

	key := identity + "|" + string(class)
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweep(now)

	entry, exists := l.entries[key]
	if !exists || now.Sub(entry.windowStart) >= l.window {
		l.entries[key] = &windowEntry{count: 1, windowStart: now}
		return true
	}

	if entry.count >= budget {
		return false
	}
	entry.count++
	return true
}

// sweep drops entries whose window has long expired to bound memory.
// Opportunistic: runs under the lock on each Allow, but only every window.
func (l *Limiter) sweep(now time.Time) {
	if len(l.entries) < 1024 {
		return
	}
	cutoff := now.Add(-2 * l.window)
	for key, entry := range l.entries {
		if entry.windowStart.Before(cutoff) {
			delete(l.entries, key)
		}
	}
}

// Stats contains limiter statistics for the stats endpoint.
type Stats struct {
	Enabled       bool           `json:"enabled"`
	WindowSeconds int            `json:"window_seconds"`
	Budgets       map[string]int `json:"budgets"`
	ActiveWindows int            `json:"active_windows"`
	UsageByClass  map[string]int `json:"usage_by_class"`
}

// GetStats returns current limiter statistics.
func (l *Limiter) GetStats() Stats {
	if !l.enabled {
		return Stats{Enabled: false}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	budgets := make(map[string]int, len(l.budgets))
	for class, budget := range l.budgets {
		budgets[string(class)] = budget
	}
	usage := make(map[string]int)
	active := 0
	for key, entry := range l.entries {
		if now.Sub(entry.windowStart) >= l.window {
			continue
		}
		active++
		for class := range l.budgets {
			suffix := "|" + string(class)
			if len(key) > len(suffix) && key[len(key)-len(suffix):] == suffix {
				usage[string(class)] += entry.count
			}
		}
	}

	return Stats{
		Enabled:       true,
		WindowSeconds: int(l.window.Seconds()),
		Budgets:       budgets,
		ActiveWindows: active,
		UsageByClass:  usage,
	}
}

// Reset clears all tracked windows (useful for testing).
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = make(map[string]*windowEntry)
}
