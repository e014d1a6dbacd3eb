// Package ratelimit provides fixed-window request counters keyed by client.
//
// The window is fixed, not sliding: a client can be admitted up to 2x the
// limit across a window boundary.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Default contact endpoint limits.
const (
	DefaultMax    = 5
	DefaultWindow = 15 * time.Minute
)

// UnknownKey is used when no client address could be determined.
const UnknownKey = "unknown"

// Limiter decides whether one more request for key is admitted, consuming a
// slot when it is.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Entry is the per-key counter state.
type Entry struct {
	Count     int
	ResetTime time.Time
}

// FixedWindow is the in-process Limiter. Entries live for the lifetime of
// the process.
type FixedWindow struct {
	max    int
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]*Entry
}

var _ Limiter = (*FixedWindow)(nil)

// NewFixedWindow creates a FixedWindow admitting max requests per window.
// Non-positive arguments fall back to the defaults.
func NewFixedWindow(max int, window time.Duration) *FixedWindow {
	if max <= 0 {
		max = DefaultMax
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &FixedWindow{
		max:     max,
		window:  window,
		now:     time.Now,
		entries: make(map[string]*Entry),
	}
}

// WithClock replaces the time source. Intended for tests.
func (l *FixedWindow) WithClock(now func() time.Time) *FixedWindow {
	l.now = now
	return l
}

// Allow implements Limiter. It never returns an error.
func (l *FixedWindow) Allow(_ context.Context, key string) (bool, error) {
	if key == "" {
		key = UnknownKey
	}
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok || now.After(e.ResetTime) {
		l.entries[key] = &Entry{Count: 1, ResetTime: now.Add(l.window)}
		return true, nil
	}
	if e.Count >= l.max {
		return false, nil
	}
	e.Count++
	return true, nil
}

// Peek returns a copy of the entry for key, if any.
func (l *FixedWindow) Peek(key string) (Entry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[key]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}
