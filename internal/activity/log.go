package activity

import (
	"sync"
	"time"
)

// Entry is a single agent activity record
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Agent     string    `json:"agent"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail,omitempty"`
}

// Log is an append-only activity log capped to a rolling window.
// It exists for diagnostics only; nothing reads it on the hot path.
type Log struct {
	mu      sync.Mutex
	entries []Entry
	cap     int
}

// NewLog creates a log that retains at most cap entries
func NewLog(cap int) *Log {
	if cap < 1 {
		cap = 1
	}
	return &Log{cap: cap}
}

// Record appends an entry, evicting the oldest once the cap is reached
func (l *Log) Record(agent, action, detail string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, Entry{
		Timestamp: time.Now(),
		Agent:     agent,
		Action:    action,
		Detail:    detail,
	})
	if len(l.entries) > l.cap {
		l.entries = l.entries[len(l.entries)-l.cap:]
	}
}

// Recent returns the last n entries in append order
func (l *Log) Recent(n int) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	if n > len(l.entries) {
		n = len(l.entries)
	}
	out := make([]Entry, n)
	copy(out, l.entries[len(l.entries)-n:])
	return out
}

// Len returns the number of retained entries
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
