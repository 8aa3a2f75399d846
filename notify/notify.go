// Copyright © 2025 Deckreview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: notify/notify.go
// Summary: Injected notification capability with log and toast sinks.

package notify

import (
	"errors"
	"sync"
	"time"

	"k8s.io/klog/v2"
)

// Severity of a notice.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "destructive"
	}
	return "default"
}

// Notice is one user-facing message.
type Notice struct {
	Title       string
	Description string
	Severity    Severity
	At          time.Time
}

// Notifier receives notices.
type Notifier interface {
	Notify(Notice)
}

// Func adapts a function to Notifier.
type Func func(Notice)

func (f Func) Notify(n Notice) { f(n) }

// Info sends an informational notice.
func Info(n Notifier, title, description string) {
	if n == nil {
		return
	}
	n.Notify(Notice{Title: title, Description: description, Severity: SeverityInfo})
}

// Error sends an error notice.
func Error(n Notifier, title, description string) {
	if n == nil {
		return
	}
	n.Notify(Notice{Title: title, Description: description, Severity: SeverityError})
}

// Multi fans a notice out to several notifiers.
type Multi []Notifier

func (m Multi) Notify(n Notice) {
	for _, target := range m {
		if target != nil {
			target.Notify(n)
		}
	}
}

// Log writes notices to klog.
type Log struct{}

func (Log) Notify(n Notice) {
	if n.Severity == SeverityError {
		klog.ErrorS(errors.New(n.Description), "Notice", "title", n.Title)
		return
	}
	klog.InfoS("Notice", "title", n.Title, "description", n.Description)
}

// DefaultLifetime is how long a toast stays visible.
const DefaultLifetime = 3 * time.Second

// Queue holds toasts until they expire.
type Queue struct {
	mu       sync.Mutex
	items    []Notice
	lifetime time.Duration
	now      func() time.Time
}

// NewQueue creates a queue whose notices expire after lifetime.
func NewQueue(lifetime time.Duration) *Queue {
	if lifetime <= 0 {
		lifetime = DefaultLifetime
	}
	return &Queue{lifetime: lifetime, now: time.Now}
}

// Notify enqueues n, stamping it with the current time.
func (q *Queue) Notify(n Notice) {
	q.mu.Lock()
	defer q.mu.Unlock()
	n.At = q.now()
	q.items = append(q.items, n)
}

// Active drops expired notices and returns the rest, oldest first.
func (q *Queue) Active() []Notice {
	q.mu.Lock()
	defer q.mu.Unlock()
	cutoff := q.now().Add(-q.lifetime)
	kept := q.items[:0]
	for _, n := range q.items {
		if n.At.After(cutoff) {
			kept = append(kept, n)
		}
	}
	q.items = kept
	out := make([]Notice, len(kept))
	copy(out, kept)
	return out
}

// NextExpiry returns when the oldest visible notice expires.
func (q *Queue) NextExpiry() (time.Time, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return time.Time{}, false
	}
	return q.items[0].At.Add(q.lifetime), true
}

// Dismiss removes all notices.
func (q *Queue) Dismiss() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = nil
}
