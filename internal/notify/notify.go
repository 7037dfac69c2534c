// Package notify carries the user-facing outcome of every workflow.
//
// Each action yields exactly one [Notice]. A [Board] shows one notice at a
// time and dismisses non-sticky notices after their TTL.
package notify

import (
	"sync"
	"time"
)

// Level is the severity of a notice.
type Level int

const (
	Info Level = iota
	Success
	Error
)

func (l Level) String() string {
	switch l {
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "info"
	}
}

// Notice is a message for the user. Err is set for failures.
type Notice struct {
	Level   Level
	Message string
	Sticky  bool
	TTL     time.Duration
	Err     error
}

// OK reports whether the notice does not describe a failure.
func (n Notice) OK() bool { return n.Level != Error }

// Empty reports whether the notice carries no message.
func (n Notice) Empty() bool { return n.Message == "" }

func (n Notice) String() string { return n.Message }

// Succeeded builds a success notice.
func Succeeded(msg string) Notice { return Notice{Level: Success, Message: msg} }

// Toast builds a success notice that dismisses itself after ttl.
func Toast(msg string, ttl time.Duration) Notice {
	return Notice{Level: Success, Message: msg, TTL: ttl}
}

// Informed builds an informational notice.
func Informed(msg string) Notice { return Notice{Level: Info, Message: msg} }

// Failed builds a sticky error notice.
func Failed(msg string, err error) Notice {
	return Notice{Level: Error, Message: msg, Sticky: true, Err: err}
}

// Board holds the currently visible notice.
//
// OnChange, when set, is called after every show and dismiss, from the calling
// goroutine or the dismiss timer.
type Board struct {
	mu       sync.Mutex
	current  Notice
	visible  bool
	timer    *time.Timer
	seq      int
	closed   bool
	OnChange func(n Notice, visible bool)
}

// Show replaces the visible notice. Notices with a TTL and no Sticky flag are dismissed when it elapses.
func (b *Board) Show(n Notice) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.stopTimer()
	b.seq++
	b.current, b.visible = n, true

	if n.TTL > 0 && !n.Sticky {
		seq := b.seq
		b.timer = time.AfterFunc(n.TTL, func() { b.expire(seq) })
	}
	cb := b.OnChange
	b.mu.Unlock()

	if cb != nil {
		cb(n, true)
	}
}

// Current returns the visible notice and whether one is showing.
func (b *Board) Current() (Notice, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current, b.visible
}

// Dismiss hides the visible notice.
func (b *Board) Dismiss() {
	b.mu.Lock()
	if !b.visible {
		b.mu.Unlock()
		return
	}
	b.stopTimer()
	b.visible = false
	n, cb := b.current, b.OnChange
	b.mu.Unlock()

	if cb != nil {
		cb(n, false)
	}
}

// Close cancels a pending dismiss timer and ignores later notices.
func (b *Board) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopTimer()
	b.closed = true
}

func (b *Board) expire(seq int) {
	b.mu.Lock()
	if seq != b.seq || !b.visible || b.closed {
		b.mu.Unlock()
		return
	}
	b.visible, b.timer = false, nil
	n, cb := b.current, b.OnChange
	b.mu.Unlock()

	if cb != nil {
		cb(n, false)
	}
}

func (b *Board) stopTimer() {
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}
