// Copyright 2026 The Vaultguard Authors
// SPDX-License-Identifier: Apache-2.0

package throttle

import (
	"time"

	"github.com/blackboxvault/vaultguard/lib/clock"
)

// Limiter allows at most one event per interval, counting how many
// were suppressed in between so the next allowed event can report the
// gap. Not safe for concurrent use; it belongs to the single evaluator
// goroutine like everything else in the loop.
type Limiter struct {
	clock    clock.Clock
	interval time.Duration

	last       time.Time
	seen       bool
	suppressed int
}

// New returns a Limiter with the given minimum interval between
// allowed events. A nil clk defaults to clock.Real().
func New(interval time.Duration, clk clock.Clock) *Limiter {
	if clk == nil {
		clk = clock.Real()
	}
	return &Limiter{clock: clk, interval: interval}
}

// Allow reports whether an event may be emitted now. When it returns
// true, suppressed is the number of events swallowed since the last
// allowed one. The first event is always allowed.
func (l *Limiter) Allow() (ok bool, suppressed int) {
	now := l.clock.Now()

	// A backward clock jump makes the last-allowed instant appear in
	// the future; re-anchor a full interval back so output resumes
	// immediately instead of being silenced for another interval.
	if l.seen && now.Before(l.last) {
		l.last = now.Add(-l.interval)
	}

	if l.seen && now.Sub(l.last) < l.interval {
		l.suppressed++
		return false, 0
	}

	suppressed = l.suppressed
	l.suppressed = 0
	l.last = now
	l.seen = true
	return true, suppressed
}
