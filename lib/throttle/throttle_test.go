// Copyright 2026 The Vaultguard Authors
// SPDX-License-Identifier: Apache-2.0

package throttle

import (
	"testing"
	"time"

	"github.com/blackboxvault/vaultguard/lib/clock"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFirstEventAllowed(t *testing.T) {
	limiter := New(time.Second, clock.Fake(epoch))

	ok, suppressed := limiter.Allow()
	if !ok || suppressed != 0 {
		t.Fatalf("first Allow = %v, %d; want true, 0", ok, suppressed)
	}
}

func TestSuppressesWithinInterval(t *testing.T) {
	fake := clock.Fake(epoch)
	limiter := New(time.Second, fake)

	limiter.Allow()
	for i := 0; i < 10; i++ {
		fake.Advance(50 * time.Millisecond)
		if ok, _ := limiter.Allow(); ok {
			t.Fatalf("event %d allowed within interval", i)
		}
	}

	fake.Advance(time.Second)
	ok, suppressed := limiter.Allow()
	if !ok {
		t.Fatal("event after interval not allowed")
	}
	if suppressed != 10 {
		t.Errorf("suppressed = %d, want 10", suppressed)
	}
}

func TestBackwardJumpDoesNotSilenceForever(t *testing.T) {
	fake := clock.Fake(epoch)
	limiter := New(time.Second, fake)

	limiter.Allow()
	fake.Advance(-time.Hour)

	// Re-anchored: output resumes at the first observation after the
	// jump rather than waiting out another interval.
	fake.Advance(time.Second)
	if ok, _ := limiter.Allow(); !ok {
		t.Fatal("limiter silenced after backward clock jump")
	}

	// The interval still applies from that point on.
	fake.Advance(500 * time.Millisecond)
	if ok, _ := limiter.Allow(); ok {
		t.Fatal("limiter allowed a second event within the interval")
	}
	fake.Advance(500 * time.Millisecond)
	if ok, _ := limiter.Allow(); !ok {
		t.Fatal("limiter did not recover its normal cadence")
	}
}
