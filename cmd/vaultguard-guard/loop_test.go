// Copyright 2026 The Vaultguard Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/blackboxvault/vaultguard/lib/audit"
	"github.com/blackboxvault/vaultguard/lib/clock"
	"github.com/blackboxvault/vaultguard/lib/gate"
	"github.com/blackboxvault/vaultguard/lib/throttle"
	"github.com/blackboxvault/vaultguard/lib/totp"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

type fakePort struct {
	calls []uint32
	err   error
}

func (p *fakePort) RequestUnlock(pin uint32) error {
	p.calls = append(p.calls, pin)
	return p.err
}

func newTestEvaluator(t *testing.T, port *fakePort, options gate.Options) (*evaluator, *clock.FakeClock) {
	t.Helper()
	fake := clock.Fake(epoch)
	options.Port = port
	options.Clock = fake
	g, err := gate.New(options)
	if err != nil {
		t.Fatalf("gate.New: %v", err)
	}
	return &evaluator{
		validator: totp.Static("GOODTOKEN"),
		gate:      g,
		clock:     fake,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		rejects:   throttle.New(time.Second, fake),
	}, fake
}

func TestRunTriggersOncePerEpisode(t *testing.T) {
	port := &fakePort{}
	evaluator, _ := newTestEvaluator(t, port, gate.Options{PIN: 1337, Cooldown: 5 * time.Second})

	// The same valid code re-reported across many frames, plus noise.
	var input strings.Builder
	for i := 0; i < 30; i++ {
		input.WriteString("GOODTOKEN\n")
	}
	input.WriteString("garbage\n\nGOODTOKEN\n")

	if err := evaluator.run(context.Background(), strings.NewReader(input.String())); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(port.calls) != 1 {
		t.Errorf("port invoked %d times, want 1", len(port.calls))
	}
	if port.calls[0] != 1337 {
		t.Errorf("PIN = %d, want 1337", port.calls[0])
	}
}

func TestRunInvalidCandidatesNeverUnlock(t *testing.T) {
	port := &fakePort{}
	evaluator, _ := newTestEvaluator(t, port, gate.Options{Cooldown: 5 * time.Second})

	var input strings.Builder
	for i := 0; i < 50; i++ {
		fmt.Fprintf(&input, "WRONG%04d\n", i)
	}

	if err := evaluator.run(context.Background(), strings.NewReader(input.String())); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(port.calls) != 0 {
		t.Errorf("port invoked %d times, want 0", len(port.calls))
	}
	if evaluator.gate.State() != gate.StateIdle {
		t.Errorf("gate state = %v, want idle", evaluator.gate.State())
	}
}

func TestRunSingleShotExitsAfterUnlock(t *testing.T) {
	port := &fakePort{}
	evaluator, _ := newTestEvaluator(t, port, gate.Options{Cooldown: 5 * time.Second, SingleShot: true})

	// The reader would block forever after the valid line if the loop
	// failed to exit on the terminal state; a pipe-like endless source
	// is simulated by a very long tail.
	input := "GOODTOKEN\n" + strings.Repeat("GOODTOKEN\n", 1000)

	if err := evaluator.run(context.Background(), strings.NewReader(input)); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(port.calls) != 1 {
		t.Errorf("port invoked %d times, want 1", len(port.calls))
	}
	if evaluator.gate.State() != gate.StateDone {
		t.Errorf("gate state = %v, want done", evaluator.gate.State())
	}
}

func TestRunSingleShotReleasesScannerGoroutine(t *testing.T) {
	port := &fakePort{}
	evaluator, _ := newTestEvaluator(t, port, gate.Options{Cooldown: 5 * time.Second, SingleShot: true})

	before := runtime.NumGoroutine()

	// Enough tail lines that the scanner is mid-stream, blocked on the
	// channel send, when the terminal state makes run return.
	input := strings.Repeat("GOODTOKEN\n", 1000)
	if err := evaluator.run(context.Background(), strings.NewReader(input)); err != nil {
		t.Fatalf("run: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for runtime.NumGoroutine() > before {
		if time.Now().After(deadline) {
			t.Fatalf("scanner goroutine still running: %d goroutines, started with %d",
				runtime.NumGoroutine(), before)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestRunPortFailureKeepsEvaluating(t *testing.T) {
	port := &fakePort{err: fmt.Errorf("open: %w", gate.ErrDeviceAbsent)}
	evaluator, fake := newTestEvaluator(t, port, gate.Options{Cooldown: 5 * time.Second})

	if done := evaluator.evaluate("GOODTOKEN"); done {
		t.Fatal("failed unlock must not terminate the loop")
	}
	if evaluator.gate.State() != gate.StateCooldown {
		t.Errorf("gate state = %v, want cooldown after failure", evaluator.gate.State())
	}

	// No retry during cooldown, one more attempt after it.
	evaluator.evaluate("GOODTOKEN")
	if len(port.calls) != 1 {
		t.Fatalf("port invoked %d times during cooldown, want 1", len(port.calls))
	}
	fake.Advance(6 * time.Second)
	evaluator.evaluate("GOODTOKEN")
	if len(port.calls) != 2 {
		t.Errorf("port invoked %d times after cooldown, want 2", len(port.calls))
	}
}

func TestRunCancelledContext(t *testing.T) {
	port := &fakePort{}
	evaluator, _ := newTestEvaluator(t, port, gate.Options{Cooldown: 5 * time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := evaluator.run(ctx, strings.NewReader("GOODTOKEN\n")); err != nil {
		t.Fatalf("run with cancelled context: %v", err)
	}
}

func TestEvaluateWritesAuditRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.cbor")
	auditLog, err := audit.Open(path)
	if err != nil {
		t.Fatalf("audit.Open: %v", err)
	}

	port := &fakePort{}
	evaluator, _ := newTestEvaluator(t, port, gate.Options{Cooldown: 5 * time.Second})
	evaluator.audit = auditLog

	evaluator.evaluate("GOODTOKEN")
	auditLog.Close()

	records, err := audit.Read(path)
	if err != nil {
		t.Fatalf("audit.Read: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d audit records, want 1", len(records))
	}
	if records[0].Outcome != "unlocked" {
		t.Errorf("Outcome = %q, want unlocked", records[0].Outcome)
	}
	if records[0].CandidateDigest != audit.Digest("GOODTOKEN") {
		t.Errorf("CandidateDigest = %q, want digest of the proof", records[0].CandidateDigest)
	}
	if records[0].CandidateDigest == "GOODTOKEN" {
		t.Error("audit record stored the candidate verbatim")
	}
}

func TestFailureClass(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("x: %w", gate.ErrUnauthorized), "unauthorized"},
		{fmt.Errorf("x: %w", gate.ErrDeviceAbsent), "device-absent"},
		{fmt.Errorf("device busy"), "transient"},
	}
	for _, test := range tests {
		if got := failureClass(test.err); got != test.want {
			t.Errorf("failureClass(%v) = %q, want %q", test.err, got, test.want)
		}
	}
}
