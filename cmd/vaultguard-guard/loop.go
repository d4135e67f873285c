// Copyright 2026 The Vaultguard Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/blackboxvault/vaultguard/lib/audit"
	"github.com/blackboxvault/vaultguard/lib/clock"
	"github.com/blackboxvault/vaultguard/lib/gate"
	"github.com/blackboxvault/vaultguard/lib/throttle"
	"github.com/blackboxvault/vaultguard/lib/totp"
)

// maxCandidateLength caps one decoder line. Candidates are untrusted
// input; a proof is 8 characters, so anything near this limit is junk,
// but it is rejected by validation rather than treated as an error.
const maxCandidateLength = 1 << 20

// evaluator wires one candidate stream to the validator and gate. It
// is the single evaluation thread the gate's correctness depends on:
// candidates are processed strictly in arrival order, one at a time.
type evaluator struct {
	validator totp.Validator
	gate      *gate.Gate
	clock     clock.Clock
	logger    *slog.Logger
	rejects   *throttle.Limiter
	audit     *audit.Log
}

// run consumes candidate lines until the source closes, the context is
// cancelled, or the gate reaches its terminal state.
func (e *evaluator) run(ctx context.Context, source io.Reader) error {
	// Derived context so that returning for any reason (terminal gate
	// state, read error) releases a scanner goroutine blocked on the
	// lines send. A goroutine blocked inside source.Read is freed when
	// the source itself closes.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)

	go func() {
		scanner := bufio.NewScanner(source)
		scanner.Buffer(make([]byte, 0, 64*1024), maxCandidateLength)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
		close(lines)
	}()

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("guard stopping")
			return nil
		case candidate, ok := <-lines:
			if !ok {
				err := <-readErr
				if err != nil && !errors.Is(err, io.ErrClosedPipe) {
					return err
				}
				return nil
			}
			// Decoders emit blank lines between detections; they
			// carry no candidate.
			if candidate == "" {
				continue
			}
			if e.evaluate(candidate) {
				e.logger.Info("single-shot attempt finished, exiting")
				return nil
			}
		}
	}
}

// evaluate runs one candidate through the validator and gate and
// reports whether the gate reached its terminal state.
func (e *evaluator) evaluate(candidate string) (done bool) {
	now := e.clock.Now()
	verdict := e.validator.Valid(candidate, now)
	outcome, err := e.gate.Offer(verdict)

	switch outcome {
	case gate.OutcomeUnlocked:
		e.logger.Info("valid proof, vault unlocked",
			"candidate_digest", audit.Digest(candidate))
		e.record(audit.Record{
			Time:            now.Unix(),
			Outcome:         outcome.String(),
			CandidateDigest: audit.Digest(candidate),
		})

	case gate.OutcomeUnlockFailed:
		e.logger.Error("valid proof but unlock failed",
			"class", failureClass(err),
			"error", err,
			"cooldown", e.gate.CooldownRemaining())
		e.record(audit.Record{
			Time:            now.Unix(),
			Outcome:         outcome.String(),
			CandidateDigest: audit.Digest(candidate),
			Detail:          failureClass(err),
		})

	case gate.OutcomeRejected:
		// Low-noise feedback: one line per interval, with the count
		// of frames swallowed since the last one.
		if ok, suppressed := e.rejects.Allow(); ok {
			e.logger.Warn("invalid or expired candidate",
				"candidate_digest", audit.Digest(candidate),
				"suppressed", suppressed)
		}

	case gate.OutcomeSuppressed:
		e.logger.Debug("candidate during cooldown",
			"remaining", e.gate.CooldownRemaining())
	}

	return e.gate.State() == gate.StateDone
}

// record appends to the audit log when one is configured. Audit
// failures are logged but never interrupt evaluation.
func (e *evaluator) record(record audit.Record) {
	if e.audit == nil {
		return
	}
	if err := e.audit.Append(record); err != nil {
		e.logger.Error("audit append failed", "error", err)
	}
}

// failureClass names the port failure class for logs and audit records.
func failureClass(err error) string {
	switch {
	case errors.Is(err, gate.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, gate.ErrDeviceAbsent):
		return "device-absent"
	default:
		return "transient"
	}
}
