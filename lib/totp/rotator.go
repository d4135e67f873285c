// Copyright 2026 The Vaultguard Authors
// SPDX-License-Identifier: Apache-2.0

package totp

import (
	"time"

	"github.com/blackboxvault/vaultguard/lib/secret"
)

// Rotator tracks block changes for the token display side, so the
// caller re-renders only when the proof actually rotates instead of on
// every poll tick. This is purely a rendering optimization: the proof
// value returned by Current is always the live derivation, and
// validation never depends on what a Rotator remembers.
type Rotator struct {
	scheme Scheme
	secret *secret.Buffer

	lastBlock uint64
	seen      bool
}

// NewRotator returns a Rotator for the given scheme and secret.
func NewRotator(scheme Scheme, buffer *secret.Buffer) *Rotator {
	return &Rotator{scheme: scheme, secret: buffer}
}

// Current returns the proof for now and whether the time block changed
// since the previous call. The first call always reports rotated=true.
func (r *Rotator) Current(now time.Time) (proof string, rotated bool) {
	block := r.scheme.Block(now)
	rotated = !r.seen || block != r.lastBlock
	r.lastBlock = block
	r.seen = true
	return r.scheme.ProofAt(r.secret.Bytes(), now), rotated
}

// UntilRotation returns the time remaining until the next block
// boundary, for countdown display.
func (r *Rotator) UntilRotation(now time.Time) time.Duration {
	return r.scheme.UntilRotation(now)
}
