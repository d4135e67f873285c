// Copyright 2026 The Vaultguard Authors
// SPDX-License-Identifier: Apache-2.0

package totp

import (
	"crypto/subtle"
	"time"

	"github.com/blackboxvault/vaultguard/lib/secret"
)

// Validator decides whether a candidate string is an acceptable proof
// at a given instant. Candidates come from an external optical decoder
// and are attacker-controlled: any string of any length is a legal
// input, and the only possible outcomes are accept or reject. A
// malformed candidate is never an error.
type Validator interface {
	Valid(candidate string, now time.Time) bool
}

// NewValidator returns a Validator that accepts candidates matching
// any proof in the scheme's acceptance window, derived from the shared
// secret held in buffer. The window is recomputed on every call so it
// always reflects the current instant; nothing is cached across calls.
func NewValidator(scheme Scheme, buffer *secret.Buffer) Validator {
	return &schemeValidator{scheme: scheme, secret: buffer}
}

type schemeValidator struct {
	scheme Scheme
	secret *secret.Buffer
}

// Valid reports membership of candidate in the acceptance window at
// now. The comparison is exact (case-sensitive, whitespace-preserving)
// and constant-time with respect to the derived proofs: every window
// element is compared with subtle.ConstantTimeCompare and the results
// are accumulated without early exit.
func (v *schemeValidator) Valid(candidate string, now time.Time) bool {
	return v.scheme.ValidAt(v.secret.Bytes(), candidate, now)
}

// ValidAt is the validation primitive underneath Validator: membership
// of candidate in {proof(block), proof(block-1), ... proof(block-Window+1)}
// at the instant now.
func (s Scheme) ValidAt(secretKey []byte, candidate string, now time.Time) bool {
	block := s.Block(now)

	match := 0
	for offset := 0; offset < s.Window; offset++ {
		if uint64(offset) > block {
			// Counter underflow near the epoch; no earlier blocks exist.
			break
		}
		proof := s.proofForBlock(secretKey, block-uint64(offset))
		match |= subtle.ConstantTimeCompare([]byte(candidate), []byte(proof))
	}
	return match == 1
}

// Static returns a Validator that accepts exactly one fixed literal,
// ignoring time. This is the degenerate static-secret configuration of
// the scheme (period effectively infinite): same interface, same
// constant-time comparison, no rotation.
func Static(literal string) Validator {
	return staticValidator(literal)
}

type staticValidator string

func (v staticValidator) Valid(candidate string, _ time.Time) bool {
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(v)) == 1
}
