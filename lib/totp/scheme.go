// Copyright 2026 The Vaultguard Authors
// SPDX-License-Identifier: Apache-2.0

package totp

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

const (
	// DefaultPeriod is the proof rotation interval.
	DefaultPeriod = 30 * time.Second

	// DefaultWindow is the number of time blocks accepted during
	// validation: the current block plus DefaultWindow-1 previous
	// blocks. This is the scheme's total replay tolerance: between
	// zero and one full period of evaluator latency is tolerated, so
	// a proof minted right after a block boundary remains acceptable
	// for up to two periods.
	DefaultWindow = 2

	// ProofLength is the number of hex characters in a proof: 32 bits
	// of the 256-bit keyed digest.
	ProofLength = 8
)

// Scheme fixes the proof derivation policy: how often proofs rotate
// and how many past blocks a verifier accepts. Both sides of a
// deployment must share the same Scheme, just like the secret.
type Scheme struct {
	// Period is the rotation interval. Must be a positive whole
	// number of seconds.
	Period time.Duration

	// Window is the number of blocks accepted at validation time
	// (current plus Window-1 previous). Must be at least 1.
	Window int
}

// DefaultScheme returns the reference policy: 30-second rotation,
// two-block acceptance window.
func DefaultScheme() Scheme {
	return Scheme{Period: DefaultPeriod, Window: DefaultWindow}
}

// Validate rejects degenerate schemes. A non-positive or sub-second
// period, or a window below 1, produces a scheme that either never
// rotates meaningfully or never validates; the process must refuse to
// start rather than run with one.
func (s Scheme) Validate() error {
	if s.Period < time.Second {
		return fmt.Errorf("totp: period must be at least one second, got %v", s.Period)
	}
	if s.Period%time.Second != 0 {
		return fmt.Errorf("totp: period must be a whole number of seconds, got %v", s.Period)
	}
	if s.Window < 1 {
		return fmt.Errorf("totp: window must be at least 1, got %d", s.Window)
	}
	return nil
}

// Block returns the time block counter for the given instant:
// floor(unix_time / period). Two instants within the same period map
// to the same block, and the counter never decreases as time advances.
func (s Scheme) Block(t time.Time) uint64 {
	return uint64(t.Unix() / int64(s.Period/time.Second))
}

// ProofAt returns the proof for the instant t. Pure function of
// (secret, t): identical inputs always yield the identical proof.
func (s Scheme) ProofAt(secretKey []byte, t time.Time) string {
	return s.proofForBlock(secretKey, s.Block(t))
}

// proofForBlock derives the proof for one block counter value: the
// first ProofLength uppercase hex characters of HMAC-SHA256(secret,
// big_endian_u64(block)).
func (s Scheme) proofForBlock(secretKey []byte, block uint64) string {
	var message [8]byte
	binary.BigEndian.PutUint64(message[:], block)

	mac := hmac.New(sha256.New, secretKey)
	mac.Write(message[:])
	digest := mac.Sum(nil)

	return strings.ToUpper(hex.EncodeToString(digest))[:ProofLength]
}

// UntilRotation returns how long after t the current proof stops being
// the freshest one. Purely informational (countdown display); the
// verifier's previous-block tolerance means a proof does not become
// invalid the instant this reaches zero.
func (s Scheme) UntilRotation(t time.Time) time.Duration {
	periodSeconds := int64(s.Period / time.Second)
	remaining := periodSeconds - t.Unix()%periodSeconds
	return time.Duration(remaining) * time.Second
}
