// Copyright 2026 The Vaultguard Authors
// SPDX-License-Identifier: Apache-2.0

package totp

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"strings"
	"testing"
	"time"
)

var testKey = []byte("TESTKEY")

// referenceProof derives the expected proof independently of the
// package under test: HMAC-SHA256 over the big-endian block counter,
// first 8 hex characters, uppercased.
func referenceProof(t *testing.T, secretKey []byte, block uint64) string {
	t.Helper()
	var message [8]byte
	binary.BigEndian.PutUint64(message[:], block)
	mac := hmac.New(sha256.New, secretKey)
	mac.Write(message[:])
	return strings.ToUpper(hex.EncodeToString(mac.Sum(nil)))[:8]
}

func TestProofAtMatchesReferenceDerivation(t *testing.T) {
	scheme := DefaultScheme()

	// t=90 with a 30-second period is block 3.
	instant := time.Unix(90, 0)
	if got := scheme.Block(instant); got != 3 {
		t.Fatalf("Block(t=90) = %d, want 3", got)
	}

	want := referenceProof(t, testKey, 3)
	if got := scheme.ProofAt(testKey, instant); got != want {
		t.Errorf("ProofAt = %q, want %q", got, want)
	}
}

func TestProofAtDeterministic(t *testing.T) {
	scheme := DefaultScheme()
	instant := time.Unix(1767225600, 0)

	first := scheme.ProofAt(testKey, instant)
	second := scheme.ProofAt(testKey, instant)
	if first != second {
		t.Errorf("two calls with identical inputs differ: %q vs %q", first, second)
	}

	if len(first) != ProofLength {
		t.Errorf("proof length = %d, want %d", len(first), ProofLength)
	}
	if first != strings.ToUpper(first) {
		t.Errorf("proof %q is not uppercase", first)
	}
}

func TestProofChangesAcrossBlocks(t *testing.T) {
	scheme := DefaultScheme()

	current := scheme.ProofAt(testKey, time.Unix(90, 0))
	next := scheme.ProofAt(testKey, time.Unix(120, 0))
	if current == next {
		t.Error("consecutive blocks produced the same proof")
	}

	// Same block, different instants.
	early := scheme.ProofAt(testKey, time.Unix(90, 0))
	late := scheme.ProofAt(testKey, time.Unix(119, 0))
	if early != late {
		t.Errorf("instants in the same block differ: %q vs %q", early, late)
	}
}

func TestUntilRotation(t *testing.T) {
	scheme := DefaultScheme()

	tests := []struct {
		unix int64
		want time.Duration
	}{
		{90, 30 * time.Second},
		{91, 29 * time.Second},
		{119, 1 * time.Second},
	}
	for _, test := range tests {
		if got := scheme.UntilRotation(time.Unix(test.unix, 0)); got != test.want {
			t.Errorf("UntilRotation(t=%d) = %v, want %v", test.unix, got, test.want)
		}
	}
}

func TestSchemeValidate(t *testing.T) {
	tests := []struct {
		name    string
		scheme  Scheme
		wantErr bool
	}{
		{"default", DefaultScheme(), false},
		{"one second period", Scheme{Period: time.Second, Window: 1}, false},
		{"zero period", Scheme{Period: 0, Window: 2}, true},
		{"negative period", Scheme{Period: -time.Second, Window: 2}, true},
		{"sub-second period", Scheme{Period: 1500 * time.Millisecond, Window: 2}, true},
		{"zero window", Scheme{Period: 30 * time.Second, Window: 0}, true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.scheme.Validate()
			if (err != nil) != test.wantErr {
				t.Errorf("Validate() error = %v, wantErr = %v", err, test.wantErr)
			}
		})
	}
}
