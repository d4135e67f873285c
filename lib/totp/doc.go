// Copyright 2026 The Vaultguard Authors
// SPDX-License-Identifier: Apache-2.0

// Package totp derives and validates the rotating unlock proof.
//
// A proof is the uppercase hex prefix (8 characters, 32 bits) of
// HMAC-SHA256 over the big-endian 64-bit time block counter, keyed by
// the shared secret. The block counter is floor(unix_time / period),
// so the proof rotates once per period and both sides derive the same
// value from the secret and their clocks alone. Nothing is ever
// transmitted except the proof itself, over the optical channel.
//
// Validation accepts the proofs of the current block and the previous
// Window-1 blocks. With the default Window of 2 this tolerates up to
// one full period of scan/decode latency or clock skew; a proof
// generated just after a block boundary is therefore acceptable for up
// to two periods in the worst case. Nothing from future blocks is ever
// accepted. The window width is an explicit policy constant, not a
// hard-coded "2".
//
// All comparisons against secret-derived values are constant-time,
// with no early exit across the acceptance window.
package totp
