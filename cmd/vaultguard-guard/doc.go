// Copyright 2026 The Vaultguard Authors
// SPDX-License-Identifier: Apache-2.0

// Vaultguard-guard is the verifier side of the optical unlock system.
// It consumes candidate strings from an external optical decoder (its
// stdin, or a spawned decoder subprocess), validates each against the
// rotating proof derived from the shared secret, and on a valid proof
// issues exactly one unlock command to the vault device, rate-limited
// by a cooldown.
//
// The guard never renders or decodes optical codes itself and never
// transmits anything over a network; proofs travel only through the
// optical channel between the token display and the decoder.
package main
