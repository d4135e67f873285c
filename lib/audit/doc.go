// Copyright 2026 The Vaultguard Authors
// SPDX-License-Identifier: Apache-2.0

// Package audit records gate episodes to an append-only file of CBOR
// records. One record per noteworthy event: an unlock trigger, a
// classified port failure, a rejected candidate burst.
//
// Candidates never appear in the log verbatim. A rejected candidate is
// attacker-controlled input and an accepted one is a still-valid proof;
// both are stored only as a short unkeyed BLAKE3 digest, enough to
// correlate repeat presentations without retaining the material.
package audit
