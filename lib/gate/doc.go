// Copyright 2026 The Vaultguard Authors
// SPDX-License-Identifier: Apache-2.0

// Package gate converts a stream of per-frame validation verdicts into
// bounded unlock commands.
//
// The optical decoder re-reports a code on every capture frame, tens of
// times per second, while a proof stays valid for a full rotation
// period. Without a gate between "valid proof seen" and "unlock
// executed", a code held up to the camera would issue dozens of
// redundant privileged commands. The gate enforces exactly one unlock
// per acceptance episode and a cooldown before the next episode can
// begin.
//
// The gate is driven by a single evaluator goroutine and is not
// internally synchronized. If a deployment ever parallelizes decoding,
// callers must serialize Offer: at-most-one-trigger is a correctness
// invariant, not a cosmetic one.
package gate
