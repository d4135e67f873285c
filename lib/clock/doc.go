// Copyright 2026 The Vaultguard Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time abstraction for testability.
//
// Production code accepts a Clock interface parameter instead of calling
// time.Now, time.After, time.NewTicker, or time.Sleep directly. In
// production, Real() provides the standard library behavior. In tests,
// Fake() provides a deterministic clock that advances only when Advance
// is called.
//
// The guard's unlock gate compares wall-clock instants for cooldown
// expiry, and the token feed ticks once per second for its countdown
// display. Both take a Clock so tests can walk time across proof
// rotation and cooldown boundaries without sleeping.
package clock
