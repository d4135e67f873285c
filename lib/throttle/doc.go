// Copyright 2026 The Vaultguard Authors
// SPDX-License-Identifier: Apache-2.0

// Package throttle rate-limits repetitive log output. The optical
// decoder re-reports an invalid code on every capture frame; logging
// each frame would bury the signal. This is a presentation concern
// only; it sits outside the trust decision and never influences
// whether a candidate is accepted.
package throttle
