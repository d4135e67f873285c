// Copyright 2026 The Vaultguard Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret holds the shared unlock secret in memory that is safe
// against the usual leak paths: the buffer is allocated outside the Go
// heap via mmap(MAP_ANONYMOUS), locked into physical RAM via mlock
// (never swapped), excluded from core dumps via madvise(MADV_DONTDUMP),
// and zeroed on Close.
//
// The shared secret is the entire trust root of the proof scheme:
// whoever holds it can mint valid proofs. It is provisioned out-of-band
// (a file or stdin), lives for the process lifetime, and must never
// appear in logs or on any wire. Fingerprint provides a short
// non-reversible digest for operator-facing output when two deployments
// need to confirm they were provisioned with the same secret.
package secret
