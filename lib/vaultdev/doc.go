// Copyright 2026 The Vaultguard Authors
// SPDX-License-Identifier: Apache-2.0

// Package vaultdev implements the unlock port against the vault
// character device. The vault is a separate trusted kernel driver that
// holds the protected payload; unlocking it is a single ioctl carrying
// a fixed 4-byte PIN, and the driver re-locks itself on its own timer.
//
// The ioctl request code and PIN width are part of the driver's ABI
// and pinned here explicitly: the kernel copies a native-order 32-bit
// integer from the pointer argument, so the PIN travels in the
// platform's native byte order, matching what the driver compiled on
// the same platform expects.
package vaultdev
