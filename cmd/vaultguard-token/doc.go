// Copyright 2026 The Vaultguard Authors
// SPDX-License-Identifier: Apache-2.0

// Vaultguard-token is the holder side of the optical unlock system. It
// derives the rotating proof from the shared secret and emits it on
// stdout whenever the time block changes, for an external renderer to
// turn into a scannable code. When stdout is a terminal it also shows
// a once-per-second countdown to the next rotation.
//
// With --once it prints the current proof and exits, which is the
// building block for shell pipelines:
//
//	vaultguard-token --secret /etc/vaultguard/secret --once | qrencode -t ansiutf8
package main
