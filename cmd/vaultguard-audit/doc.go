// Copyright 2026 The Vaultguard Authors
// SPDX-License-Identifier: Apache-2.0

// Vaultguard-audit reads a guard audit log and prints its records,
// either as an aligned table for operators or as JSON lines (--json)
// for downstream tooling. The log itself is an append-only CBOR
// stream; this tool is the only reader shipped with vaultguard.
package main
