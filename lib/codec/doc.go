// Copyright 2026 The Vaultguard Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec centralizes CBOR encoding configuration. All persisted
// records (the audit log) go through this package so that encoding
// options are set in exactly one place.
//
// Encoding uses Core Deterministic Encoding (RFC 8949 §4.2): the same
// logical record always produces identical bytes, which keeps audit
// files diffable and digests stable.
package codec
