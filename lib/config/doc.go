// Copyright 2026 The Vaultguard Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for vaultguard
// processes.
//
// Configuration is loaded from a single YAML file specified by:
//   - VAULTGUARD_CONFIG environment variable, or
//   - --config flag passed to the command
//
// There are no fallbacks or automatic discovery, and environment
// variables never override file values, so the effective configuration
// of a running guard is always the file it was pointed at.
//
// Configuration errors are fatal at startup: the guard refuses to run
// with a missing secret, a degenerate rotation period, or an empty
// acceptance window rather than operate with weakened validation.
package config
