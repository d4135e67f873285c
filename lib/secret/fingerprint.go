// Copyright 2026 The Vaultguard Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// fingerprintLength is the number of digest bytes exposed. 8 bytes
// (16 hex characters) is enough to compare two provisioned deployments
// by eye while revealing nothing useful about the secret.
const fingerprintLength = 8

// Fingerprint returns a short hex digest of the buffer's contents for
// operator-facing output. The digest is a truncated BLAKE3 hash: it
// identifies the secret without revealing it, so two deployments can
// confirm they hold the same provisioned value.
func (b *Buffer) Fingerprint() string {
	sum := blake3.Sum256(b.Bytes())
	return hex.EncodeToString(sum[:fingerprintLength])
}
