// Copyright 2026 The Vaultguard Authors
// SPDX-License-Identifier: Apache-2.0

package audit

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/zeebo/blake3"

	"github.com/blackboxvault/vaultguard/lib/codec"
)

// digestLength is the number of digest bytes stored per candidate.
const digestLength = 8

// Record is one audit event. Encoded as deterministic CBOR with
// integer keys to keep the log compact.
type Record struct {
	// Time is the event instant as a Unix timestamp in seconds.
	Time int64 `cbor:"1,keyasint"`

	// Outcome is the gate outcome string ("unlocked",
	// "unlock-failed", "rejected", ...).
	Outcome string `cbor:"2,keyasint"`

	// CandidateDigest is the truncated BLAKE3 digest of the candidate
	// that produced the event, hex-encoded. Empty when no candidate
	// was involved.
	CandidateDigest string `cbor:"3,keyasint,omitempty"`

	// Detail carries the classified failure message or a suppression
	// count, free-form.
	Detail string `cbor:"4,keyasint,omitempty"`
}

// Digest returns the truncated hex BLAKE3 digest of a candidate for
// storage in a Record.
func Digest(candidate string) string {
	sum := blake3.Sum256([]byte(candidate))
	return hex.EncodeToString(sum[:digestLength])
}

// Log is an append-only audit log. Safe for concurrent appends.
type Log struct {
	mu      sync.Mutex
	file    *os.File
	encoder *codec.Encoder
}

// Open opens (creating if necessary) the audit log at path for
// appending. The file is created with mode 0600.
func Open(path string) (*Log, error) {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("audit: opening log: %w", err)
	}
	return &Log{
		file:    file,
		encoder: codec.NewEncoder(file),
	}, nil
}

// Append writes one record. CBOR items are self-delimiting, so records
// are simply concatenated; a reader decodes until EOF.
func (l *Log) Append(record Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return errors.New("audit: log is closed")
	}
	if err := l.encoder.Encode(record); err != nil {
		return fmt.Errorf("audit: appending record: %w", err)
	}
	return nil
}

// Close closes the underlying file. Idempotent.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// Read decodes every record in the log at path.
func Read(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("audit: opening log: %w", err)
	}
	defer file.Close()

	decoder := codec.NewDecoder(file)
	var records []Record
	for {
		var record Record
		if err := decoder.Decode(&record); err != nil {
			if errors.Is(err, io.EOF) {
				return records, nil
			}
			return records, fmt.Errorf("audit: decoding record %d: %w", len(records), err)
		}
		records = append(records, record)
	}
}
