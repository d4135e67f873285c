// Copyright 2026 The Vaultguard Authors
// SPDX-License-Identifier: Apache-2.0

package vaultdev

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/blackboxvault/vaultguard/lib/gate"
)

// DefaultPath is where the vault driver registers its character device.
const DefaultPath = "/dev/secret_vault"

// unlockRequest is the driver's unlock ioctl: _IOW('v', 1, int).
const unlockRequest = 0x40047601

// Device is a gate.Port backed by the vault character device. The
// device is opened per request rather than held open: the driver
// auto-relocks on a timer, and a long-lived descriptor would only mask
// device-absent failures until the next unlock attempt.
type Device struct {
	path string
}

var _ gate.Port = (*Device)(nil)

// New returns a Device for the given path, or DefaultPath if empty.
func New(path string) *Device {
	if path == "" {
		path = DefaultPath
	}
	return &Device{path: path}
}

// Path returns the device path.
func (d *Device) Path() string { return d.path }

// RequestUnlock opens the device and issues the unlock ioctl with the
// PIN. Failures are classified for the gate: permission problems map
// to gate.ErrUnauthorized, a missing or unregistered device to
// gate.ErrDeviceAbsent, anything else stays transient.
func (d *Device) RequestUnlock(pin uint32) error {
	fd, err := unix.Open(d.path, unix.O_RDWR, 0)
	if err != nil {
		return classify(fmt.Sprintf("opening %s", d.path), err)
	}
	defer unix.Close(fd)

	// The driver reads a native-order int through the pointer.
	if err := unix.IoctlSetPointerInt(fd, unlockRequest, int(pin)); err != nil {
		return classify("unlock ioctl", err)
	}
	return nil
}

// classify maps errno values onto the gate's failure taxonomy.
func classify(operation string, err error) error {
	switch {
	case errors.Is(err, unix.EACCES), errors.Is(err, unix.EPERM):
		return fmt.Errorf("%s: %w: %w", operation, gate.ErrUnauthorized, err)
	case errors.Is(err, unix.ENOENT), errors.Is(err, unix.ENODEV), errors.Is(err, unix.ENXIO):
		return fmt.Errorf("%s: %w: %w", operation, gate.ErrDeviceAbsent, err)
	default:
		return fmt.Errorf("%s: %w", operation, err)
	}
}
