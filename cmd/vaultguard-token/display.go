// Copyright 2026 The Vaultguard Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/blackboxvault/vaultguard/lib/clock"
	"github.com/blackboxvault/vaultguard/lib/totp"
)

// displayLoop polls once per second and writes the proof feed to out.
// A new proof line is emitted only when the block rotates; the
// countdown line is rewritten in place and only in interactive mode,
// so a piped consumer sees exactly one line per rotation.
func displayLoop(ctx context.Context, clk clock.Clock, rotator *totp.Rotator, out io.Writer, interactive bool) error {
	renderTick(rotator, clk.Now(), out, interactive)

	ticker := clk.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if interactive {
				fmt.Fprintln(out)
			}
			return nil
		case now := <-ticker.C:
			renderTick(rotator, now, out, interactive)
		}
	}
}

// renderTick emits one poll's worth of output: the proof when it
// rotated, then the countdown in interactive mode.
func renderTick(rotator *totp.Rotator, now time.Time, out io.Writer, interactive bool) {
	proof, rotated := rotator.Current(now)
	if rotated {
		if interactive {
			// Clear the countdown line before the proof.
			fmt.Fprint(out, "\r\x1b[K")
		}
		fmt.Fprintln(out, proof)
	}
	if interactive {
		fmt.Fprintf(out, "\rrotates in %2ds", int(rotator.UntilRotation(now)/time.Second))
	}
}
