// Copyright 2026 The Vaultguard Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
)

// openCandidateSource returns the candidate stream: the stdout of a
// spawned decoder subprocess when a command is configured, the guard's
// own stdin otherwise. The returned cleanup reaps the child (if any)
// and is safe to call after the context is cancelled.
func openCandidateSource(ctx context.Context, command []string, logger *slog.Logger) (io.Reader, func(), error) {
	if len(command) == 0 {
		logger.Info("reading candidates from stdin")
		return os.Stdin, func() {}, nil
	}

	child := exec.CommandContext(ctx, command[0], command[1:]...)
	child.Stderr = os.Stderr

	stdout, err := child.StdoutPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("decoder stdout pipe: %w", err)
	}
	if err := child.Start(); err != nil {
		return nil, nil, fmt.Errorf("starting decoder %q: %w", command[0], err)
	}
	logger.Info("decoder started", "command", command[0], "pid", child.Process.Pid)

	cleanup := func() {
		// CommandContext kills the child on cancellation; Wait just
		// reaps it. A non-zero exit at shutdown is expected.
		if err := child.Wait(); err != nil && ctx.Err() == nil {
			logger.Warn("decoder exited", "error", err)
		}
	}
	return stdout, cleanup, nil
}
