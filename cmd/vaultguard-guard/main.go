// Copyright 2026 The Vaultguard Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/blackboxvault/vaultguard/lib/audit"
	"github.com/blackboxvault/vaultguard/lib/clock"
	"github.com/blackboxvault/vaultguard/lib/config"
	"github.com/blackboxvault/vaultguard/lib/gate"
	"github.com/blackboxvault/vaultguard/lib/secret"
	"github.com/blackboxvault/vaultguard/lib/throttle"
	"github.com/blackboxvault/vaultguard/lib/totp"
	"github.com/blackboxvault/vaultguard/lib/vaultdev"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet("vaultguard-guard", pflag.ContinueOnError)
	var (
		configPath  = flags.String("config", "", "path to vaultguard.yaml (default: $VAULTGUARD_CONFIG)")
		secretPath  = flags.String("secret", "", "shared secret file, or - for stdin")
		staticToken = flags.String("static-token", "", "accept a single fixed literal instead of rotating proofs")
		period      = flags.String("period", "", "proof rotation interval (e.g. 30s)")
		window      = flags.Int("window", 0, "number of time blocks accepted (current + window-1 previous)")
		cooldown    = flags.String("cooldown", "", "minimum interval between unlock triggers (e.g. 5s)")
		singleShot  = flags.Bool("single-shot", false, "exit after the first unlock attempt")
		pin         = flags.Uint32("pin", 0, "unlock PIN delivered to the vault device")
		devicePath  = flags.String("device", "", "vault character device path")
		auditPath   = flags.String("audit-log", "", "append-only audit log file")
		decoder     = flags.StringSlice("decoder", nil, "decoder command to spawn; its stdout lines are candidates")
		debug       = flags.Bool("debug", false, "enable debug logging")
	)
	if err := flags.Parse(args); err != nil {
		return err
	}

	logLevel := slog.LevelInfo
	if *debug || os.Getenv("VAULTGUARD_DEBUG") != "" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	// Flags override the file for the fields that were set.
	if flags.Changed("secret") {
		cfg.SecretPath = *secretPath
	}
	if flags.Changed("static-token") {
		cfg.StaticToken = *staticToken
	}
	if flags.Changed("period") {
		cfg.Period = *period
	}
	if flags.Changed("window") {
		cfg.Window = *window
	}
	if flags.Changed("cooldown") {
		cfg.Cooldown = *cooldown
	}
	if flags.Changed("single-shot") {
		cfg.SingleShot = *singleShot
	}
	if flags.Changed("pin") {
		cfg.PIN = *pin
	}
	if flags.Changed("device") {
		cfg.DevicePath = *devicePath
	}
	if flags.Changed("audit-log") {
		cfg.AuditLog = *auditPath
	}
	if flags.Changed("decoder") {
		cfg.DecoderCommand = *decoder
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Assemble the validator: rotating proofs by default, the static
	// literal in the degenerate mode.
	var validator totp.Validator
	if cfg.StaticToken != "" {
		validator = totp.Static(cfg.StaticToken)
		logger.Info("static-secret mode: proofs do not rotate")
	} else {
		scheme, err := cfg.Scheme()
		if err != nil {
			return err
		}
		secretBuffer, err := secret.ReadFromPath(cfg.SecretPath)
		if err != nil {
			return fmt.Errorf("reading shared secret: %w", err)
		}
		defer secretBuffer.Close()
		validator = totp.NewValidator(scheme, secretBuffer)
		logger.Info("shared secret loaded",
			"fingerprint", secretBuffer.Fingerprint(),
			"period", scheme.Period,
			"window", scheme.Window)
	}

	cooldownPeriod, err := cfg.CooldownDuration()
	if err != nil {
		return err
	}
	rejectInterval, err := cfg.RejectInterval()
	if err != nil {
		return err
	}

	unlockGate, err := gate.New(gate.Options{
		Port:       vaultdev.New(cfg.DevicePath),
		PIN:        cfg.PIN,
		Cooldown:   cooldownPeriod,
		SingleShot: cfg.SingleShot,
	})
	if err != nil {
		return err
	}

	var auditLog *audit.Log
	if cfg.AuditLog != "" {
		auditLog, err = audit.Open(cfg.AuditLog)
		if err != nil {
			return err
		}
		defer auditLog.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	candidates, cleanup, err := openCandidateSource(ctx, cfg.DecoderCommand, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	evaluator := &evaluator{
		validator: validator,
		gate:      unlockGate,
		clock:     clock.Real(),
		logger:    logger,
		rejects:   throttle.New(rejectInterval, nil),
		audit:     auditLog,
	}

	logger.Info("guard started",
		"device", cfg.DevicePath,
		"cooldown", cooldownPeriod,
		"single_shot", cfg.SingleShot)

	return evaluator.run(ctx, candidates)
}

// loadConfig loads the config file named by the flag, by the
// environment, or falls back to defaults when neither names one.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	if os.Getenv("VAULTGUARD_CONFIG") != "" {
		return config.Load()
	}
	return config.Default(), nil
}
