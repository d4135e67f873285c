// Copyright 2026 The Vaultguard Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/blackboxvault/vaultguard/lib/clock"
	"github.com/blackboxvault/vaultguard/lib/config"
	"github.com/blackboxvault/vaultguard/lib/secret"
	"github.com/blackboxvault/vaultguard/lib/totp"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet("vaultguard-token", pflag.ContinueOnError)
	var (
		configPath = flags.String("config", "", "path to vaultguard.yaml (default: $VAULTGUARD_CONFIG)")
		secretPath = flags.String("secret", "", "shared secret file, or - for stdin")
		period     = flags.String("period", "", "proof rotation interval (e.g. 30s)")
		once       = flags.Bool("once", false, "print the current proof and exit")
	)
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if flags.Changed("secret") {
		cfg.SecretPath = *secretPath
	}
	if flags.Changed("period") {
		cfg.Period = *period
	}
	if cfg.SecretPath == "" {
		return fmt.Errorf("a shared secret is required (--secret or secret_path)")
	}

	scheme, err := cfg.Scheme()
	if err != nil {
		return err
	}
	if err := scheme.Validate(); err != nil {
		return err
	}

	secretBuffer, err := secret.ReadFromPath(cfg.SecretPath)
	if err != nil {
		return fmt.Errorf("reading shared secret: %w", err)
	}
	defer secretBuffer.Close()

	rotator := totp.NewRotator(scheme, secretBuffer)
	clk := clock.Real()

	if *once {
		proof, _ := rotator.Current(clk.Now())
		fmt.Println(proof)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	interactive := term.IsTerminal(int(os.Stdout.Fd()))
	return displayLoop(ctx, clk, rotator, os.Stdout, interactive)
}

// loadConfig mirrors the guard's loading order: explicit flag, then
// environment, then defaults.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	if os.Getenv("VAULTGUARD_CONFIG") != "" {
		return config.Load()
	}
	return config.Default(), nil
}
