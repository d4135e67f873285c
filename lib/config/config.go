// Copyright 2026 The Vaultguard Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/blackboxvault/vaultguard/lib/totp"
	"github.com/blackboxvault/vaultguard/lib/vaultdev"
)

// Config is the configuration shared by the guard and token processes.
// Durations are strings in time.ParseDuration syntax ("30s", "5s").
type Config struct {
	// SecretPath is the file holding the shared secret, or "-" for
	// stdin. Required unless StaticToken is set.
	SecretPath string `yaml:"secret_path"`

	// StaticToken switches the guard to the degenerate static-secret
	// mode: a single fixed literal is the only accepted candidate and
	// nothing rotates. Mutually exclusive with SecretPath.
	StaticToken string `yaml:"static_token"`

	// Period is the proof rotation interval. Default "30s".
	Period string `yaml:"period"`

	// Window is the number of time blocks accepted at validation:
	// the current block plus Window-1 previous ones. Default 2.
	Window int `yaml:"window"`

	// Cooldown is the minimum interval between unlock triggers.
	// Default "5s".
	Cooldown string `yaml:"cooldown"`

	// SingleShot stops the guard after the first unlock attempt
	// instead of entering cooldown.
	SingleShot bool `yaml:"single_shot"`

	// PIN is the fixed payload delivered to the vault device.
	// Default 1337, matching the reference driver.
	PIN uint32 `yaml:"pin"`

	// DevicePath is the vault character device.
	// Default /dev/secret_vault.
	DevicePath string `yaml:"device_path"`

	// DecoderCommand is the external optical decoder to spawn; its
	// stdout lines are the candidate stream. Empty means candidates
	// arrive on the guard's stdin.
	DecoderCommand []string `yaml:"decoder_command"`

	// AuditLog is the append-only audit file. Empty disables
	// auditing.
	AuditLog string `yaml:"audit_log"`

	// RejectLogInterval rate-limits rejected-candidate log lines.
	// Default "1s". Presentation only; validation is unaffected.
	RejectLogInterval string `yaml:"reject_log_interval"`
}

// Default returns the reference configuration: 30-second rotation,
// two-block window, 5-second cooldown, the reference driver's PIN and
// device path.
func Default() *Config {
	return &Config{
		Period:            "30s",
		Window:            totp.DefaultWindow,
		Cooldown:          "5s",
		PIN:               1337,
		DevicePath:        vaultdev.DefaultPath,
		RejectLogInterval: "1s",
	}
}

// Load loads configuration from the VAULTGUARD_CONFIG environment
// variable. Fails if the variable is not set; there is no fallback
// discovery.
func Load() (*Config, error) {
	path := os.Getenv("VAULTGUARD_CONFIG")
	if path == "" {
		return nil, fmt.Errorf("VAULTGUARD_CONFIG environment variable not set; " +
			"set it to the path of your vaultguard.yaml config file, or use --config flag")
	}
	return LoadFile(path)
}

// LoadFile loads configuration from a specific file path, merging over
// the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for errors. All problems are
// reported at once.
func (c *Config) Validate() error {
	var errs []error

	if c.SecretPath == "" && c.StaticToken == "" {
		errs = append(errs, fmt.Errorf("one of secret_path or static_token is required"))
	}
	if c.SecretPath != "" && c.StaticToken != "" {
		errs = append(errs, fmt.Errorf("secret_path and static_token are mutually exclusive"))
	}

	if c.StaticToken == "" {
		scheme, err := c.Scheme()
		if err != nil {
			errs = append(errs, err)
		} else if err := scheme.Validate(); err != nil {
			errs = append(errs, err)
		}
	}

	if _, err := c.CooldownDuration(); err != nil {
		errs = append(errs, err)
	} else if d, _ := c.CooldownDuration(); d < 0 {
		errs = append(errs, fmt.Errorf("cooldown must not be negative, got %s", c.Cooldown))
	}

	if _, err := c.RejectInterval(); err != nil {
		errs = append(errs, err)
	}

	if c.DevicePath == "" {
		errs = append(errs, fmt.Errorf("device_path is required"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Scheme returns the proof scheme described by the configuration.
func (c *Config) Scheme() (totp.Scheme, error) {
	period, err := time.ParseDuration(c.Period)
	if err != nil {
		return totp.Scheme{}, fmt.Errorf("invalid period %q: %w", c.Period, err)
	}
	return totp.Scheme{Period: period, Window: c.Window}, nil
}

// CooldownDuration returns the parsed cooldown interval.
func (c *Config) CooldownDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.Cooldown)
	if err != nil {
		return 0, fmt.Errorf("invalid cooldown %q: %w", c.Cooldown, err)
	}
	return d, nil
}

// RejectInterval returns the parsed rejected-candidate log interval.
func (c *Config) RejectInterval() (time.Duration, error) {
	d, err := time.ParseDuration(c.RejectLogInterval)
	if err != nil {
		return 0, fmt.Errorf("invalid reject_log_interval %q: %w", c.RejectLogInterval, err)
	}
	return d, nil
}
