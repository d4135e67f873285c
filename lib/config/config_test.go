// Copyright 2026 The Vaultguard Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vaultguard.yaml")
	if err := os.WriteFile(path, []byte(contents), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadFileMergesOverDefaults(t *testing.T) {
	path := writeConfig(t, `
secret_path: /etc/vaultguard/secret
cooldown: 10s
audit_log: /var/log/vaultguard/audit.cbor
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.SecretPath != "/etc/vaultguard/secret" {
		t.Errorf("SecretPath = %q", cfg.SecretPath)
	}
	if cfg.Cooldown != "10s" {
		t.Errorf("Cooldown = %q, want 10s", cfg.Cooldown)
	}
	// Untouched fields keep their defaults.
	if cfg.Period != "30s" {
		t.Errorf("Period = %q, want default 30s", cfg.Period)
	}
	if cfg.Window != 2 {
		t.Errorf("Window = %d, want default 2", cfg.Window)
	}
	if cfg.PIN != 1337 {
		t.Errorf("PIN = %d, want default 1337", cfg.PIN)
	}
	if cfg.DevicePath != "/dev/secret_vault" {
		t.Errorf("DevicePath = %q, want default", cfg.DevicePath)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestValidateRequiresSecretSource(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate without secret_path or static_token should fail")
	}

	cfg.SecretPath = "/etc/vaultguard/secret"
	cfg.StaticToken = "OPEN-SESAME"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate with both secret sources should fail")
	}
	if !strings.Contains(err.Error(), "mutually exclusive") {
		t.Errorf("error = %v, want mutual exclusion message", err)
	}
}

func TestValidateRejectsDegenerateScheme(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero period", func(c *Config) { c.Period = "0s" }},
		{"negative period", func(c *Config) { c.Period = "-30s" }},
		{"unparseable period", func(c *Config) { c.Period = "thirty" }},
		{"zero window", func(c *Config) { c.Window = 0 }},
		{"negative cooldown", func(c *Config) { c.Cooldown = "-5s" }},
		{"unparseable cooldown", func(c *Config) { c.Cooldown = "soon" }},
		{"empty device path", func(c *Config) { c.DevicePath = "" }},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := Default()
			cfg.SecretPath = "/etc/vaultguard/secret"
			test.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate should fail")
			}
		})
	}
}

func TestValidateAggregatesErrors(t *testing.T) {
	cfg := Default()
	cfg.Period = "bogus"
	cfg.Cooldown = "bogus"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate should fail")
	}
	message := err.Error()
	for _, fragment := range []string{"secret_path", "period", "cooldown"} {
		if !strings.Contains(message, fragment) {
			t.Errorf("error %q missing %q", message, fragment)
		}
	}
}

func TestStaticTokenModeSkipsSchemeValidation(t *testing.T) {
	cfg := Default()
	cfg.StaticToken = "OPEN-SESAME"
	cfg.Period = "0s" // irrelevant in static mode

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate static mode: %v", err)
	}
}

func TestSchemeAndDurations(t *testing.T) {
	cfg := Default()
	cfg.SecretPath = "/etc/vaultguard/secret"

	scheme, err := cfg.Scheme()
	if err != nil {
		t.Fatalf("Scheme: %v", err)
	}
	if scheme.Period != 30*time.Second || scheme.Window != 2 {
		t.Errorf("Scheme = %+v, want 30s/2", scheme)
	}

	cooldown, err := cfg.CooldownDuration()
	if err != nil || cooldown != 5*time.Second {
		t.Errorf("CooldownDuration = %v, %v; want 5s", cooldown, err)
	}
}

func TestLoadRequiresEnvironmentVariable(t *testing.T) {
	t.Setenv("VAULTGUARD_CONFIG", "")
	if _, err := Load(); err == nil {
		t.Fatal("Load without VAULTGUARD_CONFIG should fail")
	}

	path := writeConfig(t, "secret_path: /etc/vaultguard/secret\n")
	t.Setenv("VAULTGUARD_CONFIG", path)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SecretPath != "/etc/vaultguard/secret" {
		t.Errorf("SecretPath = %q", cfg.SecretPath)
	}
}
