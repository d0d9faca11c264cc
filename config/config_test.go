package config

import (
	"os"
	"path/filepath"
	"testing"
)

const testConfig = `
[Common]
Level = "dev"
ServiceName = "walletd-test"

[LogInfo]
Path = "/tmp/walletd"
MaxAgeHour = 1
RotateHour = 1

[DB]
Path = "/tmp/wallet.db"

[Server]
RestPort = 9000

[RPC]
URL = "http://localhost:8545"
`

func writeConfig(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(p, []byte(testConfig), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestNewConfig(t *testing.T) {
	cfg, err := NewConfig(writeConfig(t))
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}

	if cfg.Common.ServiceName != "walletd-test" {
		t.Errorf("ServiceName = %q", cfg.Common.ServiceName)
	}
	if cfg.Server.RestPort != 9000 {
		t.Errorf("RestPort = %d", cfg.Server.RestPort)
	}
	// unset values fall back to defaults
	if cfg.DB.Engine != "leveldb" {
		t.Errorf("Engine = %q, want leveldb", cfg.DB.Engine)
	}
	if cfg.Keystore.ScryptN != 1<<18 || cfg.Keystore.ScryptP != 1 {
		t.Errorf("scrypt defaults = %d/%d", cfg.Keystore.ScryptN, cfg.Keystore.ScryptP)
	}
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Host = %q", cfg.Server.Host)
	}
}

func TestNewConfigEnvOverride(t *testing.T) {
	t.Setenv("OPENWEB3_RPC_URL", "http://rpc.example:8545")
	t.Setenv("OPENWEB3_DB_ENGINE", "bbolt")

	cfg, err := NewConfig(writeConfig(t))
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	if cfg.RPC.URL != "http://rpc.example:8545" {
		t.Errorf("RPC.URL = %q", cfg.RPC.URL)
	}
	if cfg.DB.Engine != "bbolt" {
		t.Errorf("DB.Engine = %q", cfg.DB.Engine)
	}
	// untouched by env
	if cfg.Server.RestPort != 9000 {
		t.Errorf("RestPort = %d", cfg.Server.RestPort)
	}
}

func TestNewConfigMissingFile(t *testing.T) {
	if _, err := NewConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
