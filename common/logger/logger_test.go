package logger

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	conf "github.com/openweb3/wallet-core/config"
)

func TestLogBeforeInit(t *testing.T) {
	// must not panic on the no-op logger
	Info("hello ", 1)
	Warn("careful")
	HandleErr(errors.New("boom"))
	HandleErr(nil)
}

func TestInitLoggerWritesFile(t *testing.T) {
	dir := t.TempDir()
	cfg := conf.Default()
	cfg.LogInfo.Path = filepath.Join(dir, "walletd")

	if err := InitLogger(cfg); err != nil {
		t.Fatalf("InitLogger: %v", err)
	}
	Info("session ", "locked")
	Sync()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("expected a log file")
	}

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "session locked") {
		t.Fatalf("log file missing message: %s", data)
	}
}
