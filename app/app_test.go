package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/openweb3/wallet-core/config"
	"github.com/openweb3/wallet-core/wallet"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, engine string) *config.Config {
	cfg := config.Default()
	cfg.DB.Engine = engine
	cfg.DB.Path = filepath.Join(t.TempDir(), "wallet.db")
	cfg.Keystore.ScryptN = keystore.LightScryptN
	cfg.Keystore.ScryptP = keystore.LightScryptP
	return cfg
}

func TestAppRestartKeepsWallet(t *testing.T) {
	for _, engine := range []string{"leveldb", "bbolt"} {
		t.Run(engine, func(t *testing.T) {
			cfg := testConfig(t, engine)

			a, err := NewWithConfig(cfg)
			require.NoError(t, err)
			require.Equal(t, wallet.StateUninitialized, a.Session.State())
			require.Nil(t, a.RPC)

			_, err = a.Session.CreateWallet(context.Background(), "Sup3r$ecret1", "")
			require.NoError(t, err)
			addr := a.Session.CurrentAccount().Address
			a.Terminate()
			a.Wait()

			b, err := NewWithConfig(cfg)
			require.NoError(t, err)
			defer b.Terminate()

			require.Equal(t, wallet.StateLocked, b.Session.State())
			ok, err := b.Session.UnlockWallet(context.Background(), "Sup3r$ecret1")
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, addr, b.Session.CurrentAccount().Address)
		})
	}
}

func TestAppUnknownEngine(t *testing.T) {
	cfg := testConfig(t, "rocksdb")
	_, err := NewWithConfig(cfg)
	require.Error(t, err)
}
