package storage

import (
	"path/filepath"
	"testing"

	"github.com/openweb3/wallet-core/config"
	prt "github.com/openweb3/wallet-core/protocol"
	"github.com/stretchr/testify/require"
)

func openEngines(t *testing.T) map[string]Store {
	t.Helper()

	mem, err := NewMemLevelDB()
	require.NoError(t, err)
	lv, err := OpenLevelDB(filepath.Join(t.TempDir(), "wallet.ldb"))
	require.NoError(t, err)
	bb, err := OpenBolt(filepath.Join(t.TempDir(), "nested", "wallet.db"))
	require.NoError(t, err)

	stores := map[string]Store{"memory": mem, "leveldb": lv, "bbolt": bb}
	t.Cleanup(func() {
		for _, s := range stores {
			s.Close()
		}
	})
	return stores
}

func TestStoreEmpty(t *testing.T) {
	for name, s := range openEngines(t) {
		t.Run(name, func(t *testing.T) {
			blob, meta, err := s.Load()
			require.NoError(t, err)
			require.Nil(t, blob)
			require.Equal(t, prt.DefaultAccountMeta(), meta)
		})
	}
}

func TestStoreSaveOverwrites(t *testing.T) {
	for name, s := range openEngines(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Save([]byte("first"), prt.AccountMeta{Count: 1}))
			require.NoError(t, s.Save([]byte("second"), prt.AccountMeta{Count: 3}))

			blob, meta, err := s.Load()
			require.NoError(t, err)
			require.Equal(t, []byte("second"), blob)
			require.Equal(t, 3, meta.Count)
		})
	}
}

func TestStoreClampsMeta(t *testing.T) {
	for name, s := range openEngines(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Save([]byte("blob"), prt.AccountMeta{Count: 0}))
			_, meta, err := s.Load()
			require.NoError(t, err)
			require.Equal(t, 1, meta.Count)
		})
	}
}

func TestLevelStoreOversizedMeta(t *testing.T) {
	s, err := NewMemLevelDB()
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.db.Put([]byte(prt.KeyEncryptedWallet), []byte("blob"), nil))
	require.NoError(t, s.db.Put([]byte(prt.KeyAccountMeta), []byte(`{"count":1000000000}`), nil))

	_, meta, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, prt.MaxAccountCount, meta.Count)
}

func TestLevelStoreBrokenMeta(t *testing.T) {
	s, err := NewMemLevelDB()
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.db.Put([]byte(prt.KeyEncryptedWallet), []byte("blob"), nil))
	require.NoError(t, s.db.Put([]byte(prt.KeyAccountMeta), []byte("{not json"), nil))

	blob, meta, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, []byte("blob"), blob)
	require.Equal(t, prt.DefaultAccountMeta(), meta)
}

func TestStoreReopen(t *testing.T) {
	dir := t.TempDir()
	for _, engine := range []string{EngineLevelDB, EngineBolt} {
		t.Run(engine, func(t *testing.T) {
			cfg := config.Default()
			cfg.DB.Engine = engine
			cfg.DB.Path = filepath.Join(dir, engine)

			s, err := Open(cfg)
			require.NoError(t, err)
			require.NoError(t, s.Save([]byte("cipher"), prt.AccountMeta{Count: 2}))
			require.NoError(t, s.Close())

			s, err = Open(cfg)
			require.NoError(t, err)
			defer s.Close()

			blob, meta, err := s.Load()
			require.NoError(t, err)
			require.Equal(t, []byte("cipher"), blob)
			require.Equal(t, 2, meta.Count)
		})
	}
}

func TestOpenUnknownEngine(t *testing.T) {
	cfg := config.Default()
	cfg.DB.Engine = "rocksdb"
	_, err := Open(cfg)
	require.Error(t, err)
}

func TestLevelStoreReadOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.ldb")
	s, err := OpenLevelDB(path)
	require.NoError(t, err)
	require.NoError(t, s.Save([]byte("cipher"), prt.AccountMeta{Count: 4}))
	require.NoError(t, s.Close())

	ro, err := OpenLevelDBReadOnly(path)
	require.NoError(t, err)
	defer ro.Close()

	blob, meta, err := ro.Load()
	require.NoError(t, err)
	require.Equal(t, []byte("cipher"), blob)
	require.Equal(t, 4, meta.Count)

	_, err = OpenLevelDBReadOnly(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}
