package storage

import (
	"errors"
	"fmt"
	"sync"

	log "github.com/openweb3/wallet-core/common/logger"
	prt "github.com/openweb3/wallet-core/protocol"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	lvstorage "github.com/syndtr/goleveldb/leveldb/storage"
)

type LevelStore struct {
	once sync.Once
	db   *leveldb.DB
}

func OpenLevelDB(dbPath string) (*LevelStore, error) {
	db, err := leveldb.OpenFile(dbPath, nil)
	if err != nil {
		log.Error("Failed to open db: ", err)
		return nil, fmt.Errorf("failed to open leveldb: %w", err)
	}

	log.Info("Successfully opened db: ", dbPath)
	return &LevelStore{db: db}, nil
}

// NewMemLevelDB opens a leveldb store backed by memory
func NewMemLevelDB() (*LevelStore, error) {
	db, err := leveldb.Open(lvstorage.NewMemStorage(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open memory leveldb: %w", err)
	}
	return &LevelStore{db: db}, nil
}

// OpenLevelDBReadOnly opens an existing store for inspection
func OpenLevelDBReadOnly(dbPath string) (*LevelStore, error) {
	db, err := leveldb.OpenFile(dbPath, &opt.Options{ReadOnly: true, ErrorIfMissing: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open leveldb read-only: %w", err)
	}
	return &LevelStore{db: db}, nil
}

func (s *LevelStore) Load() ([]byte, prt.AccountMeta, error) {
	blob, err := s.get(prt.KeyEncryptedWallet)
	if err != nil {
		return nil, prt.DefaultAccountMeta(), err
	}
	rawMeta, err := s.get(prt.KeyAccountMeta)
	if err != nil {
		return nil, prt.DefaultAccountMeta(), err
	}
	return blob, prt.ParseAccountMeta(rawMeta), nil
}

func (s *LevelStore) get(key string) ([]byte, error) {
	value, err := s.db.Get([]byte(key), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, nil
}

// Save writes blob and meta in one synced batch
func (s *LevelStore) Save(blob []byte, meta prt.AccountMeta) error {
	rawMeta, err := encodeMeta(meta)
	if err != nil {
		return err
	}

	batch := new(leveldb.Batch)
	batch.Put([]byte(prt.KeyEncryptedWallet), blob)
	batch.Put([]byte(prt.KeyAccountMeta), rawMeta)

	if err := s.db.Write(batch, &opt.WriteOptions{Sync: true}); err != nil {
		return fmt.Errorf("failed to write wallet batch: %w", err)
	}
	return nil
}

func (s *LevelStore) Close() error {
	var err error
	s.once.Do(func() {
		err = s.db.Close()
	})
	return err
}
