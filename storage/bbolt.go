package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	log "github.com/openweb3/wallet-core/common/logger"
	prt "github.com/openweb3/wallet-core/protocol"
	bolt "go.etcd.io/bbolt"
)

const boltOpenTimeout = time.Second

// BoltStore keeps both records in one bucket of a single bbolt file
type BoltStore struct {
	db *bolt.DB
}

func OpenBolt(dbPath string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: boltOpenTimeout})
	if err != nil {
		log.Error("Failed to open db: ", err)
		return nil, fmt.Errorf("failed to open bbolt: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(prt.BucketWallet))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}

	log.Info("Successfully opened db: ", dbPath)
	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Load() ([]byte, prt.AccountMeta, error) {
	var blob, rawMeta []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(prt.BucketWallet))
		if b == nil {
			return nil
		}
		// values are only valid inside the transaction
		if v := b.Get([]byte(prt.KeyEncryptedWallet)); v != nil {
			blob = append([]byte(nil), v...)
		}
		if v := b.Get([]byte(prt.KeyAccountMeta)); v != nil {
			rawMeta = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, prt.DefaultAccountMeta(), fmt.Errorf("failed to read wallet: %w", err)
	}
	return blob, prt.ParseAccountMeta(rawMeta), nil
}

// Save writes blob and meta in one transaction
func (s *BoltStore) Save(blob []byte, meta prt.AccountMeta) error {
	rawMeta, err := encodeMeta(meta)
	if err != nil {
		return err
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(prt.BucketWallet))
		if err != nil {
			return err
		}
		if err := b.Put([]byte(prt.KeyEncryptedWallet), blob); err != nil {
			return err
		}
		return b.Put([]byte(prt.KeyAccountMeta), rawMeta)
	})
	if err != nil {
		return fmt.Errorf("failed to write wallet: %w", err)
	}
	return nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
