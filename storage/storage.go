package storage

import (
	"fmt"

	"github.com/openweb3/wallet-core/config"
	prt "github.com/openweb3/wallet-core/protocol"
)

const (
	EngineLevelDB = "leveldb"
	EngineBolt    = "bbolt"
)

// Store keeps exactly one encrypted wallet and its account meta.
// Save writes both records atomically and overwrites whatever was there.
type Store interface {
	Load() ([]byte, prt.AccountMeta, error)
	Save(blob []byte, meta prt.AccountMeta) error
	Close() error
}

// Open selects the engine configured under [DB]
func Open(cfg *config.Config) (Store, error) {
	switch cfg.DB.Engine {
	case EngineLevelDB, "":
		return OpenLevelDB(cfg.DB.Path)
	case EngineBolt:
		return OpenBolt(cfg.DB.Path)
	default:
		return nil, fmt.Errorf("unknown db engine: %s", cfg.DB.Engine)
	}
}

func encodeMeta(meta prt.AccountMeta) ([]byte, error) {
	b, err := meta.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to encode account meta: %w", err)
	}
	return b, nil
}
