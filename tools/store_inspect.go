package main

import (
	"fmt"
	"log"
	"os"

	prt "github.com/openweb3/wallet-core/protocol"
	"github.com/openweb3/wallet-core/storage"
	"github.com/openweb3/wallet-core/wallet"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

// Prints what a wallet store holds without decrypting anything.
// A directory is opened as leveldb, a regular file as bbolt.
func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run tools/store_inspect.go <db_path> [command]")
		fmt.Println("Commands:")
		fmt.Println("  wallet   - Show wallet presence, address and account meta")
		fmt.Println("  keys     - List leveldb keys with value sizes")
		fmt.Println("  all      - Show everything")
		return
	}

	dbPath := os.Args[1]
	command := "wallet"
	if len(os.Args) > 2 {
		command = os.Args[2]
	}

	info, err := os.Stat(dbPath)
	if err != nil {
		log.Fatalf("Failed to stat database: %v", err)
	}
	if !info.IsDir() {
		showBolt(dbPath)
		return
	}

	db, err := leveldb.OpenFile(dbPath, &opt.Options{ReadOnly: true, ErrorIfMissing: true})
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	fmt.Printf("Database opened: %s\n\n", dbPath)

	switch command {
	case "wallet":
		showWallet(db)
	case "keys":
		listKeys(db)
	case "all":
		showWallet(db)
		listKeys(db)
	default:
		fmt.Printf("Unknown command: %s\n", command)
	}
}

func showWallet(db *leveldb.DB) {
	fmt.Println("=== WALLET ===")

	blob, err := db.Get([]byte(prt.KeyEncryptedWallet), nil)
	if err != nil {
		fmt.Printf("Encrypted wallet: Not found (%v)\n", err)
	} else {
		printBlob(blob)
	}

	rawMeta, err := db.Get([]byte(prt.KeyAccountMeta), nil)
	if err != nil {
		fmt.Printf("Account meta: Not found, default %d\n", prt.DefaultAccountMeta().Count)
	} else {
		fmt.Printf("Account meta: %s (count %d)\n", string(rawMeta), prt.ParseAccountMeta(rawMeta).Count)
	}
	fmt.Println()
}

func listKeys(db *leveldb.DB) {
	fmt.Println("=== KEYS ===")

	iter := db.NewIterator(nil, nil)
	defer iter.Release()

	count := 0
	for iter.Next() {
		fmt.Printf("%s (%d bytes)\n", string(iter.Key()), len(iter.Value()))
		count++
	}
	if err := iter.Error(); err != nil {
		fmt.Printf("Iterator error: %v\n", err)
	}
	fmt.Printf("Total keys: %d\n\n", count)
}

func showBolt(dbPath string) {
	s, err := storage.OpenBolt(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer s.Close()

	fmt.Printf("Database opened: %s (bbolt)\n\n", dbPath)
	fmt.Println("=== WALLET ===")

	blob, meta, err := s.Load()
	if err != nil {
		log.Fatalf("Failed to read wallet: %v", err)
	}
	if blob == nil {
		fmt.Println("Encrypted wallet: Not found")
	} else {
		printBlob(blob)
	}
	fmt.Printf("Account count: %d\n", meta.Count)
}

func printBlob(blob []byte) {
	fmt.Printf("Encrypted wallet: %d bytes\n", len(blob))
	addr, err := wallet.KeystoreAddress(blob)
	if err != nil {
		fmt.Printf("Account 1 address: unreadable (%v)\n", err)
		return
	}
	fmt.Printf("Account 1 address: %s\n", addr.Hex())
}
