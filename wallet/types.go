package wallet

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/common"
	wcrypto "github.com/openweb3/wallet-core/common/crypto"
)

// BIP-44 path constants
const (
	BIP44Purpose  = 44
	BIP44CoinType = 60 // Ethereum
	BIP44Account  = 0
	BIP44Change   = 0 // External
)

// Account is a derived identity. It exists only while the session is unlocked.
type Account struct {
	ID             string            `json:"id"`             // "1", "2", ...
	Index          int               `json:"index"`          // Account index (0, 1, 2...)
	Name           string            `json:"name"`           // Display label
	Address        common.Address    `json:"address"`        // 20-byte address
	PrivateKey     *ecdsa.PrivateKey `json:"-"`              // never serialized
	DerivationPath string            `json:"derivationPath"` // BIP-44 path (m/44'/60'/0'/0/0)
}

// PrivateKeyHex returns the 0x-prefixed private key
func (a *Account) PrivateKeyHex() string {
	return wcrypto.PrivateKeyToHex(a.PrivateKey)
}

func (a *Account) wipe() {
	wcrypto.ZeroKey(a.PrivateKey)
	a.PrivateKey = nil
}

// State of the session lock machine
type State int

const (
	StateUninitialized State = iota
	StateLocked
	StateUnlocked
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLocked:
		return "locked"
	case StateUnlocked:
		return "unlocked"
	default:
		return "unknown"
	}
}

// AccountView is the public part of an Account handed to observers
type AccountView struct {
	ID             string `json:"id"`
	Index          int    `json:"index"`
	Name           string `json:"name"`
	Address        string `json:"address"`
	DerivationPath string `json:"derivationPath"`
}

func (a *Account) View() AccountView {
	return AccountView{
		ID:             a.ID,
		Index:          a.Index,
		Name:           a.Name,
		Address:        a.Address.Hex(),
		DerivationPath: a.DerivationPath,
	}
}

// Snapshot is the read-only session state the UI renders from
type Snapshot struct {
	State          string        `json:"state"`
	IsInitialized  bool          `json:"isInitialized"`
	IsLocked       bool          `json:"isLocked"`
	Accounts       []AccountView `json:"accounts"`
	CurrentAccount *AccountView  `json:"currentAccount,omitempty"`
}
