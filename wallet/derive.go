package wallet

import (
	"fmt"
	"strconv"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/ethereum/go-ethereum/accounts"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	wcrypto "github.com/openweb3/wallet-core/common/crypto"
	"github.com/tyler-smith/go-bip39"
)

// DeriveAccounts derives count accounts along m/44'/60'/0'/0/{index}, index starting at 0.
// The result is a pure function of (phrase, count).
func DeriveAccounts(phrase string, count int) ([]*Account, error) {
	if count < 1 {
		count = 1
	}
	return deriveRange(phrase, 0, count)
}

// AccountPath returns the derivation path string of the account at index
func AccountPath(index int) string {
	return accountPath(index).String()
}

func accountPath(index int) accounts.DerivationPath {
	root := accounts.DefaultRootDerivationPath
	path := make(accounts.DerivationPath, len(root)+1)
	copy(path, root)
	path[len(root)] = uint32(index)
	return path
}

func deriveRange(phrase string, start, count int) ([]*Account, error) {
	// Checksum is verified here too; a bad phrase never reaches the key tree
	seed, err := bip39.NewSeedWithErrorChecking(NormalizeMnemonic(phrase), "")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPhrase, err)
	}
	defer clear(seed)

	// Bitcoin mainnet params only select the xprv version bytes, not the key material
	master, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, fmt.Errorf("%w: create master key: %v", ErrInternalDerivation, err)
	}
	defer master.Zero()

	// m/44'/60'/0'/0
	change, err := deriveChain(master, accounts.DefaultRootDerivationPath)
	if err != nil {
		return nil, fmt.Errorf("%w: derive %s: %v", ErrInternalDerivation, accounts.DefaultRootDerivationPath, err)
	}
	defer change.Zero()

	result := make([]*Account, 0, count)
	for i := start; i < start+count; i++ {
		acc, err := deriveAccount(change, i)
		if err != nil {
			wipeAccounts(result)
			return nil, err
		}
		result = append(result, acc)
	}
	return result, nil
}

func deriveChain(key *hdkeychain.ExtendedKey, path accounts.DerivationPath) (*hdkeychain.ExtendedKey, error) {
	cur := key
	for _, n := range path {
		next, err := cur.Derive(n)
		if cur != key {
			cur.Zero()
		}
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

func deriveAccount(change *hdkeychain.ExtendedKey, index int) (*Account, error) {
	child, err := change.Derive(uint32(index))
	if err != nil {
		return nil, fmt.Errorf("%w: derive index %d: %v", ErrInternalDerivation, index, err)
	}
	defer child.Zero()

	ecPriv, err := child.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("%w: private key at index %d: %v", ErrInternalDerivation, index, err)
	}
	raw := ecPriv.Serialize()
	ecPriv.Zero()
	defer wcrypto.ZeroBytes(raw)

	privateKey, err := ethcrypto.ToECDSA(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: convert key at index %d: %v", ErrInternalDerivation, index, err)
	}

	return &Account{
		ID:             strconv.Itoa(index + 1),
		Index:          index,
		Name:           fmt.Sprintf("Account %d", index+1),
		Address:        wcrypto.PublicKeyToAddress(&privateKey.PublicKey),
		PrivateKey:     privateKey,
		DerivationPath: accountPath(index).String(),
	}, nil
}

func wipeAccounts(accs []*Account) {
	for _, a := range accs {
		a.wipe()
	}
}
