package wallet

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/openweb3/wallet-core/config"
	wcrypto "github.com/openweb3/wallet-core/common/crypto"
	"github.com/tyler-smith/go-bip39"
)

const (
	// mnemonicSectionKey holds the encrypted phrase next to the standard V3 fields
	mnemonicSectionKey = "x-openweb3"
	mnemonicVersion    = "0.1"
	mnemonicLocale     = "en"
)

type mnemonicSection struct {
	Ciphertext keystore.CryptoJSON `json:"mnemonicCiphertext"`
	Path       string              `json:"path"`
	Locale     string              `json:"locale"`
	Version    string              `json:"version"`
}

// Codec turns a recovery phrase into a password-encrypted keystore blob and back.
// The blob is a go-ethereum V3 keystore of the first account's private key
// (scrypt + aes-128-ctr + keccak MAC) carrying the phrase entropy in an extra section.
type Codec struct {
	scryptN  int
	scryptP  int
	strength int
}

func NewCodec(scryptN, scryptP, strength int) *Codec {
	if scryptN <= 0 {
		scryptN = keystore.StandardScryptN
	}
	if scryptP <= 0 {
		scryptP = keystore.StandardScryptP
	}
	if strength == 0 {
		strength = Mnemonic12Words
	}
	return &Codec{scryptN: scryptN, scryptP: scryptP, strength: strength}
}

func NewCodecFromConfig(cfg config.Keystore) *Codec {
	return NewCodec(cfg.ScryptN, cfg.ScryptP, cfg.MnemonicStrength)
}

// Create generates a fresh phrase and encrypts it. The caller shows the phrase
// once for backup and must not keep it.
func (c *Codec) Create(password string) ([]byte, string, error) {
	phrase, err := GenerateMnemonic(c.strength)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInternalDerivation, err)
	}

	blob, err := c.seal(phrase, password)
	if err != nil {
		return nil, "", err
	}
	return blob, phrase, nil
}

// Import validates an existing phrase and encrypts it
func (c *Codec) Import(phrase, password string) ([]byte, error) {
	phrase = NormalizeMnemonic(phrase)
	if !bip39.IsMnemonicValid(phrase) {
		return nil, ErrInvalidMnemonic
	}
	return c.seal(phrase, password)
}

// Open decrypts a blob and returns its phrase. A wrong password and a damaged
// blob both yield ErrIncorrectPassword.
func (c *Codec) Open(blob []byte, password string) (string, error) {
	key, err := keystore.DecryptKey(blob, password)
	if err != nil {
		return "", ErrIncorrectPassword
	}
	defer wcrypto.ZeroKey(key.PrivateKey)

	var doc struct {
		Mnemonic *mnemonicSection `json:"x-openweb3"`
	}
	if err := json.Unmarshal(blob, &doc); err != nil || doc.Mnemonic == nil {
		return "", ErrIncorrectPassword
	}

	entropy, err := keystore.DecryptDataV3(doc.Mnemonic.Ciphertext, password)
	if err != nil {
		return "", ErrIncorrectPassword
	}
	defer clear(entropy)

	phrase, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", ErrIncorrectPassword
	}

	// the phrase must reproduce the wrapped key
	accs, err := DeriveAccounts(phrase, 1)
	if err != nil {
		if errors.Is(err, ErrInvalidPhrase) {
			return "", ErrIncorrectPassword
		}
		return "", err
	}
	defer wipeAccounts(accs)

	if accs[0].Address != key.Address {
		return "", ErrIncorrectPassword
	}
	return phrase, nil
}

func (c *Codec) seal(phrase, password string) ([]byte, error) {
	entropy, err := bip39.EntropyFromMnemonic(phrase)
	if err != nil {
		return nil, ErrInvalidMnemonic
	}
	defer clear(entropy)

	accs, err := DeriveAccounts(phrase, 1)
	if err != nil {
		return nil, err
	}
	defer wipeAccounts(accs)

	id, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("%w: key id: %v", ErrInternalDerivation, err)
	}

	key := &keystore.Key{
		Id:         id,
		Address:    accs[0].Address,
		PrivateKey: accs[0].PrivateKey,
	}
	keyJSON, err := keystore.EncryptKey(key, password, c.scryptN, c.scryptP)
	if err != nil {
		return nil, fmt.Errorf("%w: encrypt key: %v", ErrInternalDerivation, err)
	}

	mnemonicCrypto, err := keystore.EncryptDataV3(entropy, []byte(password), c.scryptN, c.scryptP)
	if err != nil {
		return nil, fmt.Errorf("%w: encrypt mnemonic: %v", ErrInternalDerivation, err)
	}

	section, err := json.Marshal(mnemonicSection{
		Ciphertext: mnemonicCrypto,
		Path:       accs[0].DerivationPath,
		Locale:     mnemonicLocale,
		Version:    mnemonicVersion,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: marshal mnemonic section: %v", ErrInternalDerivation, err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(keyJSON, &doc); err != nil {
		return nil, fmt.Errorf("%w: unmarshal keystore: %v", ErrInternalDerivation, err)
	}
	doc[mnemonicSectionKey] = section

	blob, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal keystore: %v", ErrInternalDerivation, err)
	}
	return blob, nil
}

// KeystoreAddress reads the public address of a blob without decrypting it
func KeystoreAddress(blob []byte) (common.Address, error) {
	var doc struct {
		Address string `json:"address"`
	}
	if err := json.Unmarshal(blob, &doc); err != nil {
		return common.Address{}, fmt.Errorf("failed to parse keystore: %w", err)
	}
	if !common.IsHexAddress(doc.Address) {
		return common.Address{}, fmt.Errorf("keystore has no valid address")
	}
	return common.HexToAddress(doc.Address), nil
}
