package wallet

import (
	"fmt"
	"strings"

	"github.com/tyler-smith/go-bip39"
)

// Mnemonic strength in bits of entropy
const (
	Mnemonic12Words = 128
	Mnemonic15Words = 160
	Mnemonic18Words = 192
	Mnemonic21Words = 224
	Mnemonic24Words = 256
)

// NormalizeMnemonic lowercases and collapses whitespace between words
func NormalizeMnemonic(mnemonic string) string {
	return strings.Join(strings.Fields(strings.ToLower(mnemonic)), " ")
}

// ValidateMnemonic checks word-list membership and checksum
func ValidateMnemonic(mnemonic string) bool {
	return bip39.IsMnemonicValid(NormalizeMnemonic(mnemonic))
}

// GenerateMnemonic creates a new random phrase with the given entropy size
func GenerateMnemonic(strength int) (string, error) {
	switch strength {
	case Mnemonic12Words, Mnemonic15Words, Mnemonic18Words, Mnemonic21Words, Mnemonic24Words:
	default:
		return "", fmt.Errorf("invalid mnemonic strength: %d, must be 128, 160, 192, 224, or 256", strength)
	}

	entropy, err := bip39.NewEntropy(strength)
	if err != nil {
		return "", fmt.Errorf("failed to generate entropy: %w", err)
	}
	defer clear(entropy)

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("failed to generate mnemonic: %w", err)
	}
	return mnemonic, nil
}
