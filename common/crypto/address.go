package crypto

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

func PublicKeyToAddress(publicKey *ecdsa.PublicKey) common.Address {
	return ethcrypto.PubkeyToAddress(*publicKey)
}

// ParseAddress accepts a 0x-prefixed or bare 20-byte hex address
func ParseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid address: %q", s)
	}
	return common.HexToAddress(s), nil
}
