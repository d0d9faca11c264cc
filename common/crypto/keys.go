package crypto

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/common/hexutil"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// PrivateKeyToHex returns the 0x-prefixed 32-byte private key
func PrivateKeyToHex(privateKey *ecdsa.PrivateKey) string {
	if privateKey == nil {
		return ""
	}
	b := ethcrypto.FromECDSA(privateKey)
	defer ZeroBytes(b)
	return hexutil.Encode(b)
}

// ZeroKey overwrites the private scalar in place
func ZeroKey(k *ecdsa.PrivateKey) {
	if k == nil || k.D == nil {
		return
	}
	b := k.D.Bits()
	for i := range b {
		b[i] = 0
	}
	k.D.SetInt64(0)
}

func ZeroBytes(b []byte) {
	clear(b)
}
