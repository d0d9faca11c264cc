package crypto

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// SignMessage produces an EIP-191 personal_sign signature (65 bytes, V in {27,28})
func SignMessage(privateKey *ecdsa.PrivateKey, msg []byte) ([]byte, error) {
	if privateKey == nil {
		return nil, fmt.Errorf("private key is nil")
	}

	sig, err := ethcrypto.Sign(accounts.TextHash(msg), privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign message: %w", err)
	}
	sig[ethcrypto.RecoveryIDOffset] += 27
	return sig, nil
}

// RecoverMessageSigner returns the address that produced an EIP-191 signature
func RecoverMessageSigner(msg, sig []byte) (common.Address, error) {
	if len(sig) != ethcrypto.SignatureLength {
		return common.Address{}, fmt.Errorf("signature must be %d bytes, got %d", ethcrypto.SignatureLength, len(sig))
	}

	s := make([]byte, len(sig))
	copy(s, sig)
	if s[ethcrypto.RecoveryIDOffset] >= 27 {
		s[ethcrypto.RecoveryIDOffset] -= 27
	}

	pub, err := ethcrypto.SigToPub(accounts.TextHash(msg), s)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to recover public key: %w", err)
	}
	return ethcrypto.PubkeyToAddress(*pub), nil
}

// VerifyMessage checks an EIP-191 signature against the expected signer
func VerifyMessage(address common.Address, msg, sig []byte) bool {
	signer, err := RecoverMessageSigner(msg, sig)
	if err != nil {
		return false
	}
	return signer == address
}
