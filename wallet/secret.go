package wallet

import wcrypto "github.com/openweb3/wallet-core/common/crypto"

// secretPhrase keeps the recovery phrase of an unlocked session in a buffer
// that can be overwritten on lock. Strings derived from it via reveal are not wiped.
type secretPhrase struct {
	b []byte
}

func newSecretPhrase(phrase string) *secretPhrase {
	return &secretPhrase{b: []byte(NormalizeMnemonic(phrase))}
}

func (p *secretPhrase) reveal() string {
	if p == nil {
		return ""
	}
	return string(p.b)
}

func (p *secretPhrase) wipe() {
	if p == nil {
		return
	}
	wcrypto.ZeroBytes(p.b)
	p.b = nil
}
