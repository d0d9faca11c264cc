package crypto

import (
	"testing"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// well-known hardhat/anvil account #0
const (
	testKeyHex  = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	testAddress = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
)

func TestPrivateKeyHexRoundTrip(t *testing.T) {
	key, err := ethcrypto.HexToECDSA(testKeyHex[2:])
	if err != nil {
		t.Fatalf("HexToECDSA: %v", err)
	}
	if got := PrivateKeyToHex(key); got != testKeyHex {
		t.Fatalf("PrivateKeyToHex = %s", got)
	}
	if got := PublicKeyToAddress(&key.PublicKey).Hex(); got != testAddress {
		t.Fatalf("address = %s, want %s", got, testAddress)
	}
}

func TestZeroKey(t *testing.T) {
	key, err := ethcrypto.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	ZeroKey(key)
	if key.D.Sign() != 0 {
		t.Fatal("private scalar not zeroed")
	}
	ZeroKey(nil)
}

func TestSignAndVerifyMessage(t *testing.T) {
	key, _ := ethcrypto.HexToECDSA(testKeyHex[2:])
	addr := PublicKeyToAddress(&key.PublicKey)
	msg := []byte("hello openweb3")

	sig, err := SignMessage(key, msg)
	if err != nil {
		t.Fatalf("SignMessage: %v", err)
	}
	if len(sig) != 65 {
		t.Fatalf("signature length = %d", len(sig))
	}
	if v := sig[64]; v != 27 && v != 28 {
		t.Fatalf("unexpected V = %d", v)
	}
	if !VerifyMessage(addr, msg, sig) {
		t.Fatal("signature should verify")
	}
	if VerifyMessage(addr, []byte("other message"), sig) {
		t.Fatal("signature over a different message must not verify")
	}

	other, _ := ethcrypto.GenerateKey()
	if VerifyMessage(PublicKeyToAddress(&other.PublicKey), msg, sig) {
		t.Fatal("signature must not verify for another address")
	}
	if VerifyMessage(addr, msg, sig[:10]) {
		t.Fatal("short signature must not verify")
	}
}

func TestParseAddress(t *testing.T) {
	if _, err := ParseAddress(testAddress); err != nil {
		t.Fatalf("ParseAddress: %v", err)
	}
	for _, bad := range []string{"", "0x123", "not-an-address"} {
		if _, err := ParseAddress(bad); err == nil {
			t.Errorf("ParseAddress(%q) should fail", bad)
		}
	}
}
