package wallet

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// hardhat / anvil default mnemonic
const testMnemonic = "test test test test test test test test test test test junk"

func TestDeriveAccountsKnownVectors(t *testing.T) {
	accs, err := DeriveAccounts(testMnemonic, 2)
	require.NoError(t, err)
	require.Len(t, accs, 2)

	tests := []struct {
		addr, key, path, id, name string
	}{
		{
			addr: "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266",
			key:  "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80",
			path: "m/44'/60'/0'/0/0",
			id:   "1",
			name: "Account 1",
		},
		{
			addr: "0x70997970C51812dc3A010C7d01b50e0d17dc79C8",
			key:  "0x59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d",
			path: "m/44'/60'/0'/0/1",
			id:   "2",
			name: "Account 2",
		},
	}
	for i, tt := range tests {
		a := accs[i]
		require.Equal(t, tt.addr, a.Address.Hex())
		require.Equal(t, tt.key, a.PrivateKeyHex())
		require.Equal(t, tt.path, a.DerivationPath)
		require.Equal(t, tt.id, a.ID)
		require.Equal(t, tt.name, a.Name)
		require.Equal(t, i, a.Index)
	}
}

func TestDeriveAccountsAbandonVector(t *testing.T) {
	phrase := "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	accs, err := DeriveAccounts(phrase, 1)
	require.NoError(t, err)
	require.Equal(t, "0x9858EfFD232B4033E47d90003D41EC34EcaEda94", accs[0].Address.Hex())
}

func TestDeriveAccountsDeterministic(t *testing.T) {
	a, err := DeriveAccounts(testMnemonic, 5)
	require.NoError(t, err)
	b, err := DeriveAccounts(testMnemonic, 5)
	require.NoError(t, err)
	for i := range a {
		require.Equal(t, a[i].Address, b[i].Address)
		require.Equal(t, a[i].PrivateKeyHex(), b[i].PrivateKeyHex())
		require.Equal(t, a[i].DerivationPath, b[i].DerivationPath)
	}

	// a prefix of a longer derivation matches a shorter one
	c, err := DeriveAccounts(testMnemonic, 2)
	require.NoError(t, err)
	for i := range c {
		require.Equal(t, a[i].Address, c[i].Address)
	}
}

func TestDeriveAccountsCountFloor(t *testing.T) {
	for _, n := range []int{0, -3} {
		accs, err := DeriveAccounts(testMnemonic, n)
		require.NoError(t, err)
		require.Len(t, accs, 1, "count %d", n)
	}
}

func TestDeriveAccountsInvalidPhrase(t *testing.T) {
	for _, phrase := range []string{
		"",
		"abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon",
		"notaword test test test test test test test test test test junk",
	} {
		accs, err := DeriveAccounts(phrase, 3)
		require.ErrorIs(t, err, ErrInvalidPhrase, phrase)
		require.Nil(t, accs)
	}
}

func TestDeriveRangeMatchesPrefix(t *testing.T) {
	all, err := DeriveAccounts(testMnemonic, 4)
	require.NoError(t, err)
	tail, err := deriveRange(testMnemonic, 3, 1)
	require.NoError(t, err)
	require.Equal(t, all[3].Address, tail[0].Address)
	require.Equal(t, "4", tail[0].ID)
}

func TestWipeAccounts(t *testing.T) {
	accs, err := DeriveAccounts(testMnemonic, 2)
	require.NoError(t, err)
	k0 := accs[0].PrivateKey

	wipeAccounts(accs)
	for _, a := range accs {
		require.Nil(t, a.PrivateKey)
	}
	require.Zero(t, k0.D.Sign())
}

func TestAccountPath(t *testing.T) {
	require.Equal(t, "m/44'/60'/0'/0/7", AccountPath(7))
}

func TestMnemonicHelpers(t *testing.T) {
	require.Equal(t, "test test test", NormalizeMnemonic("  Test  TEST\ttest "))
	require.True(t, ValidateMnemonic("  TEST test test test test test test test test test test junk "))

	for strength, words := range map[int]int{Mnemonic12Words: 12, Mnemonic24Words: 24} {
		m, err := GenerateMnemonic(strength)
		require.NoError(t, err)
		require.Len(t, strings.Fields(m), words)
		require.True(t, ValidateMnemonic(m))
	}

	_, err := GenerateMnemonic(100)
	require.Error(t, err)
}
