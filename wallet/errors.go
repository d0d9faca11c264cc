package wallet

import "errors"

var (
	// ErrInvalidMnemonic: phrase fails word-list or checksum validation on import
	ErrInvalidMnemonic = errors.New("invalid mnemonic phrase")
	// ErrInvalidPhrase: malformed phrase handed to the derivation engine
	ErrInvalidPhrase = errors.New("invalid recovery phrase")
	// ErrIncorrectPassword covers both a wrong password and a corrupt blob
	ErrIncorrectPassword = errors.New("incorrect password")
	ErrNoWalletFound     = errors.New("no wallet found")
	// ErrInternalDerivation wraps unexpected failures of the crypto library or the store
	ErrInternalDerivation = errors.New("internal derivation failure")

	ErrOperationInProgress = errors.New("another wallet operation is in progress")
	ErrWalletExists        = errors.New("wallet already initialized")
	ErrWalletLocked        = errors.New("wallet is locked")
	ErrAccountNotFound     = errors.New("account not found")
	ErrAccountLimit        = errors.New("account limit reached")
)
