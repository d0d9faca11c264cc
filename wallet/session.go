package wallet

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/openweb3/wallet-core/common/logger"
	"github.com/openweb3/wallet-core/common/metrics"
	wcrypto "github.com/openweb3/wallet-core/common/crypto"
	"github.com/openweb3/wallet-core/common/utils"
	prt "github.com/openweb3/wallet-core/protocol"
)

const (
	defaultCreateName = "Account 1"
	defaultImportName = "Imported Account"
	zeroBalance       = "0.0"
)

// Store persists the encrypted wallet and its account meta as one pair
type Store interface {
	Load() ([]byte, prt.AccountMeta, error)
	Save(blob []byte, meta prt.AccountMeta) error
}

// BalanceReader is the network side of GetBalance
type BalanceReader interface {
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
}

type Option func(*Session)

func WithBalanceReader(r BalanceReader) Option {
	return func(s *Session) {
		s.balances = r
	}
}

// Session owns the lock state machine of one wallet.
// Create, import, unlock and add-account are mutually exclusive; readers never wait on crypto.
type Session struct {
	store    Store
	codec    *Codec
	balances BalanceReader

	busy atomic.Bool

	mu          sync.RWMutex
	initialized bool
	locked      bool
	accounts    []*Account
	current     *Account
	phrase      *secretPhrase

	listenerMu sync.Mutex
	listeners  []func(Snapshot)
}

// NewSession reads the store once to pick the initial state
func NewSession(store Store, codec *Codec, opts ...Option) (*Session, error) {
	if store == nil || codec == nil {
		return nil, fmt.Errorf("session requires a store and a codec")
	}

	blob, _, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load wallet: %w", err)
	}

	s := &Session{
		store:       store,
		codec:       codec,
		initialized: blob != nil,
		locked:      blob != nil,
	}
	for _, opt := range opts {
		opt(s)
	}

	logger.Info("wallet session started: ", s.State())
	return s, nil
}

// OnChange registers a listener called with a fresh snapshot after every transition
func (s *Session) OnChange(fn func(Snapshot)) {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Session) notify() {
	snap := s.Snapshot()
	metrics.SetUnlocked(snap.State == StateUnlocked.String())

	s.listenerMu.Lock()
	fns := make([]func(Snapshot), len(s.listeners))
	copy(fns, s.listeners)
	s.listenerMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

func (s *Session) begin(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !s.busy.CompareAndSwap(false, true) {
		return ErrOperationInProgress
	}
	return nil
}

func (s *Session) end() {
	s.busy.Store(false)
}

// CreateWallet generates a new wallet, persists it and unlocks it with one account.
// The returned phrase is for the one-time backup display only.
func (s *Session) CreateWallet(ctx context.Context, password, accountName string) (phrase string, err error) {
	started := time.Now()
	defer func() { metrics.ObserveOp("create", resultLabel(err), started) }()

	if err := s.begin(ctx); err != nil {
		return "", err
	}
	defer s.end()

	if s.IsInitialized() {
		return "", ErrWalletExists
	}

	blob, phrase, err := s.codec.Create(password)
	if err != nil {
		logger.Error("failed to create wallet: ", err)
		return "", err
	}

	accs, err := s.persistAndDerive(blob, phrase)
	if err != nil {
		return "", err
	}
	if accountName != "" && accountName != defaultCreateName {
		accs[0].Name = accountName
	}

	s.commitUnlocked(accs, phrase)
	logger.Info("wallet created: ", accs[0].Address.Hex())
	return phrase, nil
}

// ImportWallet restores a wallet from an existing phrase.
// An invalid phrase returns ErrInvalidMnemonic and persists nothing.
func (s *Session) ImportWallet(ctx context.Context, phrase, password, accountName string) (err error) {
	started := time.Now()
	defer func() { metrics.ObserveOp("import", resultLabel(err), started) }()

	if err := s.begin(ctx); err != nil {
		return err
	}
	defer s.end()

	if s.IsInitialized() {
		return ErrWalletExists
	}

	phrase = NormalizeMnemonic(phrase)
	blob, err := s.codec.Import(phrase, password)
	if err != nil {
		if !errors.Is(err, ErrInvalidMnemonic) {
			logger.Error("failed to import wallet: ", err)
		}
		return err
	}

	accs, err := s.persistAndDerive(blob, phrase)
	if err != nil {
		return err
	}
	if accountName != "" && accountName != defaultImportName {
		accs[0].Name = accountName
	}

	s.commitUnlocked(accs, phrase)
	logger.Info("wallet imported: ", accs[0].Address.Hex())
	return nil
}

func (s *Session) persistAndDerive(blob []byte, phrase string) ([]*Account, error) {
	accs, err := DeriveAccounts(phrase, 1)
	if err != nil {
		logger.Error("failed to derive accounts: ", err)
		return nil, err
	}

	if err := s.store.Save(blob, prt.DefaultAccountMeta()); err != nil {
		wipeAccounts(accs)
		logger.Error("failed to persist wallet: ", err)
		return nil, fmt.Errorf("%w: persist wallet: %w", ErrInternalDerivation, err)
	}
	return accs, nil
}

func (s *Session) commitUnlocked(accs []*Account, phrase string) {
	s.mu.Lock()
	s.clearLocked()
	s.initialized = true
	s.locked = false
	s.accounts = accs
	s.current = accs[0]
	s.phrase = newSecretPhrase(phrase)
	s.mu.Unlock()

	s.notify()
}

// UnlockWallet decrypts the stored wallet and re-derives the remembered number of accounts.
// A wrong password is reported as (false, nil) and leaves the session locked.
func (s *Session) UnlockWallet(ctx context.Context, password string) (ok bool, err error) {
	started := time.Now()
	defer func() {
		res := resultLabel(err)
		if err == nil && !ok {
			res = "rejected"
		}
		metrics.ObserveOp("unlock", res, started)
	}()

	if err := s.begin(ctx); err != nil {
		return false, err
	}
	defer s.end()

	blob, meta, err := s.store.Load()
	if err != nil {
		logger.Error("failed to load wallet: ", err)
		return false, fmt.Errorf("%w: load wallet: %w", ErrInternalDerivation, err)
	}
	if blob == nil {
		logger.Error("unlock requested but no wallet is stored")
		return false, ErrNoWalletFound
	}

	phrase, err := s.codec.Open(blob, password)
	if err != nil {
		if errors.Is(err, ErrIncorrectPassword) {
			logger.Warn("wallet unlock rejected")
			return false, nil
		}
		logger.Error("failed to open wallet: ", err)
		return false, err
	}

	accs, err := DeriveAccounts(phrase, meta.Count)
	if err != nil {
		logger.Error("failed to derive accounts: ", err)
		return false, err
	}

	s.commitUnlocked(accs, phrase)
	logger.Info("wallet unlocked with ", len(accs), " accounts")
	return true, nil
}

// LockWallet drops every account and wipes key material. It never fails.
func (s *Session) LockWallet() {
	s.mu.Lock()
	if !s.initialized || s.locked {
		s.mu.Unlock()
		return
	}
	s.clearLocked()
	s.locked = true
	s.mu.Unlock()

	logger.Info("wallet locked")
	s.notify()
}

// clearLocked must be called with mu held
func (s *Session) clearLocked() {
	wipeAccounts(s.accounts)
	s.accounts = nil
	s.current = nil
	s.phrase.wipe()
	s.phrase = nil
}

// SelectAccount switches the current account. Unknown ids are ignored.
func (s *Session) SelectAccount(id string) {
	s.mu.Lock()
	var found *Account
	for _, a := range s.accounts {
		if a.ID == id {
			found = a
			break
		}
	}
	if found == nil || found == s.current {
		s.mu.Unlock()
		return
	}
	s.current = found
	s.mu.Unlock()

	s.notify()
}

// AddAccount derives the next account from the unlocked phrase and persists the new count
func (s *Session) AddAccount(ctx context.Context, name string) (acc *Account, err error) {
	started := time.Now()
	defer func() { metrics.ObserveOp("add_account", resultLabel(err), started) }()

	if err := s.begin(ctx); err != nil {
		return nil, err
	}
	defer s.end()

	s.mu.RLock()
	if s.locked || !s.initialized || s.phrase == nil {
		s.mu.RUnlock()
		return nil, ErrWalletLocked
	}
	phrase := s.phrase.reveal()
	next := len(s.accounts)
	s.mu.RUnlock()

	if next >= prt.MaxAccountCount {
		return nil, ErrAccountLimit
	}

	derived, err := deriveRange(phrase, next, 1)
	if err != nil {
		logger.Error("failed to derive account ", next, ": ", err)
		return nil, err
	}
	acc = derived[0]
	if name != "" {
		acc.Name = name
	}

	blob, _, err := s.store.Load()
	if err != nil || blob == nil {
		acc.wipe()
		if err == nil {
			return nil, ErrNoWalletFound
		}
		return nil, fmt.Errorf("%w: load wallet: %w", ErrInternalDerivation, err)
	}

	s.mu.Lock()
	if s.locked || len(s.accounts) != next {
		s.mu.Unlock()
		acc.wipe()
		return nil, ErrWalletLocked
	}
	if err := s.store.Save(blob, prt.AccountMeta{Count: next + 1}); err != nil {
		s.mu.Unlock()
		acc.wipe()
		logger.Error("failed to persist account meta: ", err)
		return nil, fmt.Errorf("%w: persist account meta: %w", ErrInternalDerivation, err)
	}
	s.accounts = append(s.accounts, acc)
	s.mu.Unlock()

	logger.Info("account added: ", acc.Address.Hex())
	s.notify()
	return acc, nil
}

// SignMessage signs msg as an EIP-191 personal message with the given account
func (s *Session) SignMessage(accountID string, msg []byte) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.locked || !s.initialized {
		return nil, ErrWalletLocked
	}
	for _, a := range s.accounts {
		if a.ID == accountID {
			return wcrypto.SignMessage(a.PrivateKey, msg)
		}
	}
	return nil, ErrAccountNotFound
}

// GetBalance returns the latest balance of address in ether, or "0.0" on any failure
func (s *Session) GetBalance(ctx context.Context, address string) string {
	if s.balances == nil {
		return zeroBalance
	}
	addr, err := wcrypto.ParseAddress(address)
	if err != nil {
		logger.Debug("balance requested for invalid address: ", address)
		return zeroBalance
	}
	wei, err := s.balances.BalanceAt(ctx, addr, nil)
	if err != nil || wei == nil {
		logger.Warn("failed to fetch balance: ", err)
		return zeroBalance
	}
	return utils.FormatEther(wei)
}

func (s *Session) IsInitialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

func (s *Session) IsLocked() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.locked
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	switch {
	case !s.initialized:
		return StateUninitialized
	case s.locked:
		return StateLocked
	default:
		return StateUnlocked
	}
}

// Accounts returns copies without private keys
func (s *Session) Accounts() []AccountView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewsLocked()
}

func (s *Session) viewsLocked() []AccountView {
	views := make([]AccountView, 0, len(s.accounts))
	for _, a := range s.accounts {
		views = append(views, a.View())
	}
	return views
}

// CurrentAccount returns nil unless the session is unlocked
func (s *Session) CurrentAccount() *AccountView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	v := s.current.View()
	return &v
}

func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		State:         s.stateLocked().String(),
		IsInitialized: s.initialized,
		IsLocked:      s.locked,
		Accounts:      s.viewsLocked(),
	}
	if s.current != nil {
		v := s.current.View()
		snap.CurrentAccount = &v
	}
	return snap
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrOperationInProgress):
		return "busy"
	case errors.Is(err, ErrInvalidMnemonic), errors.Is(err, ErrWalletExists), errors.Is(err, ErrWalletLocked):
		return "rejected"
	default:
		return "error"
	}
}
