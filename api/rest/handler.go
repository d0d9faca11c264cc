package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gorilla/mux"
	"github.com/openweb3/wallet-core/api"
	"github.com/openweb3/wallet-core/common/logger"
	"github.com/openweb3/wallet-core/common/utils"
	"github.com/openweb3/wallet-core/wallet"
)

const maxBodyBytes = 1 << 16

var (
	errWeakPassword    = errors.New("password is too weak")
	errMissingField    = errors.New("missing required field")
	errInvalidRequest  = errors.New("invalid request body")
	errContentType     = errors.New("content type must be application/json")
	errForbiddenOrigin = errors.New("origin not allowed")
)

// get home response
func HomeHandler(w http.ResponseWriter, r *http.Request) {
	info := map[string]string{
		"name":    "openweb3 wallet API",
		"version": "0.1.0",
	}
	sendResp(w, http.StatusOK, info, nil)
}

// GetWalletState returns the session snapshot the UI picks its screen from
func GetWalletState(s *wallet.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sendResp(w, http.StatusOK, s.Snapshot(), nil)
	}
}

func CreateWallet(s *wallet.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateWalletReq
		if !decodeReq(w, r, &req) {
			return
		}
		if !checkPassword(w, req.Password) {
			return
		}

		phrase, err := s.CreateWallet(r.Context(), req.Password, req.AccountName)
		if err != nil {
			sendErr(w, err)
			return
		}

		sendResp(w, http.StatusOK, CreateWalletResp{
			Mnemonic: phrase,
			Account:  s.CurrentAccount(),
		}, nil)
	}
}

func ImportWallet(s *wallet.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ImportWalletReq
		if !decodeReq(w, r, &req) {
			return
		}
		if req.Mnemonic == "" {
			sendResp(w, http.StatusBadRequest, nil, fmt.Errorf("%w: mnemonic", errMissingField))
			return
		}
		if !checkPassword(w, req.Password) {
			return
		}

		if err := s.ImportWallet(r.Context(), req.Mnemonic, req.Password, req.AccountName); err != nil {
			sendErr(w, err)
			return
		}
		sendResp(w, http.StatusOK, s.Snapshot(), nil)
	}
}

// UnlockWallet answers 200 with unlocked=false on a wrong password
func UnlockWallet(s *wallet.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UnlockReq
		if !decodeReq(w, r, &req) {
			return
		}

		ok, err := s.UnlockWallet(r.Context(), req.Password)
		if err != nil {
			sendErr(w, err)
			return
		}
		sendResp(w, http.StatusOK, UnlockResp{Unlocked: ok}, nil)
	}
}

func LockWallet(s *wallet.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.LockWallet()
		sendResp(w, http.StatusOK, s.Snapshot(), nil)
	}
}

func GetAccounts(s *wallet.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sendResp(w, http.StatusOK, AccountsResp{
			Accounts:       s.Accounts(),
			CurrentAccount: s.CurrentAccount(),
		}, nil)
	}
}

func AddAccount(s *wallet.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AddAccountReq
		if r.ContentLength != 0 && !decodeReq(w, r, &req) {
			return
		}

		acc, err := s.AddAccount(r.Context(), req.Name)
		if err != nil {
			sendErr(w, err)
			return
		}
		sendResp(w, http.StatusOK, acc.View(), nil)
	}
}

// SelectAccount ignores unknown ids and returns the current account either way
func SelectAccount(s *wallet.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.IsLocked() || !s.IsInitialized() {
			sendErr(w, wallet.ErrWalletLocked)
			return
		}

		s.SelectAccount(mux.Vars(r)["id"])
		sendResp(w, http.StatusOK, AccountsResp{
			Accounts:       s.Accounts(),
			CurrentAccount: s.CurrentAccount(),
		}, nil)
	}
}

// GetAccountQR renders the receive address of an account
func GetAccountQR(s *wallet.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		acc, err := findAccount(s, mux.Vars(r)["id"])
		if err != nil {
			sendErr(w, err)
			return
		}

		png, err := utils.QRCodePNG(acc.Address)
		if err != nil {
			sendResp(w, http.StatusInternalServerError, nil, err)
			return
		}
		sendResp(w, http.StatusOK, QRResp{Address: acc.Address, PNG: png}, nil)
	}
}

func SignMessage(s *wallet.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SignMessageReq
		if !decodeReq(w, r, &req) {
			return
		}
		if req.AccountID == "" {
			sendResp(w, http.StatusBadRequest, nil, fmt.Errorf("%w: accountId", errMissingField))
			return
		}

		sig, err := s.SignMessage(req.AccountID, []byte(req.Message))
		if err != nil {
			sendErr(w, err)
			return
		}

		acc, err := findAccount(s, req.AccountID)
		if err != nil {
			sendErr(w, err)
			return
		}
		sendResp(w, http.StatusOK, SignMessageResp{
			Address:   acc.Address,
			Signature: hexutil.Encode(sig),
		}, nil)
	}
}

// GetBalance never fails; provider errors read as "0.0"
func GetBalance(s *wallet.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		address := mux.Vars(r)["address"]
		sendResp(w, http.StatusOK, BalanceResp{
			Address: address,
			Balance: s.GetBalance(r.Context(), address),
		}, nil)
	}
}

// GetWSStatus gets WebSocket connection status
func GetWSStatus(hub *api.WSHub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if hub == nil {
			sendResp(w, http.StatusInternalServerError, nil, fmt.Errorf("WebSocket hub not initialized"))
			return
		}

		status := map[string]interface{}{
			"connected_clients": hub.GetClientCount(),
			"endpoint":          "/ws",
		}
		sendResp(w, http.StatusOK, status, nil)
	}
}

func findAccount(s *wallet.Session, id string) (wallet.AccountView, error) {
	if s.IsLocked() || !s.IsInitialized() {
		return wallet.AccountView{}, wallet.ErrWalletLocked
	}
	for _, a := range s.Accounts() {
		if a.ID == id {
			return a, nil
		}
	}
	return wallet.AccountView{}, wallet.ErrAccountNotFound
}

// decodeReq only accepts application/json so browsers must preflight every body-carrying call
func decodeReq(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		sendResp(w, http.StatusUnsupportedMediaType, nil, errContentType)
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		sendResp(w, http.StatusBadRequest, nil, fmt.Errorf("%w: %v", errInvalidRequest, err))
		return false
	}
	return true
}

func checkPassword(w http.ResponseWriter, password string) bool {
	strength := wallet.CheckPasswordStrength(password)
	if strength.IsValid {
		return true
	}
	sendResp(w, http.StatusBadRequest, WeakPasswordResp{Strength: strength}, errWeakPassword)
	return false
}

// statusFor maps wallet errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, wallet.ErrInvalidMnemonic):
		return http.StatusBadRequest
	case errors.Is(err, wallet.ErrWalletExists), errors.Is(err, wallet.ErrAccountLimit):
		return http.StatusConflict
	case errors.Is(err, wallet.ErrOperationInProgress):
		return http.StatusTooManyRequests
	case errors.Is(err, wallet.ErrWalletLocked):
		return http.StatusLocked
	case errors.Is(err, wallet.ErrAccountNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func sendErr(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("wallet request failed: ", err)
		// internal details stay in the log
		err = errors.New("internal wallet error")
	}
	sendResp(w, status, nil, err)
}

// send response
func sendResp(w http.ResponseWriter, statusCode int, data interface{}, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := RestResp{
		Success: err == nil,
		Data:    data,
	}

	if err != nil {
		response.Error = err.Error()
	}

	json.NewEncoder(w).Encode(response)
}
