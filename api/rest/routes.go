package rest

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/openweb3/wallet-core/api"
	"github.com/openweb3/wallet-core/wallet"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func setupRouter(session *wallet.Session, wsHub *api.WSHub, limiter *RateLimiter) http.Handler {
	r := mux.NewRouter()

	// Middleware setup
	r.Use(LoggingMiddleware)
	r.Use(RecoveryMiddleware)

	// Base route
	r.HandleFunc("/", HomeHandler).Methods("GET")

	// WebSocket endpoint
	r.HandleFunc("/ws", api.HandleWebSocket(wsHub))

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	apiRouter := r.PathPrefix("/api/v1").Subrouter()

	// Wallet lifecycle
	apiRouter.HandleFunc("/wallet/state", GetWalletState(session)).Methods("GET")
	apiRouter.Handle("/wallet/create", limiter.Middleware(CreateWallet(session))).Methods("POST")
	apiRouter.Handle("/wallet/import", limiter.Middleware(ImportWallet(session))).Methods("POST")
	apiRouter.Handle("/wallet/unlock", limiter.Middleware(UnlockWallet(session))).Methods("POST")
	apiRouter.HandleFunc("/wallet/lock", LockWallet(session)).Methods("POST")

	// Accounts
	apiRouter.HandleFunc("/wallet/accounts", GetAccounts(session)).Methods("GET")
	apiRouter.HandleFunc("/wallet/accounts", AddAccount(session)).Methods("POST")
	apiRouter.HandleFunc("/wallet/accounts/{id}/select", SelectAccount(session)).Methods("POST")
	apiRouter.HandleFunc("/wallet/accounts/{id}/qr", GetAccountQR(session)).Methods("GET")
	apiRouter.HandleFunc("/wallet/sign", SignMessage(session)).Methods("POST")

	// Network
	apiRouter.HandleFunc("/balance/{address}", GetBalance(session)).Methods("GET")

	// WebSocket status API
	apiRouter.HandleFunc("/ws/status", GetWSStatus(wsHub)).Methods("GET")

	// preflight requests never match a route, so CORS wraps the router
	return CORSMiddleware(r)
}
