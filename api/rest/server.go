package rest

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/openweb3/wallet-core/api"
	"github.com/openweb3/wallet-core/common/logger"
	"github.com/openweb3/wallet-core/config"
	"github.com/openweb3/wallet-core/wallet"
)

// Server REST API server for the local wallet
type Server struct {
	host       string
	port       int
	httpServer *http.Server
	session    *wallet.Session
	wsHub      *api.WSHub
	limiter    *RateLimiter
	handler    http.Handler
}

// NewServer wires the session to the router and the websocket hub
func NewServer(cfg config.Server, session *wallet.Session) *Server {
	wsHub := api.NewWSHub()
	wsHub.SetStateProvider(session.Snapshot)
	session.OnChange(wsHub.BroadcastSessionState)
	limiter := NewRateLimiter(rateLimitConfig(cfg))

	return &Server{
		host:    cfg.Host,
		port:    cfg.RestPort,
		session: session,
		wsHub:   wsHub,
		limiter: limiter,
		handler: setupRouter(session, wsHub, limiter),
	}
}

func rateLimitConfig(cfg config.Server) *RateLimitConfig {
	rc := DefaultRateLimitConfig()
	if cfg.PasswordAttemptsPerMinute > 0 {
		rc.AttemptsPerMinute = cfg.PasswordAttemptsPerMinute
	}
	if cfg.PasswordBurst > 0 {
		rc.BurstSize = cfg.PasswordBurst
	}
	if cfg.PasswordBanSec > 0 {
		rc.BanDuration = time.Duration(cfg.PasswordBanSec) * time.Second
	}
	return rc
}

// Start binds the listener and serves in the background
func (s *Server) Start() error {
	go s.wsHub.Run()

	addr := net.JoinHostPort(s.host, fmt.Sprintf("%d", s.port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		s.wsHub.Stop()
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s.httpServer = &http.Server{
		Handler:      s.handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second, // scrypt on create/unlock
		IdleTimeout:  120 * time.Second,
	}

	logger.Info("REST API Server listening on ", addr)
	logger.Info("WebSocket available at ws://", addr, "/ws")
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			logger.Error("REST API Server error:", err)
		}
	}()

	return nil
}

// Stop API server shutdown
func (s *Server) Stop(ctx context.Context) error {
	logger.Info("Shutting down REST API Server...")
	s.wsHub.Stop()
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

// GetWSHub WebSocket Hub
func (s *Server) GetWSHub() *api.WSHub {
	return s.wsHub
}
