package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/openweb3/wallet-core/api/rest"
	"github.com/openweb3/wallet-core/common/logger"
	conf "github.com/openweb3/wallet-core/config"
	"github.com/openweb3/wallet-core/rpc"
	"github.com/openweb3/wallet-core/storage"
	"github.com/openweb3/wallet-core/wallet"
)

type App struct {
	stop       chan struct{}
	Conf       conf.Config
	Store      storage.Store
	RPC        *rpc.Client
	Session    *wallet.Session
	restServer *rest.Server
}

// New builds the daemon: config, logger, store, codec, balance client, session, REST server
func New(configPath string) (*App, error) {
	cfg, err := conf.NewConfig(configPath)
	if err != nil {
		fmt.Println("Failed to initialized application: ", err)
		return nil, err
	}

	if err := logger.InitLogger(cfg); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		return nil, err
	}

	return NewWithConfig(cfg)
}

// NewWithConfig composes the app from an already loaded config
func NewWithConfig(cfg *conf.Config) (*App, error) {
	store, err := storage.Open(cfg)
	if err != nil {
		logger.Error("Failed to load db: ", err)
		return nil, err
	}

	var opts []wallet.Option
	client, err := rpc.DialConfig(context.Background(), cfg.RPC)
	if err != nil {
		// balances fall back to "0.0"
		logger.Warn("Failed to connect rpc, balances disabled: ", err)
	}
	if client != nil {
		opts = append(opts, wallet.WithBalanceReader(client))
		logger.Info("rpc provider: ", client.URL())
	}

	session, err := wallet.NewSession(store, wallet.NewCodecFromConfig(cfg.Keystore), opts...)
	if err != nil {
		logger.Error("Failed to start wallet session: ", err)
		store.Close()
		if client != nil {
			client.Close()
		}
		return nil, err
	}

	app := &App{
		stop:    make(chan struct{}),
		Conf:    *cfg,
		Store:   store,
		RPC:     client,
		Session: session,
	}
	app.restServer = rest.NewServer(cfg.Server, session)

	return app, nil
}

func (p *App) NewRest() error {
	if err := p.restServer.Start(); err != nil {
		return fmt.Errorf("failed to start REST API server: %w", err)
	}

	logger.Info("All services started")
	return nil
}

// Cleanup locks the session and releases every resource
func (p *App) Cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if p.restServer != nil {
		if err := p.restServer.Stop(ctx); err != nil {
			logger.Error("Error stopping REST API server:", err)
		}
	}

	// wipe key material before exit
	if p.Session != nil {
		p.Session.LockWallet()
	}

	if p.RPC != nil {
		p.RPC.Close()
	}

	if p.Store != nil {
		if err := p.Store.Close(); err != nil {
			logger.Error("Error closing DB connection:", err)
		}
	}

	logger.Info("All resources cleaned up")
	logger.Sync()
}

func (p *App) Wait() {
	<-p.stop
}

func (p *App) Terminate() {
	p.Cleanup()
	close(p.stop)
}

func (p *App) SigHandler() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("Arrived terminate signal: ", sig)
		p.Terminate()
	}()
}
