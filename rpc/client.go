package rpc

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/openweb3/wallet-core/config"
)

const defaultTimeout = 10 * time.Second

// Client is a thin JSON-RPC client for the balance lookups of the wallet
type Client struct {
	eth     *ethclient.Client
	url     string
	timeout time.Duration
}

func Dial(ctx context.Context, url string, timeout time.Duration) (*Client, error) {
	if url == "" {
		return nil, fmt.Errorf("rpc url is empty")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	eth, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial rpc %s: %w", url, err)
	}
	return &Client{eth: eth, url: url, timeout: timeout}, nil
}

// DialConfig returns nil without error when no endpoint is configured
func DialConfig(ctx context.Context, cfg config.RPC) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}
	return Dial(ctx, cfg.URL, time.Duration(cfg.TimeoutSec)*time.Second)
}

// BalanceAt returns the wei balance of account; a nil blockNumber means latest
func (c *Client) BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	wei, err := c.eth.BalanceAt(ctx, account, blockNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance of %s: %w", account.Hex(), err)
	}
	return wei, nil
}

func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.eth.ChainID(ctx)
}

func (c *Client) URL() string {
	return c.url
}

func (c *Client) Close() {
	c.eth.Close()
}
