package ethclient

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"
)

// Client wraps the Ethereum client. The embedded client satisfies the
// go-ethereum bind backends used by the contract bindings and the
// confirmation waiter.
type Client struct {
	*ethclient.Client
	chainID *big.Int
}

// Dial connects to nodeURL and caches its chain id.
func Dial(ctx context.Context, nodeURL string) (*Client, error) {
	client, err := ethclient.DialContext(ctx, nodeURL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect to the Ethereum client at %s", nodeURL)
	}
	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, errors.Wrap(err, "failed to retrieve the chain ID")
	}
	return &Client{Client: client, chainID: chainID}, nil
}

// GetChainID returns the chain id read at dial time.
func (c *Client) GetChainID() *big.Int {
	return new(big.Int).Set(c.chainID)
}

// GetCurrentBlockNumber returns the current block number.
func (c *Client) GetCurrentBlockNumber(ctx context.Context) (uint64, error) {
	return c.Client.BlockNumber(ctx)
}

// GetAccountBalance returns the balance of the specified account.
func (c *Client) GetAccountBalance(ctx context.Context, account common.Address) (*big.Int, error) {
	balance, err := c.Client.BalanceAt(ctx, account, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get balance of %s", account)
	}
	return balance, nil
}

// RPC returns the underlying rpc client for calls the typed client lacks.
func (c *Client) RPC() *rpc.Client {
	return c.Client.Client()
}
