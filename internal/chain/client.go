// Package chain talks to EVM JSON-RPC endpoints through go-ethereum: balance
// and contract reads, and signing plus submission of transfers.
package chain

import (
	"context"
	"math/big"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Backend is the part of *ethclient.Client the wallet needs.
type Backend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	Close()
}

// Client is a read handle on one endpoint.
type Client struct {
	backend     Backend
	chainID     *big.Int
	callTimeout time.Duration
}

func NewClient(backend Backend, chainID *big.Int, callTimeout time.Duration) *Client {
	return &Client{
		backend:     backend,
		chainID:     new(big.Int).Set(chainID),
		callTimeout: callTimeout,
	}
}

func (c *Client) ChainID() *big.Int { return new(big.Int).Set(c.chainID) }

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.callTimeout)
}

// BalanceAt returns the latest native balance in base units.
func (c *Client) BalanceAt(ctx context.Context, account common.Address) (*big.Int, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	bal, err := c.backend.BalanceAt(ctx, account, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "balance of %s", account.Hex())
	}
	return bal, nil
}

// ReadContract calls a view method of the ERC-20 ABI and returns its decoded outputs.
func (c *Client) ReadContract(ctx context.Context, contract common.Address, method string, args ...any) ([]any, error) {
	data, err := erc20.Pack(method, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "pack %s", method)
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	out, err := c.backend.CallContract(ctx, ethereum.CallMsg{To: &contract, Data: data}, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "call %s on %s", method, contract.Hex())
	}
	if len(out) == 0 {
		return nil, errors.Newf("call %s on %s: empty result (not a contract?)", method, contract.Hex())
	}

	values, err := erc20.Unpack(method, out)
	if err != nil {
		return nil, errors.Wrapf(err, "unpack %s", method)
	}
	return values, nil
}
