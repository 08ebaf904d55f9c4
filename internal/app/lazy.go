package app

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/quantumauth-io/cli-wallet/internal/assets"
	"github.com/quantumauth-io/cli-wallet/internal/errs"
	"github.com/quantumauth-io/cli-wallet/internal/keys"
	"github.com/quantumauth-io/cli-wallet/internal/transfer"
)

// lazyChain connects on first use, so a transfer rejected by validation
// never touches the network.
type lazyChain struct {
	provider ChainProvider
	rpc      string
	key      keys.Secret
	address  common.Address

	reader assets.Reader
	signer transfer.Signer
}

func (l *lazyChain) getReader(ctx context.Context) (assets.Reader, error) {
	if l.reader == nil {
		r, err := l.provider.Reader(ctx, l.rpc)
		if err != nil {
			return nil, errs.Chain(err, "connect")
		}
		l.reader = r
	}
	return l.reader, nil
}

func (l *lazyChain) getSigner(ctx context.Context) (transfer.Signer, error) {
	if l.signer == nil {
		s, err := l.provider.Signer(ctx, l.rpc, l.key)
		if err != nil {
			return nil, errs.Chain(err, "connect")
		}
		l.signer = s
	}
	return l.signer, nil
}

func (l *lazyChain) Address() common.Address { return l.address }

func (l *lazyChain) BalanceAt(ctx context.Context, account common.Address) (*big.Int, error) {
	r, err := l.getReader(ctx)
	if err != nil {
		return nil, err
	}
	return r.BalanceAt(ctx, account)
}

func (l *lazyChain) ReadContract(ctx context.Context, contract common.Address, method string, args ...any) ([]any, error) {
	r, err := l.getReader(ctx)
	if err != nil {
		return nil, err
	}
	return r.ReadContract(ctx, contract, method, args...)
}

func (l *lazyChain) SendNative(ctx context.Context, to common.Address, value *big.Int) (common.Hash, error) {
	s, err := l.getSigner(ctx)
	if err != nil {
		return common.Hash{}, err
	}
	return s.SendNative(ctx, to, value)
}

func (l *lazyChain) CallContract(ctx context.Context, contract common.Address, method string, args ...any) (common.Hash, error) {
	s, err := l.getSigner(ctx)
	if err != nil {
		return common.Hash{}, err
	}
	return s.CallContract(ctx, contract, method, args...)
}
