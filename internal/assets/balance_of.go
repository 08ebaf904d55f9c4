package assets

import (
	"context"
	"math/big"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"

	"github.com/quantumauth-io/cli-wallet/internal/errs"
	"github.com/quantumauth-io/cli-wallet/internal/ethaddr"
	"github.com/quantumauth-io/cli-wallet/internal/networks"
	"github.com/quantumauth-io/cli-wallet/internal/units"
	"github.com/quantumauth-io/cli-wallet/internal/wallet"
)

// DisplayDecimals is how many fractional digits balances are shown with.
const DisplayDecimals = 4

// Reader is the read side of a chain client.
type Reader interface {
	BalanceAt(ctx context.Context, account common.Address) (*big.Int, error)
	ReadContract(ctx context.Context, contract common.Address, method string, args ...any) ([]any, error)
}

// Amount is a balance in base units together with its scale.
type Amount struct {
	Raw      *big.Int
	Decimals uint8
}

func (a Amount) String() string {
	return units.FormatFixed(a.Raw, a.Decimals, DisplayDecimals)
}

// Cmp compares two amounts of the same scale.
func (a Amount) Cmp(b *big.Int) int { return a.Raw.Cmp(b) }

// NativeBalance reads the native balance of owner.
func NativeBalance(ctx context.Context, r Reader, owner common.Address) (Amount, error) {
	wei, err := r.BalanceAt(ctx, owner)
	if err != nil {
		return Amount{}, errs.Chain(err, "native balance")
	}
	return Amount{Raw: wei, Decimals: units.EtherDecimals}, nil
}

// TokenBalance reads owner's balance of token, scaled by the token's decimals.
func TokenBalance(ctx context.Context, r Reader, token Token, owner common.Address) (Amount, error) {
	contract, err := ethaddr.Parse(token.Address)
	if err != nil {
		return Amount{}, err
	}
	out, err := r.ReadContract(ctx, contract, "balanceOf", owner)
	if err != nil {
		return Amount{}, errs.Chain(err, "erc20 balanceOf")
	}
	if len(out) != 1 {
		return Amount{}, errs.Chain(errors.Newf("got %d values", len(out)), "erc20 balanceOf")
	}
	bal, ok := out[0].(*big.Int)
	if !ok {
		return Amount{}, errs.Chain(errors.Newf("unexpected %T", out[0]), "erc20 balanceOf")
	}
	return Amount{Raw: bal, Decimals: token.Decimals}, nil
}

// Balance dispatches on the asset kind.
func Balance(ctx context.Context, r Reader, a Asset, owner common.Address) (Amount, error) {
	switch v := a.(type) {
	case Native:
		return NativeBalance(ctx, r, owner)
	case Token:
		return TokenBalance(ctx, r, v, owner)
	default:
		return Amount{}, errors.Newf("unknown asset %T", a)
	}
}

// Holding is one line of a balance snapshot. Err is set when the read failed.
type Holding struct {
	Asset   Asset
	Balance Amount
	Err     error
}

// Snapshot reads every asset of the wallet's active network. A failed read
// is recorded on its holding and does not stop the others.
func Snapshot(ctx context.Context, r Reader, rec wallet.Record, builtin networks.Builtin) ([]Holding, error) {
	owner, err := ethaddr.Parse(rec.Address)
	if err != nil {
		return nil, err
	}

	list := Resolve(rec, builtin)
	out := make([]Holding, 0, len(list))
	for _, a := range list {
		bal, err := Balance(ctx, r, a, owner)
		out = append(out, Holding{Asset: a, Balance: bal, Err: err})
	}
	return out, nil
}
