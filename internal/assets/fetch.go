package assets

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"

	"github.com/quantumauth-io/cli-wallet/internal/errs"
	"github.com/quantumauth-io/cli-wallet/internal/ethaddr"
	"github.com/quantumauth-io/cli-wallet/internal/networks"
)

// FetchMetadata reads name, symbol and decimals from an ERC-20 contract.
// The name is optional; symbol and decimals are not.
func FetchMetadata(ctx context.Context, r Reader, address string) (networks.TokenMeta, error) {
	contract, err := ethaddr.Parse(address)
	if err != nil {
		return networks.TokenMeta{}, err
	}

	sym, err := readString(ctx, r, contract, "symbol")
	if err != nil {
		return networks.TokenMeta{}, err
	}

	out, err := r.ReadContract(ctx, contract, "decimals")
	if err != nil {
		return networks.TokenMeta{}, errs.Chain(err, "erc20 decimals")
	}
	if len(out) != 1 {
		return networks.TokenMeta{}, errs.Chain(errors.Newf("got %d values", len(out)), "erc20 decimals")
	}
	dec, ok := out[0].(uint8)
	if !ok {
		return networks.TokenMeta{}, errs.Chain(errors.Newf("unexpected %T", out[0]), "erc20 decimals")
	}

	name := ""
	if n, err := readString(ctx, r, contract, "name"); err == nil {
		name = n
	}

	return networks.TokenMeta{Name: name, Symbol: sym, Decimals: dec}, nil
}

func readString(ctx context.Context, r Reader, contract common.Address, method string) (string, error) {
	out, err := r.ReadContract(ctx, contract, method)
	if err != nil {
		return "", errs.Chain(err, "erc20 "+method)
	}
	if len(out) != 1 {
		return "", errs.Chain(errors.Newf("got %d values", len(out)), "erc20 "+method)
	}
	s, ok := out[0].(string)
	if !ok {
		return "", errs.Chain(errors.Newf("unexpected %T", out[0]), "erc20 "+method)
	}
	return strings.TrimSpace(s), nil
}
