// Package assets lists what a wallet can send on its active network and
// reads balances for those assets.
package assets

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/quantumauth-io/cli-wallet/internal/errs"
	"github.com/quantumauth-io/cli-wallet/internal/ethaddr"
	"github.com/quantumauth-io/cli-wallet/internal/networks"
	"github.com/quantumauth-io/cli-wallet/internal/units"
	"github.com/quantumauth-io/cli-wallet/internal/wallet"
)

// Asset is either Native or Token.
type Asset interface {
	isAsset()
}

// Native is the chain's own currency.
type Native struct {
	Symbol string
}

// Token is an ERC-20 contract configured on the active network.
type Token struct {
	Name     string
	Symbol   string
	Decimals uint8
	Address  string
}

func (Native) isAsset() {}
func (Token) isAsset()  {}

func (n Native) String() string { return n.Symbol + " (native)" }
func (t Token) String() string {
	return fmt.Sprintf("%s (%s)", t.Symbol, ethaddr.Short(t.Address))
}

// SymbolOf returns the ticker shown for a.
func SymbolOf(a Asset) string {
	switch v := a.(type) {
	case Native:
		return v.Symbol
	case Token:
		return v.Symbol
	default:
		panic(fmt.Sprintf("unknown asset %T", a))
	}
}

// DecimalsOf returns the number of fractional digits of a's base unit.
func DecimalsOf(a Asset) uint8 {
	switch v := a.(type) {
	case Native:
		return units.EtherDecimals
	case Token:
		return v.Decimals
	default:
		panic(fmt.Sprintf("unknown asset %T", a))
	}
}

// Resolve lists the active network's assets: native first, then tokens in
// stored order.
func Resolve(rec wallet.Record, builtin networks.Builtin) []Asset {
	active := rec.NetworkManager(builtin).Active()

	out := make([]Asset, 0, len(active.Tokens)+1)
	out = append(out, Native{Symbol: active.Symbol})
	for _, t := range active.Tokens {
		out = append(out, Token{
			Name:     t.Name,
			Symbol:   t.Symbol,
			Decimals: t.Decimals,
			Address:  t.Address,
		})
	}
	return out
}

// Select picks an asset by its 1-based position, by symbol when exactly one
// asset carries it, or by token contract address.
func Select(list []Asset, selector string) (Asset, error) {
	sel := strings.TrimSpace(selector)
	if sel == "" {
		return nil, errors.Wrap(errs.ErrInvalidSelector, "empty selection")
	}

	if n, err := strconv.Atoi(sel); err == nil {
		if n < 1 || n > len(list) {
			return nil, errors.Wrapf(errs.ErrAssetNotFound, "no asset #%d", n)
		}
		return list[n-1], nil
	}

	if ethaddr.Valid(sel) {
		for _, a := range list {
			if t, ok := a.(Token); ok && ethaddr.Equal(t.Address, sel) {
				return t, nil
			}
		}
		return nil, errors.Wrapf(errs.ErrAssetNotFound, "no token at %s", sel)
	}

	var matches []Asset
	for _, a := range list {
		if strings.EqualFold(SymbolOf(a), sel) {
			matches = append(matches, a)
		}
	}
	switch len(matches) {
	case 0:
		return nil, errors.Wrapf(errs.ErrAssetNotFound, "%q", sel)
	case 1:
		return matches[0], nil
	default:
		return nil, errors.Wrapf(errs.ErrInvalidSelector, "%q matches %d assets, pick by number or address", sel, len(matches))
	}
}
