// Package units converts between human decimal amounts and integer base units.
package units

import (
	"math/big"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/quantumauth-io/cli-wallet/internal/errs"
)

// EtherDecimals is the scale of the native asset on every EVM network.
const EtherDecimals uint8 = 18

var decimalPattern = regexp.MustCompile(`^(\d+(\.\d+)?|\.\d+)$`)

// ParseDecimal validates a plain positive decimal string ("1", "0.5", ".25").
// Signs, exponents and fractions are rejected.
func ParseDecimal(s string) (*big.Rat, error) {
	s = strings.TrimSpace(s)
	if !decimalPattern.MatchString(s) {
		return nil, errors.Wrapf(errs.ErrInvalidAmount, "%q is not a decimal number", s)
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, errors.Wrapf(errs.ErrInvalidAmount, "%q is not a decimal number", s)
	}
	if r.Sign() <= 0 {
		return nil, errors.Wrapf(errs.ErrInvalidAmount, "%q must be greater than zero", s)
	}
	return r, nil
}

// ToBaseUnits scales amount by 10^decimals and truncates the remainder toward zero.
func ToBaseUnits(amount *big.Rat, decimals uint8) *big.Int {
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	scaled := new(big.Rat).Mul(amount, new(big.Rat).SetInt(scale))
	// Quo truncates toward zero; scaled is never negative here.
	return new(big.Int).Quo(scaled.Num(), scaled.Denom())
}

// ParseUnits parses s and scales it to base units. A value that truncates
// to zero base units is rejected.
func ParseUnits(s string, decimals uint8) (*big.Int, error) {
	r, err := ParseDecimal(s)
	if err != nil {
		return nil, err
	}
	v := ToBaseUnits(r, decimals)
	if v.Sign() == 0 {
		return nil, errors.Wrapf(errs.ErrAmountTooSmall, "%s with %d decimals", strings.TrimSpace(s), decimals)
	}
	return v, nil
}

// FormatUnitsTrim converts a token balance to a human string:
// - divides by 10^decimals
// - trims to maxFrac decimal places
// - removes trailing zeros
//
// Examples:
//
//	balance=1234500000000000000, decimals=18 -> "1.2345"
//	balance=1000000000000000000, decimals=18 -> "1"
//	balance=1, decimals=18 -> "0.000000000000000001"
func FormatUnitsTrim(amount *big.Int, decimals uint8, maxFrac int) string {
	if amount == nil || amount.Sign() == 0 {
		return "0"
	}

	base := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)

	intPart := new(big.Int).Div(amount, base)
	fracPart := new(big.Int).Mod(amount, base)

	if fracPart.Sign() == 0 || maxFrac <= 0 {
		return intPart.String()
	}

	// Left-pad fractional part to `decimals`
	fracStr := fracPart.String()
	if len(fracStr) < int(decimals) {
		fracStr = strings.Repeat("0", int(decimals)-len(fracStr)) + fracStr
	}

	if len(fracStr) > maxFrac {
		fracStr = fracStr[:maxFrac]
	}

	fracStr = strings.TrimRight(fracStr, "0")
	if fracStr == "" {
		return intPart.String()
	}

	return intPart.String() + "." + fracStr
}

// FormatFixed renders amount with exactly frac fractional digits, truncated.
func FormatFixed(amount *big.Int, decimals uint8, frac int) string {
	if amount == nil {
		amount = new(big.Int)
	}
	base := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	intPart := new(big.Int).Div(amount, base)
	if frac <= 0 {
		return intPart.String()
	}

	fracStr := new(big.Int).Mod(amount, base).String()
	if len(fracStr) < int(decimals) {
		fracStr = strings.Repeat("0", int(decimals)-len(fracStr)) + fracStr
	}
	if len(fracStr) > frac {
		fracStr = fracStr[:frac]
	} else {
		fracStr += strings.Repeat("0", frac-len(fracStr))
	}
	return intPart.String() + "." + fracStr
}
