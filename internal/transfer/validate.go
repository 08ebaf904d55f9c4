package transfer

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/quantumauth-io/cli-wallet/internal/assets"
	"github.com/quantumauth-io/cli-wallet/internal/ethaddr"
	"github.com/quantumauth-io/cli-wallet/internal/units"
)

// Validate checks destination shape, token contract shape and amount, and
// scales the amount to the asset's base units, truncating toward zero. It
// performs no I/O.
func Validate(a assets.Asset, e Entry) (Planned, error) {
	e.Destination = strings.TrimSpace(e.Destination)
	e.Amount = strings.TrimSpace(e.Amount)

	to, err := ethaddr.Parse(e.Destination)
	if err != nil {
		return Planned{}, errors.Wrap(err, "destination")
	}
	value, err := units.ParseUnits(e.Amount, assets.DecimalsOf(a))
	if err != nil {
		return Planned{}, errors.Wrap(err, "amount")
	}
	planned := Planned{Entry: e, To: to, Value: value}
	if t, ok := a.(assets.Token); ok {
		c, err := ethaddr.Parse(t.Address)
		if err != nil {
			return Planned{}, errors.Wrap(err, "token contract")
		}
		planned.Contract = c
	}
	return planned, nil
}
