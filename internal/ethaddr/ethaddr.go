// Package ethaddr holds the one address rule used everywhere: "0x" followed
// by 40 hex characters, compared case-insensitively.
package ethaddr

import (
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"

	"github.com/quantumauth-io/cli-wallet/internal/errs"
)

var pattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// Valid reports whether s has the canonical address shape.
func Valid(s string) bool {
	return pattern.MatchString(s)
}

// Parse validates s and returns the address.
func Parse(s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if !Valid(s) {
		return common.Address{}, errors.Wrapf(errs.ErrInvalidAddress, "%q", s)
	}
	return common.HexToAddress(s), nil
}

// Canonical returns the EIP-55 checksummed form of a valid address.
func Canonical(s string) (string, error) {
	a, err := Parse(s)
	if err != nil {
		return "", err
	}
	return a.Hex(), nil
}

// Equal compares two addresses ignoring case.
func Equal(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// Short renders 0x1234...abcd for display.
func Short(s string) string {
	if len(s) < 10 {
		return s
	}
	return s[:6] + "..." + s[len(s)-4:]
}
