// Package errs defines the error kinds shared by the wallet core.
//
// Every specific error is marked with exactly one kind so callers can
// classify with errors.Is(err, errs.ErrValidation) without knowing the
// concrete error.
package errs

import "github.com/cockroachdb/errors"

// Kinds.
var (
	ErrValidation        = errors.New("validation error")
	ErrStateInvariant    = errors.New("state invariant violated")
	ErrNotFound          = errors.New("not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrChain             = errors.New("chain error")
	ErrCorruptState      = errors.New("corrupt state")
)

// Validation errors. No I/O happens before these are returned.
var (
	ErrEmptyName       = errors.Mark(errors.New("name must not be empty"), ErrValidation)
	ErrEmptyField      = errors.Mark(errors.New("required field is empty"), ErrValidation)
	ErrInvalidAddress  = errors.Mark(errors.New("invalid address"), ErrValidation)
	ErrInvalidAmount   = errors.Mark(errors.New("invalid amount"), ErrValidation)
	ErrAmountTooSmall  = errors.Mark(errors.New("amount is below the smallest unit"), ErrValidation)
	ErrInvalidURL      = errors.Mark(errors.New("rpc url must start with http:// or https://"), ErrValidation)
	ErrInvalidKey      = errors.Mark(errors.New("invalid private key"), ErrValidation)
	ErrInvalidMnemonic = errors.Mark(errors.New("invalid mnemonic phrase"), ErrValidation)
	ErrInvalidSelector = errors.Mark(errors.New("invalid asset selection"), ErrValidation)
)

// Invariant errors.
var (
	ErrDuplicateName    = errors.Mark(errors.New("wallet name already exists"), ErrStateInvariant)
	ErrDuplicateAddress = errors.Mark(errors.New("wallet address already registered"), ErrStateInvariant)
	ErrReservedName     = errors.Mark(errors.New("network name is reserved"), ErrStateInvariant)
	ErrDuplicateNetwork = errors.Mark(errors.New("network already exists"), ErrStateInvariant)
)

// Lookup errors.
var (
	ErrWalletNotFound  = errors.Mark(errors.New("wallet not found"), ErrNotFound)
	ErrNetworkNotFound = errors.Mark(errors.New("network not found"), ErrNotFound)
	ErrTokenNotFound   = errors.Mark(errors.New("token not found"), ErrNotFound)
	ErrAssetNotFound   = errors.Mark(errors.New("asset not found"), ErrNotFound)
)

// Chain wraps a collaborator failure and marks it as ErrChain.
func Chain(err error, msg string) error {
	if err == nil {
		return nil
	}
	return errors.Mark(errors.Wrap(err, msg), ErrChain)
}

// Corrupt wraps a decode failure of persisted state and marks it as ErrCorruptState.
func Corrupt(err error, msg string) error {
	if err == nil {
		return nil
	}
	return errors.Mark(errors.Wrap(err, msg), ErrCorruptState)
}

// Kind returns the name of the kind err belongs to, or "" when unclassified.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrStateInvariant):
		return "invariant"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrChain):
		return "chain"
	case errors.Is(err, ErrCorruptState):
		return "corrupt_state"
	default:
		return ""
	}
}
