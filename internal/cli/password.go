package cli

import (
	"bytes"
	"context"

	"github.com/cockroachdb/errors"

	"github.com/quantumauth-io/cli-wallet/internal/securefile"
)

const minPasswordLen = 8

var ErrPasswordMismatch = errors.New("passwords do not match")

// ValidatePassword applies the rules for a new wallet file password.
func ValidatePassword(pw []byte) error {
	if len(pw) < minPasswordLen {
		return errors.Newf("password must be at least %d characters long", minPasswordLen)
	}
	for _, b := range pw {
		if !isAllowedPasswordChar(b) {
			return errors.New("password contains invalid characters (use printable ASCII only)")
		}
	}
	return nil
}

// printable ASCII, space excluded
func isAllowedPasswordChar(b byte) bool {
	return b > 0x20 && b < 0x7f
}

// readPassword asks for the wallet file password. A new file needs the
// password twice.
func readPassword(ctx context.Context, t *Terminal, newFile bool) ([]byte, error) {
	if !newFile {
		pw, err := t.secretBytes(ctx, "Wallet password: ")
		if err != nil {
			return nil, err
		}
		if len(pw) == 0 {
			return nil, errors.New("password must not be empty")
		}
		return pw, nil
	}

	t.Notify("No wallet file yet. Choose a password to encrypt it.")
	pw, err := t.secretBytes(ctx, "New password: ")
	if err != nil {
		return nil, err
	}
	if err := ValidatePassword(pw); err != nil {
		securefile.ZeroBytes(pw)
		return nil, err
	}
	again, err := t.secretBytes(ctx, "Repeat password: ")
	if err != nil {
		securefile.ZeroBytes(pw)
		return nil, err
	}
	defer securefile.ZeroBytes(again)
	if !bytes.Equal(pw, again) {
		securefile.ZeroBytes(pw)
		return nil, ErrPasswordMismatch
	}
	return pw, nil
}
