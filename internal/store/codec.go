package store

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/quantumauth-io/cli-wallet/internal/constants"
	"github.com/quantumauth-io/cli-wallet/internal/errs"
	"github.com/quantumauth-io/cli-wallet/internal/ethaddr"
	"github.com/quantumauth-io/cli-wallet/internal/networks"
	"github.com/quantumauth-io/cli-wallet/internal/wallet"
)

// ErrUnsupportedSchema is returned for files written by a newer version.
var ErrUnsupportedSchema = errors.New("unsupported wallet file schema")

// RecordSet is the plaintext document stored inside the encrypted envelope.
type RecordSet struct {
	Schema  int             `json:"schema"`
	Wallets []wallet.Record `json:"wallets"`
}

// Encode renders records as a schema 1 record set.
func Encode(records []wallet.Record) ([]byte, error) {
	if records == nil {
		records = []wallet.Record{}
	}
	b, err := json.MarshalIndent(RecordSet{Schema: constants.SchemaV1, Wallets: records}, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "marshal record set")
	}
	return b, nil
}

// Decode parses a record set. Anything that is not a well formed schema 1
// document is reported as corrupt state.
func Decode(b []byte) ([]wallet.Record, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()

	var set RecordSet
	if err := dec.Decode(&set); err != nil {
		return nil, errs.Corrupt(err, "decode record set")
	}
	if dec.More() {
		return nil, errs.Corrupt(errors.New("trailing data"), "decode record set")
	}

	switch {
	case set.Schema == 0:
		return nil, errs.Corrupt(errors.New("missing schema"), "decode record set")
	case set.Schema > constants.SchemaV1:
		return nil, errors.Wrapf(ErrUnsupportedSchema, "schema %d", set.Schema)
	}

	for i, rec := range set.Wallets {
		if !ethaddr.Valid(rec.Address) {
			return nil, errs.Corrupt(errors.Newf("wallet %d: bad address %q", i, rec.Address), "decode record set")
		}
		if rec.PrivateKey == "" {
			return nil, errs.Corrupt(errors.Newf("wallet %d: missing private key", i), "decode record set")
		}
		if err := checkTokens(rec.Settings.Tokens); err != nil {
			return nil, errs.Corrupt(errors.Wrapf(err, "wallet %d", i), "decode record set")
		}
		for name, n := range rec.Settings.Networks {
			if err := checkTokens(n.Tokens); err != nil {
				return nil, errs.Corrupt(errors.Wrapf(err, "wallet %d network %q", i, name), "decode record set")
			}
		}
	}
	if set.Wallets == nil {
		set.Wallets = []wallet.Record{}
	}
	return set.Wallets, nil
}

// checkTokens requires well formed addresses, unique ignoring case.
func checkTokens(tokens []networks.Token) error {
	seen := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		if !ethaddr.Valid(t.Address) {
			return errors.Newf("bad token address %q", t.Address)
		}
		k := strings.ToLower(t.Address)
		if _, dup := seen[k]; dup {
			return errors.Newf("duplicate token %s", t.Address)
		}
		seen[k] = struct{}{}
	}
	return nil
}
