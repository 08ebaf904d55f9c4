// Package keys creates and imports secp256k1 key material for wallets.
package keys

import (
	"crypto/ecdsa"
	"encoding/hex"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/tyler-smith/go-bip39"

	"github.com/quantumauth-io/cli-wallet/internal/errs"
)

// Secret is sensitive text. It prints as [redacted] through fmt so it cannot
// leak into logs by accident; JSON encoding keeps the real value.
type Secret string

func (Secret) String() string   { return "[redacted]" }
func (Secret) GoString() string { return "[redacted]" }

// Reveal returns the underlying value.
func (s Secret) Reveal() string { return string(s) }

// DerivationPath is the default Ethereum account path m/44'/60'/0'/0/0.
var DerivationPath = []uint32{
	hdkeychain.HardenedKeyStart + 44,
	hdkeychain.HardenedKeyStart + 60,
	hdkeychain.HardenedKeyStart + 0,
	0,
	0,
}

// Material is a key together with the phrase it came from, if any.
type Material struct {
	Address    common.Address
	PrivateKey Secret
	Mnemonic   Secret
}

// Generate creates a fresh 12-word mnemonic and derives the first account.
func Generate() (*Material, error) {
	entropy, err := bip39.NewEntropy(128)
	if err != nil {
		return nil, errors.Wrap(err, "generate entropy")
	}
	phrase, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return nil, errors.Wrap(err, "generate mnemonic")
	}
	return FromMnemonic(phrase)
}

// FromMnemonic derives the account at DerivationPath from a BIP-39 phrase.
func FromMnemonic(phrase string) (*Material, error) {
	phrase = strings.Join(strings.Fields(phrase), " ")
	if !bip39.IsMnemonicValid(phrase) {
		return nil, errs.ErrInvalidMnemonic
	}

	seed := bip39.NewSeed(phrase, "")
	node, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, errors.Wrap(err, "master key")
	}
	for _, idx := range DerivationPath {
		node, err = node.Derive(idx)
		if err != nil {
			return nil, errors.Wrap(err, "derive child key")
		}
	}

	btcKey, err := node.ECPrivKey()
	if err != nil {
		return nil, errors.Wrap(err, "extract private key")
	}
	key, err := crypto.ToECDSA(btcKey.Serialize())
	if err != nil {
		return nil, errors.Wrap(err, "to ecdsa")
	}

	m := fromKey(key)
	m.Mnemonic = Secret(phrase)
	return m, nil
}

// FromPrivateKey imports a raw hex private key, with or without 0x.
func FromPrivateKey(hexKey string) (*Material, error) {
	key, err := ParsePrivateKey(Secret(hexKey))
	if err != nil {
		return nil, err
	}
	return fromKey(key), nil
}

// ParsePrivateKey decodes a stored key.
func ParsePrivateKey(s Secret) (*ecdsa.PrivateKey, error) {
	h := strings.TrimSpace(s.Reveal())
	if len(h) >= 2 && (h[0:2] == "0x" || h[0:2] == "0X") {
		h = h[2:]
	}
	// must be 32 bytes for secp256k1 private key
	if len(h) != 64 {
		return nil, errors.Wrapf(errs.ErrInvalidKey, "got %d hex chars, want 64", len(h))
	}
	key, err := crypto.HexToECDSA(h)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "decode private key"), errs.ErrValidation)
	}
	return key, nil
}

func fromKey(key *ecdsa.PrivateKey) *Material {
	return &Material{
		Address:    crypto.PubkeyToAddress(key.PublicKey),
		PrivateKey: Secret("0x" + hex.EncodeToString(crypto.FromECDSA(key))),
	}
}
