package store

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/quantumauth-io/cli-wallet/internal/errs"
	"github.com/quantumauth-io/cli-wallet/internal/ethaddr"
	"github.com/quantumauth-io/cli-wallet/internal/keys"
	"github.com/quantumauth-io/cli-wallet/internal/networks"
	"github.com/quantumauth-io/cli-wallet/internal/wallet"
)

type legacyWallet struct {
	Name           string                      `json:"name"`
	Address        string                      `json:"address"`
	PrivateKey     string                      `json:"privateKey"`
	Mnemonic       string                      `json:"mnemonic"`
	Primary        bool                        `json:"primary"`
	Networks       map[string]networks.Network `json:"networks"`
	CurrentNetwork string                      `json:"currentNetwork"`
}

// ReadLegacy parses the older plaintext wallet list (a bare JSON array).
// Networks and tokens are replayed through networks.Manager so they obey the
// same rules as interactive edits; entries it rejects are returned as notes.
// Tokens stored under the built-in network name move to the built-in token
// list, and the address is recomputed from the key.
func ReadLegacy(path string, builtin networks.Builtin) ([]wallet.Record, []string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "read %s", path)
	}
	return DecodeLegacy(b, builtin)
}

func DecodeLegacy(b []byte, builtin networks.Builtin) ([]wallet.Record, []string, error) {
	var in []legacyWallet
	if err := json.Unmarshal(b, &in); err != nil {
		return nil, nil, errs.Corrupt(err, "decode legacy wallet list")
	}

	var skipped []string
	out := make([]wallet.Record, 0, len(in))
	for i, lw := range in {
		m, err := keys.FromPrivateKey(lw.PrivateKey)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "legacy wallet %d", i)
		}
		if lw.Address != "" && !ethaddr.Equal(lw.Address, m.Address.Hex()) {
			return nil, nil, errs.Corrupt(errors.Newf("legacy wallet %d: address does not match key", i), "decode legacy wallet list")
		}

		rec := wallet.Record{
			Name:       strings.TrimSpace(lw.Name),
			Address:    m.Address.Hex(),
			PrivateKey: m.PrivateKey,
			Mnemonic:   keys.Secret(strings.TrimSpace(lw.Mnemonic)),
			Primary:    lw.Primary,
		}
		label := rec.Name
		if label == "" {
			label = fmt.Sprintf("wallet %d", i)
		}
		skipped = append(skipped, replayNetworks(builtin, &rec.Settings, lw, label)...)
		out = append(out, rec)
	}
	return out, skipped, nil
}

func replayNetworks(builtin networks.Builtin, settings *networks.Settings, lw legacyWallet, label string) []string {
	var notes []string
	mgr := networks.NewManager(builtin, settings)

	names := make([]string, 0, len(lw.Networks))
	for name := range lw.Networks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		n := lw.Networks[name]
		if strings.EqualFold(strings.TrimSpace(name), builtin.Name) {
			if _, err := mgr.SwitchNetwork(builtin.Name); err != nil {
				notes = append(notes, fmt.Sprintf("%s: network %q: %v", label, name, err))
				continue
			}
		} else {
			symbol := strings.TrimSpace(n.Symbol)
			if symbol == "" {
				symbol = networks.DefaultNativeSymbol
			}
			if _, err := mgr.AddNetwork(name, symbol, n.RPC); err != nil {
				notes = append(notes, fmt.Sprintf("%s: network %q: %v", label, name, err))
				continue
			}
			if _, err := mgr.SwitchNetwork(name); err != nil {
				notes = append(notes, fmt.Sprintf("%s: network %q: %v", label, name, err))
				continue
			}
		}

		for _, t := range n.Tokens {
			meta := networks.TokenMeta{Name: t.Name, Symbol: t.Symbol, Decimals: t.Decimals}
			_, added, err := mgr.AddToken(t.Address, meta)
			switch {
			case err != nil:
				notes = append(notes, fmt.Sprintf("%s: token %q on %s: %v", label, t.Address, name, err))
			case !added:
				notes = append(notes, fmt.Sprintf("%s: token %q on %s: duplicate", label, t.Address, name))
			}
		}
	}

	if _, err := mgr.SwitchNetwork(lw.CurrentNetwork); err != nil {
		_, _ = mgr.SwitchNetwork(builtin.Name)
	}
	return notes
}
