package wallet

import (
	"fmt"

	"github.com/quantumauth-io/cli-wallet/internal/keys"
	"github.com/quantumauth-io/cli-wallet/internal/networks"
)

// Record is one wallet as persisted. Field names match the on-disk format.
type Record struct {
	Name       string      `json:"name"`
	Address    string      `json:"address"`
	PrivateKey keys.Secret `json:"privateKey"`
	Mnemonic   keys.Secret `json:"mnemonic,omitempty"`
	Primary    bool        `json:"primary"`

	networks.Settings
}

// NetworkManager returns a network manager bound to this record.
func (r *Record) NetworkManager(builtin networks.Builtin) *networks.Manager {
	return networks.NewManager(builtin, &r.Settings)
}

// String never includes key material.
func (r Record) String() string {
	return fmt.Sprintf("%s (%s)", r.Name, r.Address)
}

func (r Record) clone() Record {
	out := r
	if r.Settings.Networks != nil {
		out.Settings.Networks = make(map[string]networks.Network, len(r.Settings.Networks))
		for k, n := range r.Settings.Networks {
			n.Tokens = cloneTokens(n.Tokens)
			out.Settings.Networks[k] = n
		}
	}
	out.Settings.Tokens = cloneTokens(r.Settings.Tokens)
	return out
}

func cloneTokens(in []networks.Token) []networks.Token {
	if in == nil {
		return nil
	}
	return append(make([]networks.Token, 0, len(in)), in...)
}
