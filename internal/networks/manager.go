// Package networks manages the built-in and custom networks of one wallet
// and the token list configured on each of them.
package networks

import (
	"net/url"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/quantumauth-io/cli-wallet/internal/errs"
	"github.com/quantumauth-io/cli-wallet/internal/ethaddr"
)

type Manager struct {
	builtin  Builtin
	settings *Settings
}

// NewManager scopes a manager to settings. Mutations are applied in place.
func NewManager(builtin Builtin, settings *Settings) *Manager {
	if settings.Networks == nil {
		settings.Networks = map[string]Network{}
	}
	if strings.TrimSpace(settings.CurrentNetwork) == "" {
		settings.CurrentNetwork = builtin.Name
	}
	return &Manager{builtin: builtin, settings: settings}
}

func (m *Manager) isBuiltin(name string) bool {
	return strings.EqualFold(strings.TrimSpace(name), m.builtin.Name)
}

// lookup resolves name to its stored key, ignoring case.
func (m *Manager) lookup(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if _, ok := m.settings.Networks[name]; ok {
		return name, true
	}
	for k := range m.settings.Networks {
		if strings.EqualFold(k, name) {
			return k, true
		}
	}
	return "", false
}

func (m *Manager) AddNetwork(name, symbol, rpc string) (Network, error) {
	name = strings.TrimSpace(name)
	symbol = strings.TrimSpace(symbol)
	rpc = strings.TrimSpace(rpc)

	if name == "" {
		return Network{}, errors.Wrap(errs.ErrEmptyField, "network name")
	}
	if symbol == "" {
		return Network{}, errors.Wrap(errs.ErrEmptyField, "network symbol")
	}
	if m.isBuiltin(name) {
		return Network{}, errors.Wrapf(errs.ErrReservedName, "%q", name)
	}
	if err := ValidateRPC(rpc); err != nil {
		return Network{}, err
	}
	if key, ok := m.lookup(name); ok {
		return Network{}, errors.Wrapf(errs.ErrDuplicateNetwork, "%q", key)
	}

	n := Network{RPC: rpc, Symbol: symbol, Tokens: []Token{}}
	m.settings.Networks[name] = n
	return n, nil
}

func (m *Manager) SwitchNetwork(name string) (Active, error) {
	if m.isBuiltin(name) {
		m.settings.CurrentNetwork = m.builtin.Name
		return m.Active(), nil
	}
	key, ok := m.lookup(name)
	if !ok {
		return Active{}, errors.Wrapf(errs.ErrNetworkNotFound, "%q", strings.TrimSpace(name))
	}
	m.settings.CurrentNetwork = key
	return m.Active(), nil
}

// Active resolves the current network. A current name that no longer exists
// resolves to the built-in network.
func (m *Manager) Active() Active {
	if !m.isBuiltin(m.settings.CurrentNetwork) {
		if key, ok := m.lookup(m.settings.CurrentNetwork); ok {
			n := m.settings.Networks[key]
			symbol := strings.TrimSpace(n.Symbol)
			if symbol == "" {
				symbol = DefaultNativeSymbol
			}
			return Active{
				Name:   key,
				RPC:    n.RPC,
				Symbol: symbol,
				Tokens: append([]Token(nil), n.Tokens...),
			}
		}
	}
	return Active{
		Name:    m.builtin.Name,
		Builtin: true,
		RPC:     m.builtin.RPC,
		Symbol:  m.builtin.Symbol,
		Tokens:  append([]Token(nil), m.settings.Tokens...),
	}
}

// List returns the built-in name first, then custom names sorted.
func (m *Manager) List() []string {
	custom := make([]string, 0, len(m.settings.Networks))
	for k := range m.settings.Networks {
		if m.isBuiltin(k) {
			continue
		}
		custom = append(custom, k)
	}
	sort.Strings(custom)
	return append([]string{m.builtin.Name}, custom...)
}

// Tokens returns the active network's tokens in insertion order.
func (m *Manager) Tokens() []Token {
	return m.Active().Tokens
}

// AddToken appends a token to the active network. An address that is already
// present is not an error: added is false and the list is unchanged.
func (m *Manager) AddToken(address string, meta TokenMeta) (Token, bool, error) {
	canon, err := ethaddr.Canonical(address)
	if err != nil {
		return Token{}, false, err
	}

	tokens := m.Tokens()
	for _, t := range tokens {
		if ethaddr.Equal(t.Address, canon) {
			return t, false, nil
		}
	}

	tok := Token{
		Name:     strings.TrimSpace(meta.Name),
		Symbol:   strings.TrimSpace(meta.Symbol),
		Decimals: meta.Decimals,
		Address:  canon,
	}
	m.setTokens(append(tokens, tok))
	return tok, true, nil
}

func (m *Manager) RemoveToken(address string) (Token, error) {
	address = strings.TrimSpace(address)
	tokens := m.Tokens()
	for i, t := range tokens {
		if ethaddr.Equal(t.Address, address) {
			m.setTokens(append(tokens[:i:i], tokens[i+1:]...))
			return t, nil
		}
	}
	return Token{}, errors.Wrapf(errs.ErrTokenNotFound, "%q on %s", address, m.Active().Name)
}

func (m *Manager) setTokens(tokens []Token) {
	active := m.Active()
	if active.Builtin {
		m.settings.Tokens = tokens
		return
	}
	n := m.settings.Networks[active.Name]
	n.Tokens = tokens
	// write back (map value copy)
	m.settings.Networks[active.Name] = n
}

// ValidateRPC accepts absolute http(s) URLs with a host.
func ValidateRPC(raw string) error {
	raw = strings.TrimSpace(raw)
	lower := strings.ToLower(raw)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return errors.Wrapf(errs.ErrInvalidURL, "%q", raw)
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return errors.Wrapf(errs.ErrInvalidURL, "%q", raw)
	}
	return nil
}
