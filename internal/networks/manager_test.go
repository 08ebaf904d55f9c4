package networks

import (
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"

	"github.com/quantumauth-io/cli-wallet/internal/errs"
)

var testBuiltin = Builtin{Name: "Ethereum", Symbol: "ETH", RPC: "https://eth.example.org"}

const (
	tokenA = "0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"
	tokenB = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
)

func newTestManager() (*Manager, *Settings) {
	s := &Settings{}
	return NewManager(testBuiltin, s), s
}

func TestNewManagerDefaults(t *testing.T) {
	m, s := newTestManager()
	require.Equal(t, "Ethereum", s.CurrentNetwork)
	require.NotNil(t, s.Networks)

	a := m.Active()
	require.True(t, a.Builtin)
	require.Equal(t, "ETH", a.Symbol)
	require.Equal(t, testBuiltin.RPC, a.RPC)
}

func TestAddNetwork(t *testing.T) {
	m, s := newTestManager()

	n, err := m.AddNetwork(" BSC ", "BNB", "https://bsc.example.org")
	require.NoError(t, err)
	require.Empty(t, n.Tokens)
	require.Contains(t, s.Networks, "BSC")

	for _, tt := range []struct {
		name, symbol, rpc string
		kind              error
	}{
		{"ethereum", "ETH", "https://x.example.org", errs.ErrReservedName},
		{"ETHEREUM", "ETH", "https://x.example.org", errs.ErrStateInvariant},
		{"", "X", "https://x.example.org", errs.ErrEmptyField},
		{"Polygon", " ", "https://x.example.org", errs.ErrEmptyField},
		{"Polygon", "POL", "ftp://x.example.org", errs.ErrInvalidURL},
		{"Polygon", "POL", "polygon-rpc.com", errs.ErrInvalidURL},
		{"Polygon", "POL", "https://", errs.ErrInvalidURL},
		{"bsc", "BNB", "https://other.example.org", errs.ErrDuplicateNetwork},
	} {
		_, err := m.AddNetwork(tt.name, tt.symbol, tt.rpc)
		require.True(t, errors.Is(err, tt.kind), "%s: %v", tt.name, err)
	}

	for k := range s.Networks {
		require.False(t, strings.EqualFold(k, testBuiltin.Name))
	}
}

func TestSwitchNetwork(t *testing.T) {
	m, s := newTestManager()
	_, err := m.AddNetwork("BSC", "BNB", "https://bsc.example.org")
	require.NoError(t, err)

	a, err := m.SwitchNetwork("bsc")
	require.NoError(t, err)
	require.Equal(t, "BSC", a.Name)
	require.Equal(t, "BNB", a.Symbol)
	require.Equal(t, "BSC", s.CurrentNetwork)

	_, err = m.SwitchNetwork("Nowhere")
	require.True(t, errors.Is(err, errs.ErrNetworkNotFound))
	require.Equal(t, "BSC", s.CurrentNetwork)

	a, err = m.SwitchNetwork("ETHEREUM")
	require.NoError(t, err)
	require.True(t, a.Builtin)
	require.Equal(t, "Ethereum", s.CurrentNetwork)
}

func TestActiveFallsBackWhenCurrentMissing(t *testing.T) {
	s := &Settings{CurrentNetwork: "Gone", Networks: map[string]Network{}}
	a := NewManager(testBuiltin, s).Active()
	require.True(t, a.Builtin)
}

func TestActiveDefaultsSymbol(t *testing.T) {
	s := &Settings{
		CurrentNetwork: "Legacy",
		Networks:       map[string]Network{"Legacy": {RPC: "https://l.example.org"}},
	}
	require.Equal(t, DefaultNativeSymbol, NewManager(testBuiltin, s).Active().Symbol)
}

func TestList(t *testing.T) {
	m, _ := newTestManager()
	for _, n := range []string{"Zeta", "Arbitrum", "BSC"} {
		_, err := m.AddNetwork(n, "X", "https://"+strings.ToLower(n)+".example.org")
		require.NoError(t, err)
	}
	require.Equal(t, []string{"Ethereum", "Arbitrum", "BSC", "Zeta"}, m.List())
}

func TestAddTokenOrderAndDuplicates(t *testing.T) {
	m, s := newTestManager()

	tok, added, err := m.AddToken(tokenA, TokenMeta{Name: "Alpha", Symbol: "AAA", Decimals: 18})
	require.NoError(t, err)
	require.True(t, added)
	require.Equal(t, "Alpha", tok.Name)

	_, added, err = m.AddToken(tokenB, TokenMeta{Name: "Beta", Symbol: "BBB", Decimals: 6})
	require.NoError(t, err)
	require.True(t, added)

	// same address, different case: no-op
	_, added, err = m.AddToken(strings.ToLower(tokenA), TokenMeta{Name: "Again", Symbol: "AGN"})
	require.NoError(t, err)
	require.False(t, added)

	require.Len(t, s.Tokens, 2)
	require.Equal(t, "AAA", s.Tokens[0].Symbol)
	require.Equal(t, "BBB", s.Tokens[1].Symbol)
	require.Empty(t, s.Networks, "built-in tokens never create a network entry")
}

func TestAddTokenInvalidAddress(t *testing.T) {
	m, s := newTestManager()
	_, _, err := m.AddToken("0x1234", TokenMeta{Symbol: "X"})
	require.True(t, errors.Is(err, errs.ErrInvalidAddress))
	require.Empty(t, s.Tokens)
}

func TestTokensAreScopedPerNetwork(t *testing.T) {
	m, s := newTestManager()
	_, err := m.AddNetwork("BSC", "BNB", "https://bsc.example.org")
	require.NoError(t, err)

	_, _, err = m.AddToken(tokenA, TokenMeta{Symbol: "AAA"})
	require.NoError(t, err)

	_, err = m.SwitchNetwork("BSC")
	require.NoError(t, err)
	require.Empty(t, m.Tokens())

	_, added, err := m.AddToken(tokenA, TokenMeta{Symbol: "AAA"})
	require.NoError(t, err)
	require.True(t, added)
	require.Len(t, s.Networks["BSC"].Tokens, 1)
	require.Len(t, s.Tokens, 1)
}

func TestRemoveToken(t *testing.T) {
	m, s := newTestManager()
	_, _, _ = m.AddToken(tokenA, TokenMeta{Symbol: "AAA"})
	_, _, _ = m.AddToken(tokenB, TokenMeta{Symbol: "BBB"})

	removed, err := m.RemoveToken(strings.ToLower(tokenA))
	require.NoError(t, err)
	require.Equal(t, "AAA", removed.Symbol)
	require.Len(t, s.Tokens, 1)
	require.Equal(t, "BBB", s.Tokens[0].Symbol)

	_, err = m.RemoveToken(tokenA)
	require.True(t, errors.Is(err, errs.ErrTokenNotFound))
}
