package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"

	"github.com/quantumauth-io/cli-wallet/internal/errs"
	"github.com/quantumauth-io/cli-wallet/internal/keys"
	"github.com/quantumauth-io/cli-wallet/internal/networks"
	"github.com/quantumauth-io/cli-wallet/internal/securefile"
	"github.com/quantumauth-io/cli-wallet/internal/wallet"
)

var testKDF = securefile.KDFParams{
	Version:      1,
	ArgonTime:    1,
	ArgonMemory:  1024,
	ArgonThreads: 1,
	ArgonKeyLen:  32,
}

var testBuiltin = networks.Builtin{Name: "Ethereum", Symbol: "ETH", RPC: "https://eth.example.org"}

const (
	hardhatKey  = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	hardhatAddr = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
)

var password = []byte("s3cret")

func sampleRecords(t *testing.T) []wallet.Record {
	t.Helper()
	reg := wallet.NewRegistry(testBuiltin, nil)

	m1, err := keys.FromPrivateKey(hardhatKey)
	require.NoError(t, err)
	w1, err := reg.Create("main", m1)
	require.NoError(t, err)

	m2, err := keys.Generate()
	require.NoError(t, err)
	_, err = reg.Create("spare", m2)
	require.NoError(t, err)

	mgr := w1.NetworkManager(testBuiltin)
	_, err = mgr.AddNetwork("Sepolia", "sETH", "https://rpc.sepolia.org")
	require.NoError(t, err)
	_, _, err = mgr.AddToken("0xdac17f958d2ee523a2206206994597c13d831ec7", networks.TokenMeta{Name: "Tether", Symbol: "USDT", Decimals: 6})
	require.NoError(t, err)
	require.NoError(t, reg.Update(w1))

	return reg.List()
}

func newTestStore(t *testing.T) *Store {
	return New(filepath.Join(t.TempDir(), "wallets.json"), testKDF)
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	s := newTestStore(t)
	recs, err := s.Load(password)
	require.NoError(t, err)
	require.Empty(t, recs)
	require.False(t, s.Exists())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	in := sampleRecords(t)

	require.NoError(t, s.Save(in, password))

	raw, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	require.NotContains(t, string(raw), hardhatKey[2:])
	require.NotContains(t, string(raw), "main")

	out, err := s.Load(password)
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestLoadWrongPasswordLeavesFile(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save(sampleRecords(t), password))
	before, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	_, err = s.Load([]byte("nope"))
	require.True(t, errors.Is(err, securefile.ErrInvalidPasswordOrCorrupt))
	require.False(t, errors.Is(err, errs.ErrCorruptState))

	after, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestCorruptPayloadIsQuarantined(t *testing.T) {
	s := newTestStore(t)
	s.now = func() time.Time { return time.Unix(1700000000, 0) }
	require.NoError(t, securefile.WriteEncrypted(s.Path(), []byte(`[{"oops":true}]`), password, s.opt))

	_, err := s.Load(password)
	require.True(t, errors.Is(err, errs.ErrCorruptState))

	moved, err := s.Quarantine()
	require.NoError(t, err)
	require.Equal(t, s.Path()+".corrupt-1700000000", moved)
	require.True(t, securefile.Exists(moved))

	recs, err := s.Load(password)
	require.NoError(t, err)
	require.Empty(t, recs)
}

func TestUnreadableFileIsCorrupt(t *testing.T) {
	for name, content := range map[string]string{
		"empty":   "",
		"garbage": "\x00\x01not an envelope",
		"legacy":  `[{"name":"main","address":"0x1"}]`,
	} {
		t.Run(name, func(t *testing.T) {
			s := newTestStore(t)
			s.now = func() time.Time { return time.Unix(1700000000, 0) }
			require.NoError(t, os.WriteFile(s.Path(), []byte(content), 0o600))

			_, err := s.Load(password)
			require.True(t, errors.Is(err, errs.ErrCorruptState))
			require.False(t, errors.Is(err, securefile.ErrInvalidPasswordOrCorrupt))

			moved, err := s.Quarantine()
			require.NoError(t, err)
			require.Equal(t, s.Path()+".corrupt-1700000000", moved)

			recs, err := s.Load(password)
			require.NoError(t, err)
			require.Empty(t, recs)
		})
	}
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save(sampleRecords(t), password))
	require.NoError(t, s.Delete())
	require.False(t, s.Exists())
	require.NoError(t, s.Delete())
}

func TestEncodeDecodeIdempotent(t *testing.T) {
	b1, err := Encode(sampleRecords(t))
	require.NoError(t, err)

	recs, err := Decode(b1)
	require.NoError(t, err)
	b2, err := Encode(recs)
	require.NoError(t, err)
	require.Equal(t, string(b1), string(b2))

	empty, err := Encode(nil)
	require.NoError(t, err)
	recs, err = Decode(empty)
	require.NoError(t, err)
	require.Empty(t, recs)
	again, err := Encode(recs)
	require.NoError(t, err)
	require.Equal(t, string(empty), string(again))
}

func TestDecodeRejectsBadDocuments(t *testing.T) {
	cases := map[string]string{
		"not json":       `{`,
		"array":          `[]`,
		"no schema":      `{"wallets":[]}`,
		"unknown field":  `{"schema":1,"wallets":[],"extra":1}`,
		"bad address":    `{"schema":1,"wallets":[{"name":"a","address":"0x12","privateKey":"0x1","primary":true,"networks":{},"currentNetwork":"Ethereum"}]}`,
		"missing key":    `{"schema":1,"wallets":[{"name":"a","address":"` + hardhatAddr + `","privateKey":"","primary":true,"networks":{},"currentNetwork":"Ethereum"}]}`,
		"trailing value": `{"schema":1,"wallets":[]} {}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(doc))
			require.True(t, errors.Is(err, errs.ErrCorruptState), "%v", err)
		})
	}
}

func TestDecodeRejectsBadTokens(t *testing.T) {
	doc := func(tokens, nets string) string {
		return `{"schema":1,"wallets":[{"name":"a","address":"` + hardhatAddr + `","privateKey":"` + hardhatKey +
			`","primary":true,"networks":{` + nets + `},"currentNetwork":"Ethereum","tokens":[` + tokens + `]}]}`
	}
	tok := func(addr string) string {
		return `{"name":"x","symbol":"X","decimals":1,"address":"` + addr + `"}`
	}
	cases := map[string]string{
		"malformed": doc(tok("zzz"), ""),
		"duplicate": doc(tok("0xdac17f958d2ee523a2206206994597c13d831ec7")+","+tok("0xDAC17F958D2EE523A2206206994597C13D831EC7"), ""),
		"network":   doc("", `"Sepolia":{"rpc":"https://rpc.sepolia.org","symbol":"sETH","tokens":[`+tok("0x12")+`]}`),
	}
	for name, d := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(d))
			require.True(t, errors.Is(err, errs.ErrCorruptState), "%v", err)
		})
	}

	_, err := Decode([]byte(doc(tok(hardhatAddr), "")))
	require.NoError(t, err)
}

func TestDecodeNewerSchema(t *testing.T) {
	_, err := Decode([]byte(`{"schema":2,"wallets":[]}`))
	require.True(t, errors.Is(err, ErrUnsupportedSchema))
	require.False(t, errors.Is(err, errs.ErrCorruptState))
}

func TestOpenWithDir(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, testKDF)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "wallets.json"), s.Path())
}
