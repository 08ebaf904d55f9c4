package transfer

import (
	"context"
	"math/big"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/quantumauth-io/cli-wallet/internal/assets"
	"github.com/quantumauth-io/cli-wallet/internal/errs"
)

const (
	addrA = "0x00000000000000000000000000000000000000aa"
	addrB = "0x00000000000000000000000000000000000000bb"
	addrC = "0x00000000000000000000000000000000000000cc"
	usdt  = "0xdAC17F958D2ee523a2206206994597C13D831ec7"
)

var eth = assets.Native{Symbol: "ETH"}

var token = assets.Token{Name: "Tether", Symbol: "USDT", Decimals: 6, Address: usdt}

type sent struct {
	contract *common.Address
	method   string
	to       common.Address
	value    *big.Int
}

type fakeSigner struct {
	fail  map[common.Address]error
	calls []sent
}

func (f *fakeSigner) Address() common.Address {
	return common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
}

func (f *fakeSigner) SendNative(_ context.Context, to common.Address, value *big.Int) (common.Hash, error) {
	f.calls = append(f.calls, sent{to: to, value: value})
	if err := f.fail[to]; err != nil {
		return common.Hash{}, err
	}
	return common.BigToHash(big.NewInt(int64(len(f.calls)))), nil
}

func (f *fakeSigner) CallContract(_ context.Context, contract common.Address, method string, args ...any) (common.Hash, error) {
	to := args[0].(common.Address)
	f.calls = append(f.calls, sent{contract: &contract, method: method, to: to, value: args[1].(*big.Int)})
	if err := f.fail[to]; err != nil {
		return common.Hash{}, err
	}
	return common.BigToHash(big.NewInt(int64(len(f.calls)))), nil
}

type fakeClient struct {
	balance *big.Int
	err     error
	reads   int
}

func (f *fakeClient) BalanceAt(context.Context, common.Address) (*big.Int, error) {
	f.reads++
	return f.balance, f.err
}

func (f *fakeClient) ReadContract(context.Context, common.Address, string, ...any) ([]any, error) {
	f.reads++
	return nil, errors.New("unexpected read")
}

func ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1_000_000_000_000_000_000))
}

func TestSendSingleNativeInsufficientFunds(t *testing.T) {
	s := &fakeSigner{}
	c := &fakeClient{balance: ether(1)}
	o := NewOrchestrator(nil)

	out := o.SendSingle(context.Background(), s, c, eth, addrA, "1.5")
	require.Equal(t, StatusRejected, out.Status)
	require.True(t, errors.Is(out.Err, errs.ErrInsufficientFunds))
	require.Contains(t, out.Reason, "insufficient funds")
	require.Empty(t, out.TxHash)
	require.Empty(t, s.calls)
}

func TestSendSingleNativeSuccess(t *testing.T) {
	s := &fakeSigner{}
	c := &fakeClient{balance: ether(2)}
	o := NewOrchestrator(nil)

	out := o.SendSingle(context.Background(), s, c, eth, addrA, "1.5")
	require.Equal(t, StatusSuccess, out.Status)
	require.NotEmpty(t, out.TxHash)
	require.Empty(t, out.Reason)
	require.Len(t, s.calls, 1)
	require.Equal(t, "1500000000000000000", s.calls[0].value.String())
	require.Equal(t, common.HexToAddress(addrA), s.calls[0].to)
}

func TestSendSingleValidationMakesNoCalls(t *testing.T) {
	cases := map[string][2]string{
		"short address": {"0x1234", "1"},
		"zero amount":   {addrA, "0"},
		"negative":      {addrA, "-1"},
		"not a number":  {addrA, "abc"},
		"exponent":      {addrA, "1e3"},
		"too small":     {addrA, "0.0000000000000000001"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			s := &fakeSigner{}
			c := &fakeClient{balance: ether(100)}
			out := NewOrchestrator(nil).SendSingle(context.Background(), s, c, eth, in[0], in[1])
			require.Equal(t, StatusRejected, out.Status)
			require.True(t, errors.Is(out.Err, errs.ErrValidation))
			require.Zero(t, c.reads)
			require.Empty(t, s.calls)
		})
	}
}

func TestSendSingleTokenSkipsPreflight(t *testing.T) {
	s := &fakeSigner{}
	c := &fakeClient{balance: big.NewInt(0)}
	out := NewOrchestrator(nil).SendSingle(context.Background(), s, c, token, addrB, "1.2345678")

	require.Equal(t, StatusSuccess, out.Status)
	require.Zero(t, c.reads)
	require.Len(t, s.calls, 1)
	require.Equal(t, "transfer", s.calls[0].method)
	require.Equal(t, common.HexToAddress(usdt), *s.calls[0].contract)
	// 1.2345678 * 10^6 truncated toward zero
	require.Equal(t, big.NewInt(1_234_567), s.calls[0].value)
}

func TestSendSingleDeclined(t *testing.T) {
	s := &fakeSigner{}
	c := &fakeClient{balance: ether(5)}
	var seen Request
	o := NewOrchestrator(ConfirmFunc(func(_ context.Context, req Request) (bool, error) {
		seen = req
		return false, nil
	}))

	out := o.SendSingle(context.Background(), s, c, eth, addrA, "1")
	require.Equal(t, StatusRejected, out.Status)
	require.Equal(t, ReasonCancelled, out.Reason)
	require.Empty(t, s.calls)
	require.Len(t, seen.Transfers, 1)
	require.Equal(t, ether(1), seen.Total())
}

func TestSendSingleSubmissionFailure(t *testing.T) {
	s := &fakeSigner{fail: map[common.Address]error{
		common.HexToAddress(addrA): errors.New("nonce too low"),
	}}
	c := &fakeClient{balance: ether(5)}

	out := NewOrchestrator(nil).SendSingle(context.Background(), s, c, eth, addrA, "1")
	require.Equal(t, StatusFailed, out.Status)
	require.Equal(t, "nonce too low", out.Reason)
	require.True(t, errors.Is(out.Err, errs.ErrChain))
	require.Empty(t, out.TxHash)
}

func TestSendSingleBalanceReadFailure(t *testing.T) {
	s := &fakeSigner{}
	c := &fakeClient{err: errors.New("connection refused")}

	out := NewOrchestrator(nil).SendSingle(context.Background(), s, c, eth, addrA, "1")
	require.Equal(t, StatusFailed, out.Status)
	require.Empty(t, s.calls)
}

func TestSendBatchSkipsInvalidEntries(t *testing.T) {
	s := &fakeSigner{}
	entries := []Entry{
		{Destination: addrA, Amount: "1", Line: 1},
		{Destination: "0xnothex", Amount: "1", Line: 2},
		{Destination: addrC, Amount: "2", Line: 3},
	}

	res := NewOrchestrator(nil).SendBatch(context.Background(), s, &fakeClient{}, eth, entries)
	require.NotEmpty(t, res.RunID)
	require.Len(t, res.Skipped, 1)
	require.Equal(t, 2, res.Skipped[0].Line)

	require.Len(t, res.Outcomes, 2)
	require.Equal(t, common.HexToAddress(addrA).Hex(), res.Outcomes[0].Destination)
	require.Equal(t, common.HexToAddress(addrC).Hex(), res.Outcomes[1].Destination)
	require.Equal(t, 1, res.Outcomes[0].Index)
	require.Equal(t, 2, res.Outcomes[1].Index)
	require.Equal(t, 3, res.Outcomes[1].Line)
	for _, o := range res.Outcomes {
		require.Equal(t, StatusSuccess, o.Status)
	}
	require.Len(t, s.calls, 2)
}

func TestSendBatchIsolatesFailures(t *testing.T) {
	s := &fakeSigner{fail: map[common.Address]error{
		common.HexToAddress(addrA): errors.New("execution reverted"),
	}}
	entries := []Entry{
		{Destination: addrA, Amount: "1"},
		{Destination: addrB, Amount: "1"},
	}

	res := NewOrchestrator(nil).SendBatch(context.Background(), s, &fakeClient{}, token, entries)
	require.Len(t, res.Outcomes, 2)
	require.Equal(t, StatusFailed, res.Outcomes[0].Status)
	require.Equal(t, "execution reverted", res.Outcomes[0].Reason)
	require.Empty(t, res.Outcomes[0].TxHash)
	require.Equal(t, StatusSuccess, res.Outcomes[1].Status)
	require.NotEmpty(t, res.Outcomes[1].TxHash)
	require.Equal(t, 1, res.Succeeded())
}

func TestSendBatchNoNativePreflight(t *testing.T) {
	s := &fakeSigner{}
	c := &fakeClient{balance: big.NewInt(0)}
	res := NewOrchestrator(nil).SendBatch(context.Background(), s, c, eth, []Entry{{Destination: addrA, Amount: "10"}})
	require.Equal(t, StatusSuccess, res.Outcomes[0].Status)
	require.Zero(t, c.reads)
}

func TestSendBatchConfirmsOnce(t *testing.T) {
	asked := 0
	o := NewOrchestrator(ConfirmFunc(func(_ context.Context, req Request) (bool, error) {
		asked++
		require.Len(t, req.Transfers, 3)
		require.NotEmpty(t, req.RunID)
		return true, nil
	}))
	entries := []Entry{{Destination: addrA, Amount: "1"}, {Destination: addrB, Amount: "1"}, {Destination: addrC, Amount: "1"}}

	res := o.SendBatch(context.Background(), &fakeSigner{}, &fakeClient{}, eth, entries)
	require.Equal(t, 1, asked)
	require.Len(t, res.Outcomes, 3)
}

func TestSendBatchDeclined(t *testing.T) {
	s := &fakeSigner{}
	o := NewOrchestrator(ConfirmFunc(func(context.Context, Request) (bool, error) { return false, nil }))

	res := o.SendBatch(context.Background(), s, &fakeClient{}, eth, []Entry{{Destination: addrA, Amount: "1"}})
	require.True(t, res.Cancelled)
	require.Empty(t, res.Outcomes)
	require.Empty(t, s.calls)
}

func TestSendBatchAllInvalidDoesNotConfirm(t *testing.T) {
	o := NewOrchestrator(ConfirmFunc(func(context.Context, Request) (bool, error) {
		t.Fatal("confirmation requested for an empty batch")
		return false, nil
	}))
	res := o.SendBatch(context.Background(), &fakeSigner{}, &fakeClient{}, eth, []Entry{{Destination: "x", Amount: "1"}})
	require.Len(t, res.Skipped, 1)
	require.Empty(t, res.Outcomes)
	require.False(t, res.Cancelled)
}

func TestSendBatchIgnoresCancellationOnceStarted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := &cancellingSigner{cancel: cancel}
	entries := []Entry{{Destination: addrA, Amount: "1"}, {Destination: addrB, Amount: "1"}}

	res := NewOrchestrator(nil).SendBatch(ctx, s, &fakeClient{}, eth, entries)
	require.Len(t, res.Outcomes, 2)
	require.Equal(t, StatusSuccess, res.Outcomes[1].Status)
}

// cancellingSigner cancels the caller's context on the first submission and
// fails any submission made with a cancelled context.
type cancellingSigner struct {
	fakeSigner
	cancel context.CancelFunc
}

func (c *cancellingSigner) SendNative(ctx context.Context, to common.Address, value *big.Int) (common.Hash, error) {
	if err := ctx.Err(); err != nil {
		return common.Hash{}, err
	}
	c.cancel()
	return c.fakeSigner.SendNative(ctx, to, value)
}

func TestParseBatch(t *testing.T) {
	in := strings.Join([]string{
		"# payouts",
		addrA + " 0.5",
		"",
		"   " + addrB + "\t1   ",
		"garbage",
		addrC + " 1 extra",
	}, "\n")

	entries, bad, err := ParseBatch(strings.NewReader(in))
	require.NoError(t, err)
	require.Equal(t, []Entry{
		{Destination: addrA, Amount: "0.5", Line: 2},
		{Destination: addrB, Amount: "1", Line: 4},
	}, entries)
	require.Len(t, bad, 2)
	require.Equal(t, 5, bad[0].Line)
	require.Equal(t, 6, bad[1].Line)
	require.Contains(t, bad[0].Error(), "line 5")
}

func TestValidateTruncatesTowardZero(t *testing.T) {
	p, err := Validate(assets.Token{Symbol: "T", Decimals: 2, Address: usdt}, Entry{Destination: addrA, Amount: "1.239"})
	require.NoError(t, err)
	require.Equal(t, big.NewInt(123), p.Value)

	_, err = Validate(assets.Token{Symbol: "T", Decimals: 0, Address: usdt}, Entry{Destination: addrA, Amount: "0.9"})
	require.True(t, errors.Is(err, errs.ErrAmountTooSmall))
}

func TestSendSingleMalformedTokenContract(t *testing.T) {
	for _, contract := range []string{"zzz", "", "0x1234"} {
		t.Run(contract, func(t *testing.T) {
			s := &fakeSigner{}
			c := &fakeClient{}
			bad := assets.Token{Symbol: "BAD", Decimals: 6, Address: contract}

			out := NewOrchestrator(nil).SendSingle(context.Background(), s, c, bad, addrA, "1")
			require.Equal(t, StatusRejected, out.Status)
			require.True(t, errors.Is(out.Err, errs.ErrInvalidAddress))
			require.Contains(t, out.Reason, "token contract")
			require.Zero(t, c.reads)
			require.Empty(t, s.calls)
		})
	}
}

func TestSendBatchMalformedTokenContractSubmitsNothing(t *testing.T) {
	o := NewOrchestrator(ConfirmFunc(func(context.Context, Request) (bool, error) {
		t.Fatal("confirmation requested with no valid entries")
		return false, nil
	}))
	s := &fakeSigner{}
	bad := assets.Token{Symbol: "BAD", Decimals: 6, Address: "zzz"}
	entries := []Entry{{Destination: addrA, Amount: "1"}, {Destination: addrB, Amount: "2"}}

	res := o.SendBatch(context.Background(), s, &fakeClient{}, bad, entries)
	require.Len(t, res.Skipped, 2)
	for _, sk := range res.Skipped {
		require.True(t, errors.Is(sk.Err, errs.ErrInvalidAddress))
	}
	require.Empty(t, res.Outcomes)
	require.Empty(t, s.calls)
}

func TestValidateParsesTokenContract(t *testing.T) {
	p, err := Validate(assets.Token{Symbol: "T", Decimals: 6, Address: strings.ToLower(usdt)}, Entry{Destination: addrA, Amount: "1"})
	require.NoError(t, err)
	require.Equal(t, common.HexToAddress(usdt), p.Contract)

	p, err = Validate(eth, Entry{Destination: addrA, Amount: "1"})
	require.NoError(t, err)
	require.Equal(t, common.Address{}, p.Contract)
}
