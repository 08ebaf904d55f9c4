package chain

import (
	"context"
	"math/big"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/quantumauth-io/cli-wallet/internal/keys"
)

const testKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

type fakeBackend struct {
	mu sync.Mutex

	chainID  *big.Int
	chainErr error
	balance  *big.Int
	callOut  []byte
	lastCall ethereum.CallMsg
	estimate uint64
	baseFee  *big.Int
	tipErr   error
	sent     []*types.Transaction
	closed   bool
}

func (f *fakeBackend) ChainID(context.Context) (*big.Int, error) {
	if f.chainErr != nil {
		return nil, f.chainErr
	}
	return f.chainID, nil
}

func (f *fakeBackend) BalanceAt(context.Context, common.Address, *big.Int) (*big.Int, error) {
	return f.balance, nil
}

func (f *fakeBackend) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	f.lastCall = msg
	return f.callOut, nil
}

func (f *fakeBackend) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	return 7, nil
}

func (f *fakeBackend) EstimateGas(context.Context, ethereum.CallMsg) (uint64, error) {
	return f.estimate, nil
}

func (f *fakeBackend) SuggestGasTipCap(context.Context) (*big.Int, error) {
	if f.tipErr != nil {
		return nil, f.tipErr
	}
	return big.NewInt(2), nil
}

func (f *fakeBackend) SuggestGasPrice(context.Context) (*big.Int, error) {
	return big.NewInt(50), nil
}

func (f *fakeBackend) HeaderByNumber(context.Context, *big.Int) (*types.Header, error) {
	return &types.Header{BaseFee: f.baseFee}, nil
}

func (f *fakeBackend) SendTransaction(_ context.Context, tx *types.Transaction) error {
	f.sent = append(f.sent, tx)
	return nil
}

func (f *fakeBackend) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func newSigner(t *testing.T, b *fakeBackend) *KeySigner {
	t.Helper()
	key, err := crypto.HexToECDSA(testKey)
	require.NoError(t, err)
	return NewKeySigner(NewClient(b, b.chainID, time.Second), key, 20)
}

func TestReadContractDecimals(t *testing.T) {
	out, err := erc20.Methods["decimals"].Outputs.Pack(uint8(6))
	require.NoError(t, err)
	b := &fakeBackend{chainID: big.NewInt(1), callOut: out}
	c := NewClient(b, b.chainID, time.Second)

	token := common.HexToAddress("0xdAC17F958D2ee523a2206206994597C13D831ec7")
	values, err := c.ReadContract(context.Background(), token, "decimals")
	require.NoError(t, err)
	require.Equal(t, []any{uint8(6)}, values)
	require.Equal(t, token, *b.lastCall.To)
	require.Equal(t, erc20.Methods["decimals"].ID, b.lastCall.Data[:4])
}

func TestReadContractEmptyResult(t *testing.T) {
	b := &fakeBackend{chainID: big.NewInt(1)}
	c := NewClient(b, b.chainID, 0)
	_, err := c.ReadContract(context.Background(), common.Address{1}, "symbol")
	require.Error(t, err)
}

func TestReadContractUnknownMethod(t *testing.T) {
	b := &fakeBackend{chainID: big.NewInt(1)}
	c := NewClient(b, b.chainID, 0)
	_, err := c.ReadContract(context.Background(), common.Address{1}, "mint")
	require.Error(t, err)
}

func TestSendNativeDynamicFee(t *testing.T) {
	b := &fakeBackend{chainID: big.NewInt(11155111), estimate: 21_000, baseFee: big.NewInt(100)}
	s := newSigner(t, b)

	to := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	hash, err := s.SendNative(context.Background(), to, big.NewInt(1234))
	require.NoError(t, err)
	require.Len(t, b.sent, 1)

	tx := b.sent[0]
	require.Equal(t, hash, tx.Hash())
	require.Equal(t, uint8(types.DynamicFeeTxType), tx.Type())
	require.Equal(t, uint64(7), tx.Nonce())
	require.Equal(t, uint64(25_200), tx.Gas())
	require.Equal(t, big.NewInt(202), tx.GasFeeCap())
	require.Equal(t, big.NewInt(2), tx.GasTipCap())
	require.Equal(t, big.NewInt(1234), tx.Value())
	require.Equal(t, to, *tx.To())

	from, err := types.Sender(types.LatestSignerForChainID(b.chainID), tx)
	require.NoError(t, err)
	require.Equal(t, s.Address(), from)
}

func TestSendNativeLegacyFallback(t *testing.T) {
	b := &fakeBackend{chainID: big.NewInt(56), estimate: 10, tipErr: errors.New("method not found")}
	s := newSigner(t, b)

	_, err := s.SendNative(context.Background(), common.Address{2}, big.NewInt(1))
	require.NoError(t, err)

	tx := b.sent[0]
	require.Equal(t, uint8(types.LegacyTxType), tx.Type())
	require.Equal(t, big.NewInt(50), tx.GasPrice())
	require.Equal(t, minGas, tx.Gas())
}

func TestCallContractTransfer(t *testing.T) {
	b := &fakeBackend{chainID: big.NewInt(1), estimate: 50_000, baseFee: big.NewInt(1)}
	s := newSigner(t, b)

	token := common.HexToAddress("0xdAC17F958D2ee523a2206206994597C13D831ec7")
	to := common.HexToAddress("0x00000000000000000000000000000000000000bb")
	_, err := s.CallContract(context.Background(), token, "transfer", to, big.NewInt(1_500_000))
	require.NoError(t, err)

	tx := b.sent[0]
	require.Equal(t, token, *tx.To())
	require.Zero(t, tx.Value().Sign())

	method := erc20.Methods["transfer"]
	require.Equal(t, method.ID, tx.Data()[:4])
	args, err := method.Inputs.Unpack(tx.Data()[4:])
	require.NoError(t, err)
	require.Equal(t, to, args[0])
	require.Equal(t, big.NewInt(1_500_000), args[1])
}

func TestServiceCachesPerURL(t *testing.T) {
	dials := 0
	b := &fakeBackend{chainID: big.NewInt(1)}
	svc := NewServiceWithDialer(Config{DialTimeout: time.Second}, func(context.Context, string) (Backend, error) {
		dials++
		return b, nil
	})

	c1, err := svc.Client(context.Background(), "https://rpc.example.org")
	require.NoError(t, err)
	c2, err := svc.Client(context.Background(), " HTTPS://RPC.example.org ")
	require.NoError(t, err)
	require.Same(t, c1, c2)
	require.Equal(t, 1, dials)
	require.Equal(t, big.NewInt(1), c1.ChainID())

	svc.Close()
	require.True(t, b.closed)
}

func TestServiceUnreachableEndpoint(t *testing.T) {
	b := &fakeBackend{chainErr: errors.New("connection refused")}
	svc := NewServiceWithDialer(Config{DialTimeout: 500 * time.Millisecond}, func(context.Context, string) (Backend, error) {
		return b, nil
	})

	_, err := svc.Client(context.Background(), "http://127.0.0.1:1")
	require.Error(t, err)
	require.True(t, b.closed)
}

func TestServiceSigner(t *testing.T) {
	b := &fakeBackend{chainID: big.NewInt(1)}
	svc := NewServiceWithDialer(Config{}, func(context.Context, string) (Backend, error) { return b, nil })

	s, err := svc.Signer(context.Background(), "https://rpc.example.org", keys.Secret("0x"+testKey))
	require.NoError(t, err)
	require.Equal(t, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", s.Address().Hex())

	_, err = svc.Signer(context.Background(), "https://rpc.example.org", keys.Secret("0x12"))
	require.Error(t, err)
	require.False(t, strings.Contains(err.Error(), testKey))
}

func TestKnownChains(t *testing.T) {
	k, ok := Known(big.NewInt(1))
	require.True(t, ok)
	require.Equal(t, "mainnet", k.Name)

	hash := common.HexToHash("0xabc")
	require.Equal(t, "https://etherscan.io/tx/"+hash.Hex(), k.TxURL(hash))

	_, ok = Known(big.NewInt(31337))
	require.False(t, ok)
	_, ok = Known(nil)
	require.False(t, ok)
}
