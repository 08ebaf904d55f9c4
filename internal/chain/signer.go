package chain

import (
	"context"
	"crypto/ecdsa"
	"math/big"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/quantumauth-io/quantum-go-utils/log"
)

const minGas uint64 = 21_000

// KeySigner signs with a local key and submits through a Client.
type KeySigner struct {
	client           *Client
	key              *ecdsa.PrivateKey
	from             common.Address
	gasMarginPercent uint64
}

func NewKeySigner(client *Client, key *ecdsa.PrivateKey, gasMarginPercent uint64) *KeySigner {
	return &KeySigner{
		client:           client,
		key:              key,
		from:             crypto.PubkeyToAddress(key.PublicKey),
		gasMarginPercent: gasMarginPercent,
	}
}

func (s *KeySigner) Address() common.Address { return s.from }

// SendNative submits a plain value transfer.
func (s *KeySigner) SendNative(ctx context.Context, to common.Address, value *big.Int) (common.Hash, error) {
	return s.send(ctx, to, value, nil)
}

// CallContract submits a state-changing ERC-20 call such as transfer.
func (s *KeySigner) CallContract(ctx context.Context, contract common.Address, method string, args ...any) (common.Hash, error) {
	data, err := erc20.Pack(method, args...)
	if err != nil {
		return common.Hash{}, errors.Wrapf(err, "pack %s", method)
	}
	return s.send(ctx, contract, big.NewInt(0), data)
}

func (s *KeySigner) send(ctx context.Context, to common.Address, value *big.Int, data []byte) (common.Hash, error) {
	b := s.client.backend

	nonce, err := b.PendingNonceAt(ctx, s.from)
	if err != nil {
		return common.Hash{}, errors.Wrap(err, "pending nonce")
	}

	gas, err := b.EstimateGas(ctx, ethereum.CallMsg{From: s.from, To: &to, Value: value, Data: data})
	if err != nil {
		return common.Hash{}, errors.Wrap(err, "estimate gas")
	}
	gas += gas * s.gasMarginPercent / 100
	if gas < minGas {
		gas = minGas
	}

	var txData types.TxData

	// Fees: 1559 preferred, else legacy
	tip, tipErr := b.SuggestGasTipCap(ctx)
	hdr, hdrErr := b.HeaderByNumber(ctx, nil)
	if tipErr == nil && hdrErr == nil && hdr != nil && hdr.BaseFee != nil {
		feeCap := new(big.Int).Mul(hdr.BaseFee, big.NewInt(2))
		feeCap.Add(feeCap, tip)
		txData = &types.DynamicFeeTx{
			ChainID:   s.client.ChainID(),
			Nonce:     nonce,
			GasTipCap: tip,
			GasFeeCap: feeCap,
			Gas:       gas,
			To:        &to,
			Value:     value,
			Data:      data,
		}
	} else {
		gp, err := b.SuggestGasPrice(ctx)
		if err != nil {
			return common.Hash{}, errors.Wrap(err, "suggest gas price")
		}
		txData = &types.LegacyTx{
			Nonce:    nonce,
			GasPrice: gp,
			Gas:      gas,
			To:       &to,
			Value:    value,
			Data:     data,
		}
	}

	signed, err := types.SignNewTx(s.key, types.LatestSignerForChainID(s.client.ChainID()), txData)
	if err != nil {
		return common.Hash{}, errors.Wrap(err, "sign tx")
	}
	if err := b.SendTransaction(ctx, signed); err != nil {
		return common.Hash{}, errors.Wrap(err, "send tx")
	}
	if k, ok := Known(s.client.ChainID()); ok {
		log.Info("transaction submitted", "tx", signed.Hash().Hex(), "explorer", k.TxURL(signed.Hash()))
	}
	return signed.Hash(), nil
}
