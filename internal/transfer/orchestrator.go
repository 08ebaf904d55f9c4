package transfer

import (
	"context"
	"math/big"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/quantumauth-io/quantum-go-utils/log"

	"github.com/quantumauth-io/cli-wallet/internal/assets"
	"github.com/quantumauth-io/cli-wallet/internal/errs"
	"github.com/quantumauth-io/cli-wallet/internal/units"
)

type Orchestrator struct {
	confirm  Confirmer
	newRunID func() string
}

// NewOrchestrator builds an orchestrator. A nil confirmer approves everything.
func NewOrchestrator(confirm Confirmer) *Orchestrator {
	if confirm == nil {
		confirm = AutoConfirm
	}
	return &Orchestrator{
		confirm:  confirm,
		newRunID: func() string { return uuid.NewString() },
	}
}

// SendSingle validates, pre-flights (native only), confirms and submits one
// transfer. Every path ends in an Outcome; nothing is returned as an error.
func (o *Orchestrator) SendSingle(ctx context.Context, signer Signer, client ChainClient, asset assets.Asset, destination, amount string) Outcome {
	entry := Entry{Destination: destination, Amount: amount}
	out := Outcome{Index: 1, Destination: destination, Amount: amount}

	planned, err := Validate(asset, entry)
	if err != nil {
		return rejected(out, err)
	}
	out.Destination = planned.To.Hex()
	out.Amount = planned.Amount

	// Tokens are not pre-flighted; the contract call is their only check.
	if _, native := asset.(assets.Native); native {
		bal, err := assets.NativeBalance(ctx, client, signer.Address())
		if err != nil {
			return failed(out, err)
		}
		if bal.Cmp(planned.Value) < 0 {
			return rejected(out, errors.Wrapf(errs.ErrInsufficientFunds,
				"balance %s %s, requested %s",
				units.FormatUnitsTrim(bal.Raw, units.EtherDecimals, 18), assets.SymbolOf(asset), planned.Amount))
		}
	}

	req := Request{From: signer.Address(), Asset: asset, Transfers: []Planned{planned}}
	ok, err := o.confirm.Confirm(ctx, req)
	if err != nil {
		return rejected(out, errors.Wrap(err, "confirmation"))
	}
	if !ok {
		out.Status = StatusRejected
		out.Reason = ReasonCancelled
		return out
	}

	out = o.submit(ctx, signer, asset, planned, out)
	log.Info("transfer",
		"asset", assets.SymbolOf(asset),
		"to", out.Destination,
		"amount", out.Amount,
		"status", string(out.Status),
		"tx", out.TxHash,
		"reason", out.Reason,
	)
	return out
}

// SendBatch validates every entry, asks for one confirmation covering all
// valid entries, then submits them strictly one after another in input order.
// Invalid entries are skipped and never submitted; a failed submission does
// not stop later entries. Once submission starts it runs to completion.
func (o *Orchestrator) SendBatch(ctx context.Context, signer Signer, client ChainClient, asset assets.Asset, entries []Entry) BatchResult {
	res := BatchResult{RunID: o.newRunID()}

	var plan []Planned
	for _, e := range entries {
		p, err := Validate(asset, e)
		if err != nil {
			res.Skipped = append(res.Skipped, Skip{Entry: e, Reason: err.Error(), Err: err})
			log.Warn("batch entry skipped", "run", res.RunID, "line", e.Line, "reason", err.Error())
			continue
		}
		plan = append(plan, p)
	}
	if len(plan) == 0 {
		return res
	}

	req := Request{RunID: res.RunID, From: signer.Address(), Asset: asset, Transfers: plan}
	ok, err := o.confirm.Confirm(ctx, req)
	if err != nil || !ok {
		res.Cancelled = true
		log.Info("batch cancelled", "run", res.RunID, "entries", len(plan))
		return res
	}

	log.Info("batch started", "run", res.RunID, "asset", assets.SymbolOf(asset), "entries", len(plan))
	runCtx := context.WithoutCancel(ctx)
	for i, p := range plan {
		out := Outcome{
			Index:       i + 1,
			Line:        p.Line,
			Destination: p.To.Hex(),
			Amount:      p.Amount,
		}
		out = o.submit(runCtx, signer, asset, p, out)
		res.Outcomes = append(res.Outcomes, out)

		log.Info("batch transfer",
			"run", res.RunID,
			"index", out.Index,
			"of", len(plan),
			"to", out.Destination,
			"amount", out.Amount,
			"status", string(out.Status),
			"tx", out.TxHash,
			"reason", out.Reason,
		)
	}
	log.Info("batch finished", "run", res.RunID, "succeeded", res.Succeeded(), "attempted", len(res.Outcomes))
	return res
}

func (o *Orchestrator) submit(ctx context.Context, signer Signer, asset assets.Asset, p Planned, out Outcome) Outcome {
	var (
		hash common.Hash
		err  error
	)
	switch asset.(type) {
	case assets.Native:
		hash, err = signer.SendNative(ctx, p.To, new(big.Int).Set(p.Value))
	case assets.Token:
		hash, err = signer.CallContract(ctx, p.Contract, "transfer", p.To, new(big.Int).Set(p.Value))
	default:
		err = errors.Newf("unknown asset %T", asset)
	}
	if err != nil {
		return failed(out, err)
	}
	out.Status = StatusSuccess
	out.TxHash = hash.Hex()
	return out
}

func rejected(out Outcome, err error) Outcome {
	out.Status = StatusRejected
	out.Reason = err.Error()
	out.Err = err
	return out
}

func failed(out Outcome, err error) Outcome {
	if !errors.Is(err, errs.ErrChain) {
		err = errs.Chain(err, "submit")
	}
	out.Status = StatusFailed
	out.Reason = errors.UnwrapAll(err).Error()
	out.Err = err
	return out
}
