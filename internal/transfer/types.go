// Package transfer validates and dispatches single and batch transfers of
// one asset from one signer.
package transfer

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/quantumauth-io/cli-wallet/internal/assets"
)

// Signer authorizes and submits transactions for one account.
type Signer interface {
	Address() common.Address
	SendNative(ctx context.Context, to common.Address, value *big.Int) (common.Hash, error)
	CallContract(ctx context.Context, contract common.Address, method string, args ...any) (common.Hash, error)
}

// ChainClient reads chain state.
type ChainClient interface {
	assets.Reader
}

type Status string

const (
	StatusSuccess  Status = "success"
	StatusFailed   Status = "failed"
	StatusRejected Status = "rejected"
)

// ReasonCancelled is the reason of a transfer the user declined.
const ReasonCancelled = "cancelled"

// Entry is one requested transfer. Line is the 1-based source line, or 0.
type Entry struct {
	Destination string
	Amount      string
	Line        int
}

// Planned is an entry that passed validation. Contract is the parsed token
// contract and stays zero for the native asset.
type Planned struct {
	Entry
	To       common.Address
	Value    *big.Int
	Contract common.Address
}

// Outcome is the terminal state of one transfer. TxHash is set iff Status
// is success; Reason is set otherwise.
type Outcome struct {
	Index       int
	Line        int
	Destination string
	Amount      string
	Status      Status
	TxHash      string
	Reason      string
	Err         error
}

func (o Outcome) OK() bool { return o.Status == StatusSuccess }

// Skip is an entry dropped by validation before a batch runs.
type Skip struct {
	Entry
	Reason string
	Err    error
}

type BatchResult struct {
	RunID     string
	Skipped   []Skip
	Cancelled bool
	Outcomes  []Outcome
}

// Succeeded counts successful outcomes.
func (r BatchResult) Succeeded() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.OK() {
			n++
		}
	}
	return n
}

// Request describes what is about to be submitted.
type Request struct {
	RunID     string
	From      common.Address
	Asset     assets.Asset
	Transfers []Planned
}

// Total is the sum of all planned values in base units.
func (r Request) Total() *big.Int {
	sum := new(big.Int)
	for _, p := range r.Transfers {
		sum.Add(sum, p.Value)
	}
	return sum
}

// Confirmer asks for explicit approval before anything is submitted.
type Confirmer interface {
	Confirm(ctx context.Context, req Request) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, req Request) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, req Request) (bool, error) { return f(ctx, req) }

// AutoConfirm approves every request.
var AutoConfirm Confirmer = ConfirmFunc(func(context.Context, Request) (bool, error) { return true, nil })
