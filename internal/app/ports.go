package app

import (
	"context"

	"github.com/quantumauth-io/cli-wallet/internal/assets"
	"github.com/quantumauth-io/cli-wallet/internal/chain"
	"github.com/quantumauth-io/cli-wallet/internal/keys"
	"github.com/quantumauth-io/cli-wallet/internal/transfer"
	"github.com/quantumauth-io/cli-wallet/internal/wallet"
)

// Persister loads and saves the full wallet list.
type Persister interface {
	Load(password []byte) ([]wallet.Record, error)
	Save(records []wallet.Record, password []byte) error
	Delete() error
	Quarantine() (string, error)
}

// Prompter is the terminal side of a session.
type Prompter interface {
	Line(ctx context.Context, label string) (string, error)
	Secret(ctx context.Context, label string) (string, error)
	Confirm(ctx context.Context, question string, defaultYes bool) (bool, error)
	Notify(msg string)
}

// ChainProvider opens readers and signers for an RPC endpoint.
type ChainProvider interface {
	Reader(ctx context.Context, rpc string) (assets.Reader, error)
	Signer(ctx context.Context, rpc string, key keys.Secret) (transfer.Signer, error)
}

type serviceProvider struct {
	svc *chain.Service
}

// FromService exposes a chain.Service as a ChainProvider.
func FromService(svc *chain.Service) ChainProvider {
	return serviceProvider{svc: svc}
}

func (p serviceProvider) Reader(ctx context.Context, rpc string) (assets.Reader, error) {
	c, err := p.svc.Client(ctx, rpc)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (p serviceProvider) Signer(ctx context.Context, rpc string, key keys.Secret) (transfer.Signer, error) {
	s, err := p.svc.Signer(ctx, rpc, key)
	if err != nil {
		return nil, err
	}
	return s, nil
}
