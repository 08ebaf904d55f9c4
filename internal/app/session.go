// Package app drives wallet commands as an explicit state machine on top of
// the store, the wallet registry and the transfer orchestrator. Terminal I/O
// goes through a Prompter.
package app

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/quantumauth-io/quantum-go-utils/log"

	"github.com/quantumauth-io/cli-wallet/internal/errs"
	"github.com/quantumauth-io/cli-wallet/internal/keys"
	"github.com/quantumauth-io/cli-wallet/internal/networks"
	"github.com/quantumauth-io/cli-wallet/internal/transfer"
	"github.com/quantumauth-io/cli-wallet/internal/wallet"
)

var (
	ErrNoWallets = errors.Mark(errors.New("no wallets yet, generate or import one first"), errs.ErrNotFound)
	ErrCancelled = errors.New("cancelled")
)

type Config struct {
	Builtin  networks.Builtin
	Store    Persister
	Chain    ChainProvider
	Prompter Prompter
	Password []byte

	// AssumeYes skips every confirmation.
	AssumeYes bool
}

type Session struct {
	cfg          Config
	reg          *wallet.Registry
	state        State
	orchestrator *transfer.Orchestrator
}

func NewSession(cfg Config) *Session {
	s := &Session{
		cfg:   cfg,
		reg:   wallet.NewRegistry(cfg.Builtin, nil),
		state: State{Kind: NoWallets},
	}
	s.orchestrator = transfer.NewOrchestrator(s.transferConfirmer())
	return s
}

func (s *Session) State() State { return s.state }

func (s *Session) Builtin() networks.Builtin { return s.cfg.Builtin }

// Load reads the store and settles the session state.
func (s *Session) Load(ctx context.Context) error {
	reg, err := s.load(ctx)
	if err != nil {
		return err
	}
	s.reg = reg
	s.settle()
	return nil
}

func (s *Session) load(ctx context.Context) (*wallet.Registry, error) {
	recs, err := s.cfg.Store.Load(s.cfg.Password)
	if errors.Is(err, errs.ErrCorruptState) {
		moved, qerr := s.cfg.Store.Quarantine()
		if qerr != nil {
			return nil, errors.CombineErrors(err, qerr)
		}
		log.Warn("wallet file unreadable, starting empty", "moved_to", moved, "error", err)
		s.notify(ctx, "Wallet file could not be parsed and was moved to "+moved)
		recs = nil
	} else if err != nil {
		return nil, err
	}
	return wallet.NewRegistry(s.cfg.Builtin, recs), nil
}

// mutate runs one read-modify-write cycle. The store is deleted when the
// registry ends up empty.
func (s *Session) mutate(ctx context.Context, fn func(reg *wallet.Registry) error) error {
	reg, err := s.load(ctx)
	if err != nil {
		return err
	}
	if err := fn(reg); err != nil {
		return err
	}

	if reg.Len() == 0 {
		if err := s.cfg.Store.Delete(); err != nil {
			return err
		}
	} else if err := s.cfg.Store.Save(reg.List(), s.cfg.Password); err != nil {
		return err
	}

	s.reg = reg
	s.settle()
	return nil
}

func (s *Session) settle() {
	if s.reg.Len() == 0 {
		s.state = State{Kind: NoWallets}
		return
	}
	s.state = State{Kind: WalletSelected}
}

// await moves the session into AwaitingInput and returns the function that
// moves it back.
func (s *Session) await(kind InputKind) func() {
	prev := s.state
	s.state = State{Kind: AwaitingInput, Awaiting: kind}
	return func() { s.state = prev }
}

func (s *Session) notify(_ context.Context, msg string) {
	if s.cfg.Prompter != nil {
		s.cfg.Prompter.Notify(msg)
	}
}

func (s *Session) askLine(ctx context.Context, kind InputKind, label string) (string, error) {
	if s.cfg.Prompter == nil {
		return "", errors.Wrapf(errs.ErrEmptyField, "%s", strings.TrimSuffix(label, ": "))
	}
	done := s.await(kind)
	defer done()
	return s.cfg.Prompter.Line(ctx, label)
}

func (s *Session) askSecret(ctx context.Context, label string) (string, error) {
	if s.cfg.Prompter == nil {
		return "", errors.Wrapf(errs.ErrEmptyField, "%s", strings.TrimSuffix(label, ": "))
	}
	done := s.await(InputSecret)
	defer done()
	return s.cfg.Prompter.Secret(ctx, label)
}

func (s *Session) confirm(ctx context.Context, question string, defaultYes bool) (bool, error) {
	if s.cfg.AssumeYes {
		return true, nil
	}
	if s.cfg.Prompter == nil {
		return false, nil
	}
	done := s.await(InputConfirmation)
	defer done()
	return s.cfg.Prompter.Confirm(ctx, question, defaultYes)
}

// Primary returns the selected wallet.
func (s *Session) Primary() (wallet.Record, error) {
	rec, ok := s.reg.Primary()
	if !ok {
		return wallet.Record{}, ErrNoWallets
	}
	return rec, nil
}

func (s *Session) Wallets() []wallet.Record { return s.reg.List() }

func (s *Session) chainFor(rec wallet.Record) *lazyChain {
	active := rec.NetworkManager(s.cfg.Builtin).Active()
	return &lazyChain{
		provider: s.cfg.Chain,
		rpc:      active.RPC,
		key:      rec.PrivateKey,
		address:  common.HexToAddress(rec.Address),
	}
}

// ImportMaterial turns user input into key material. Input with more than
// one word is a mnemonic; anything else is a raw private key.
func ImportMaterial(secret string) (*keys.Material, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, errors.Wrap(errs.ErrEmptyField, "mnemonic or private key")
	}
	if len(strings.Fields(secret)) > 1 {
		return keys.FromMnemonic(secret)
	}
	return keys.FromPrivateKey(secret)
}
