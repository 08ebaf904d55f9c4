package app

import (
	"context"
	"fmt"

	"github.com/quantumauth-io/quantum-go-utils/log"

	"github.com/quantumauth-io/cli-wallet/internal/assets"
	"github.com/quantumauth-io/cli-wallet/internal/ethaddr"
	"github.com/quantumauth-io/cli-wallet/internal/networks"
	"github.com/quantumauth-io/cli-wallet/internal/wallet"
)

// withPrimary runs fn against the primary wallet's network manager inside
// one read-modify-write cycle.
func (s *Session) withPrimary(ctx context.Context, fn func(m *networks.Manager) error) error {
	return s.mutate(ctx, func(reg *wallet.Registry) error {
		rec, ok := reg.Primary()
		if !ok {
			return ErrNoWallets
		}
		if err := fn(rec.NetworkManager(s.cfg.Builtin)); err != nil {
			return err
		}
		return reg.Update(rec)
	})
}

func (s *Session) AddNetwork(ctx context.Context, name, symbol, rpc string) (networks.Network, error) {
	var n networks.Network
	err := s.withPrimary(ctx, func(m *networks.Manager) error {
		var err error
		n, err = m.AddNetwork(name, symbol, rpc)
		return err
	})
	if err != nil {
		return networks.Network{}, err
	}
	log.Info("network added", "name", name, "rpc", n.RPC)
	return n, nil
}

func (s *Session) UseNetwork(ctx context.Context, name string) (networks.Active, error) {
	var active networks.Active
	err := s.withPrimary(ctx, func(m *networks.Manager) error {
		var err error
		active, err = m.SwitchNetwork(name)
		return err
	})
	return active, err
}

// Networks lists network names of the primary wallet and its active network.
func (s *Session) Networks() ([]string, networks.Active, error) {
	rec, err := s.Primary()
	if err != nil {
		return nil, networks.Active{}, err
	}
	m := rec.NetworkManager(s.cfg.Builtin)
	return m.List(), m.Active(), nil
}

func (s *Session) Tokens() ([]networks.Token, networks.Active, error) {
	rec, err := s.Primary()
	if err != nil {
		return nil, networks.Active{}, err
	}
	active := rec.NetworkManager(s.cfg.Builtin).Active()
	return active.Tokens, active, nil
}

// AddToken reads the contract's metadata, asks for confirmation and adds
// the token to the active network. added is false when the address is
// already configured.
func (s *Session) AddToken(ctx context.Context, address string) (tok networks.Token, added bool, err error) {
	canon, err := ethaddr.Canonical(address)
	if err != nil {
		return networks.Token{}, false, err
	}
	rec, err := s.Primary()
	if err != nil {
		return networks.Token{}, false, err
	}
	for _, t := range rec.NetworkManager(s.cfg.Builtin).Tokens() {
		if ethaddr.Equal(t.Address, canon) {
			return t, false, nil
		}
	}

	meta, err := assets.FetchMetadata(ctx, s.chainFor(rec), canon)
	if err != nil {
		return networks.Token{}, false, err
	}

	ok, err := s.confirm(ctx, fmt.Sprintf("Add token %s (%s, %d decimals) at %s?", meta.Name, meta.Symbol, meta.Decimals, canon), true)
	if err != nil {
		return networks.Token{}, false, err
	}
	if !ok {
		return networks.Token{}, false, ErrCancelled
	}

	err = s.withPrimary(ctx, func(m *networks.Manager) error {
		var err error
		tok, added, err = m.AddToken(canon, meta)
		return err
	})
	if err != nil {
		return networks.Token{}, false, err
	}
	if added {
		log.Info("token added", "symbol", tok.Symbol, "address", tok.Address)
	}
	return tok, added, nil
}

func (s *Session) RemoveToken(ctx context.Context, address string) (networks.Token, error) {
	var tok networks.Token
	err := s.withPrimary(ctx, func(m *networks.Manager) error {
		var err error
		tok, err = m.RemoveToken(address)
		return err
	})
	if err != nil {
		return networks.Token{}, err
	}
	log.Info("token removed", "symbol", tok.Symbol, "address", tok.Address)
	return tok, nil
}
