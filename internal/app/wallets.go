package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/quantumauth-io/quantum-go-utils/log"

	"github.com/quantumauth-io/cli-wallet/internal/keys"
	"github.com/quantumauth-io/cli-wallet/internal/store"
	"github.com/quantumauth-io/cli-wallet/internal/wallet"
)

func (s *Session) walletName(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name != "" {
		return name, nil
	}
	return s.askLine(ctx, InputWalletName, "Wallet name: ")
}

// GenerateWallet creates a wallet from a fresh mnemonic and makes it primary.
func (s *Session) GenerateWallet(ctx context.Context, name string) (wallet.Record, error) {
	name, err := s.walletName(ctx, name)
	if err != nil {
		return wallet.Record{}, err
	}
	if err := s.reg.CheckName(name); err != nil {
		return wallet.Record{}, err
	}

	m, err := keys.Generate()
	if err != nil {
		return wallet.Record{}, err
	}
	return s.create(ctx, name, m)
}

// ImportWallet adds a wallet from a mnemonic or a raw private key.
func (s *Session) ImportWallet(ctx context.Context, name, secret string) (wallet.Record, error) {
	name, err := s.walletName(ctx, name)
	if err != nil {
		return wallet.Record{}, err
	}
	if err := s.reg.CheckName(name); err != nil {
		return wallet.Record{}, err
	}

	if strings.TrimSpace(secret) == "" {
		secret, err = s.askSecret(ctx, "Mnemonic or private key: ")
		if err != nil {
			return wallet.Record{}, err
		}
	}
	m, err := ImportMaterial(secret)
	if err != nil {
		return wallet.Record{}, err
	}
	return s.create(ctx, name, m)
}

func (s *Session) create(ctx context.Context, name string, m *keys.Material) (wallet.Record, error) {
	var rec wallet.Record
	err := s.mutate(ctx, func(reg *wallet.Registry) error {
		var err error
		rec, err = reg.Create(name, m)
		return err
	})
	if err != nil {
		return wallet.Record{}, err
	}
	log.Info("wallet created", "name", rec.Name, "address", rec.Address)
	return rec, nil
}

// UseWallet makes the wallet matching nameOrAddress primary.
func (s *Session) UseWallet(ctx context.Context, nameOrAddress string) (wallet.Record, error) {
	var rec wallet.Record
	err := s.mutate(ctx, func(reg *wallet.Registry) error {
		found, err := reg.Find(nameOrAddress)
		if err != nil {
			return err
		}
		if err := reg.SetPrimary(found.Address); err != nil {
			return err
		}
		rec, _ = reg.Primary()
		return nil
	})
	return rec, err
}

// DeleteWallet removes a wallet after confirmation. Deleting the last
// wallet removes the wallet file.
func (s *Session) DeleteWallet(ctx context.Context, nameOrAddress string) (wallet.Record, error) {
	target, err := s.reg.Find(nameOrAddress)
	if err != nil {
		return wallet.Record{}, err
	}
	ok, err := s.confirm(ctx, fmt.Sprintf("Delete wallet %s? Its key cannot be recovered from this tool", target), false)
	if err != nil {
		return wallet.Record{}, err
	}
	if !ok {
		return wallet.Record{}, ErrCancelled
	}

	var removed wallet.Record
	err = s.mutate(ctx, func(reg *wallet.Registry) error {
		var err error
		removed, _, err = reg.Remove(target.Address)
		return err
	})
	if err != nil {
		return wallet.Record{}, err
	}
	log.Info("wallet deleted", "name", removed.Name, "address", removed.Address)
	return removed, nil
}

// LegacyReport summarizes a legacy import.
type LegacyReport struct {
	Imported []wallet.Record
	Skipped  []string
}

// ImportLegacy merges wallets from an older plaintext wallet file. Wallets
// whose address or name already exists are skipped, as are networks and
// tokens the network rules reject.
func (s *Session) ImportLegacy(ctx context.Context, path string) (LegacyReport, error) {
	legacy, notes, err := store.ReadLegacy(path, s.cfg.Builtin)
	if err != nil {
		return LegacyReport{}, err
	}

	var rep LegacyReport
	err = s.mutate(ctx, func(reg *wallet.Registry) error {
		rep = LegacyReport{Skipped: append([]string(nil), notes...)}
		primary := ""
		for _, lr := range legacy {
			if _, err := reg.Find(lr.Address); err == nil {
				rep.Skipped = append(rep.Skipped, fmt.Sprintf("%s: address already present", lr))
				continue
			}
			m := &keys.Material{
				Address:    common.HexToAddress(lr.Address),
				PrivateKey: lr.PrivateKey,
				Mnemonic:   lr.Mnemonic,
			}
			rec, err := reg.Create(lr.Name, m)
			if err != nil {
				rep.Skipped = append(rep.Skipped, fmt.Sprintf("%s: %v", lr, err))
				continue
			}
			rec.Settings = lr.Settings
			if err := reg.Update(rec); err != nil {
				return err
			}
			if lr.Primary {
				primary = rec.Address
			}
			rep.Imported = append(rep.Imported, rec)
		}
		if primary != "" {
			return reg.SetPrimary(primary)
		}
		return nil
	})
	if err != nil {
		return LegacyReport{}, errors.Wrap(err, "import legacy wallets")
	}
	log.Info("legacy wallets imported", "path", path, "imported", len(rep.Imported), "skipped", len(rep.Skipped))
	return rep, nil
}
