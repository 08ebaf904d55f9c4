package app

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/quantumauth-io/cli-wallet/internal/assets"
	"github.com/quantumauth-io/cli-wallet/internal/ethaddr"
	"github.com/quantumauth-io/cli-wallet/internal/networks"
	"github.com/quantumauth-io/cli-wallet/internal/transfer"
	"github.com/quantumauth-io/cli-wallet/internal/units"
	"github.com/quantumauth-io/cli-wallet/internal/wallet"
)

// Snapshot is the balance view of the primary wallet.
type Snapshot struct {
	Wallet   wallet.Record
	Network  networks.Active
	Holdings []assets.Holding
}

func (s *Session) Balances(ctx context.Context) (Snapshot, error) {
	rec, err := s.Primary()
	if err != nil {
		return Snapshot{}, err
	}
	hs, err := assets.Snapshot(ctx, s.chainFor(rec), rec, s.cfg.Builtin)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		Wallet:   rec,
		Network:  rec.NetworkManager(s.cfg.Builtin).Active(),
		Holdings: hs,
	}, nil
}

// Assets lists what the primary wallet can send on its active network.
func (s *Session) Assets() ([]assets.Asset, error) {
	rec, err := s.Primary()
	if err != nil {
		return nil, err
	}
	return assets.Resolve(rec, s.cfg.Builtin), nil
}

func (s *Session) selectAsset(selector string) (wallet.Record, assets.Asset, error) {
	rec, err := s.Primary()
	if err != nil {
		return wallet.Record{}, nil, err
	}
	a, err := assets.Select(assets.Resolve(rec, s.cfg.Builtin), selector)
	if err != nil {
		return wallet.Record{}, nil, err
	}
	return rec, a, nil
}

// Send transfers amount of the selected asset to destination.
func (s *Session) Send(ctx context.Context, selector, destination, amount string) (transfer.Outcome, error) {
	rec, a, err := s.selectAsset(selector)
	if err != nil {
		return transfer.Outcome{}, err
	}
	c := s.chainFor(rec)
	return s.orchestrator.SendSingle(ctx, c, c, a, destination, amount), nil
}

// Batch sends the selected asset to every entry.
func (s *Session) Batch(ctx context.Context, selector string, entries []transfer.Entry) (transfer.BatchResult, error) {
	rec, a, err := s.selectAsset(selector)
	if err != nil {
		return transfer.BatchResult{}, err
	}
	c := s.chainFor(rec)
	return s.orchestrator.SendBatch(ctx, c, c, a, entries), nil
}

// CollectBatch reads "<address> <amount>" lines from the prompter until the
// user types "send" or input ends. Bad lines are reported and dropped.
func (s *Session) CollectBatch(ctx context.Context) ([]transfer.Entry, error) {
	if s.cfg.Prompter == nil {
		return nil, errors.New("no terminal to read batch lines from")
	}
	done := s.await(InputBatchLines)
	defer done()

	var entries []transfer.Entry
	for n := 1; ; n++ {
		line, err := s.cfg.Prompter.Line(ctx, "> ")
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if strings.EqualFold(strings.TrimSpace(line), "send") {
			break
		}
		e, ok, err := transfer.ParseLine(line, n)
		if err != nil {
			s.cfg.Prompter.Notify(err.Error())
			continue
		}
		if !ok {
			continue
		}
		if !ethaddr.Valid(e.Destination) {
			s.cfg.Prompter.Notify(fmt.Sprintf("line %d: invalid address %q", n, e.Destination))
			continue
		}
		if _, err := units.ParseDecimal(e.Amount); err != nil {
			s.cfg.Prompter.Notify(fmt.Sprintf("line %d: %v", n, err))
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (s *Session) transferConfirmer() transfer.Confirmer {
	return transfer.ConfirmFunc(func(ctx context.Context, req transfer.Request) (bool, error) {
		if s.cfg.AssumeYes {
			return true, nil
		}
		if s.cfg.Prompter == nil {
			return false, nil
		}
		symbol := assets.SymbolOf(req.Asset)
		decimals := assets.DecimalsOf(req.Asset)

		// single sends carry no run id
		if req.RunID == "" && len(req.Transfers) == 1 {
			p := req.Transfers[0]
			return s.confirm(ctx, fmt.Sprintf("Send %s %s to %s?", p.Amount, symbol, p.To.Hex()), true)
		}

		var b strings.Builder
		fmt.Fprintf(&b, "Batch %s: %d transfers of %s\n", req.RunID, len(req.Transfers), symbol)
		for _, p := range req.Transfers {
			fmt.Fprintf(&b, "  %s <= %s %s\n", p.To.Hex(), p.Amount, symbol)
		}
		fmt.Fprintf(&b, "Total: %s %s", units.FormatUnitsTrim(req.Total(), decimals, int(decimals)), symbol)
		s.cfg.Prompter.Notify(b.String())
		return s.confirm(ctx, "Send all?", false)
	})
}
