package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/quantumauth-io/cli-wallet/internal/app"
	"github.com/quantumauth-io/cli-wallet/internal/transfer"
)

func (r *runner) balanceCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "balance",
		Aliases: []string{"balances"},
		Short:   "Show balances of the primary wallet on its active network",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withSession(cmd, func(ctx context.Context, s *app.Session, _ *Terminal) error {
				snap, err := s.Balances(ctx)
				if err != nil {
					return err
				}
				renderSnapshot(cmd.OutOrStdout(), snap)
				return nil
			})
		},
	}
}

// pickAsset lists the sendable assets and asks for one when no selector
// was given on the command line.
func pickAsset(ctx context.Context, s *app.Session, t *Terminal, selector string) (string, error) {
	if strings.TrimSpace(selector) != "" {
		return selector, nil
	}
	list, err := s.Assets()
	if err != nil {
		return "", err
	}
	renderAssets(t.out, list)
	return t.Line(ctx, "Asset (number, symbol or address): ")
}

func (r *runner) sendCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "send [asset] [to] [amount]",
		Short: "Send the native coin or a token",
		Long: `Send one transfer from the primary wallet. The asset is chosen by its
number in the balance list, its symbol or its contract address. Missing
arguments are asked for interactively.`,
		Args: cobra.MaximumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withSession(cmd, func(ctx context.Context, s *app.Session, t *Terminal) error {
				in := make([]string, 3)
				copy(in, args)

				selector, err := pickAsset(ctx, s, t, in[0])
				if err != nil {
					return err
				}
				if in[1] == "" {
					if in[1], err = t.Line(ctx, "Recipient address: "); err != nil {
						return err
					}
				}
				if in[2] == "" {
					if in[2], err = t.Line(ctx, "Amount: "); err != nil {
						return err
					}
				}

				o, err := s.Send(ctx, selector, in[1], in[2])
				if err != nil {
					return err
				}
				if o.Status == transfer.StatusRejected && o.Reason == transfer.ReasonCancelled {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Transfer cancelled.")
					return nil
				}
				if !o.OK() {
					return outcomeError(o)
				}
				renderOutcome(cmd.OutOrStdout(), o)
				return nil
			})
		},
	}
}

func outcomeError(o transfer.Outcome) error {
	if o.Err != nil {
		return errors.Wrapf(o.Err, "transfer %s", o.Status)
	}
	return errors.Newf("transfer %s: %s", o.Status, o.Reason)
}

func (r *runner) batchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "batch <asset> [file.txt]",
		Short: "Send one asset to many recipients",
		Long: `Send the same asset to several recipients. Each line holds
"<address> <amount>". Lines come from the given .txt file, or are typed
one by one until "send" when no file is given. Blank lines and lines
starting with # are ignored. Transfers run one after another after a
single confirmation.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withSession(cmd, func(ctx context.Context, s *app.Session, t *Terminal) error {
				entries, err := batchEntries(ctx, s, t, args)
				if err != nil {
					return err
				}
				if len(entries) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No transfers to send.")
					return nil
				}

				res, err := s.Batch(ctx, args[0], entries)
				if err != nil {
					return err
				}
				renderBatch(cmd.OutOrStdout(), res)
				if failed := len(res.Outcomes) - res.Succeeded(); failed > 0 {
					return errors.Newf("%d of %d transfers did not go through", failed, len(res.Outcomes))
				}
				return nil
			})
		},
	}
}

func batchEntries(ctx context.Context, s *app.Session, t *Terminal, args []string) ([]transfer.Entry, error) {
	if len(args) < 2 {
		t.Notify(`Enter "<address> <amount>" per line, then "send" to continue.`)
		return s.CollectBatch(ctx)
	}
	entries, bad, err := transfer.ReadBatchFile(args[1])
	if err != nil {
		return nil, err
	}
	for _, le := range bad {
		t.Notify("skipping " + le.Error())
	}
	return entries, nil
}

func (r *runner) importLegacyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import-legacy <wallet.json>",
		Short: "Import wallets from an older plaintext wallet file",
		Long: `Import wallets from the plaintext wallet.json written by earlier versions
and store them encrypted. Wallets already present are skipped. The old
file is left untouched; delete it once the import looks right.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withSession(cmd, func(ctx context.Context, s *app.Session, _ *Terminal) error {
				rep, err := s.ImportLegacy(ctx, args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, rec := range rep.Imported {
					_, _ = fmt.Fprintf(out, "imported %s\n", rec)
				}
				for _, why := range rep.Skipped {
					_, _ = fmt.Fprintf(out, "skipped %s\n", why)
				}
				_, _ = fmt.Fprintf(out, "%d imported, %d skipped\n", len(rep.Imported), len(rep.Skipped))
				return nil
			})
		},
	}
}
