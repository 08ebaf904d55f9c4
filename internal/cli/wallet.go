package cli

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/skip2/go-qrcode"
	"github.com/spf13/cobra"

	"github.com/quantumauth-io/cli-wallet/internal/app"
)

func (r *runner) walletCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallet",
		Short: "Create, import and select wallets",
	}
	cmd.AddCommand(
		r.walletGenerateCommand(),
		r.walletImportCommand(),
		r.walletListCommand(),
		r.walletUseCommand(),
		r.walletDeleteCommand(),
		r.walletShowCommand(),
		r.walletReceiveCommand(),
	)
	return cmd
}

func optionalArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

func (r *runner) walletGenerateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "generate [name]",
		Short: "Create a wallet from a new 12-word mnemonic",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withSession(cmd, func(ctx context.Context, s *app.Session, _ *Terminal) error {
				rec, err := s.GenerateWallet(ctx, optionalArg(args))
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(out, "Created wallet %s\n", rec)
				_, _ = fmt.Fprintln(out, "Write down the recovery phrase and keep it offline:")
				_, _ = fmt.Fprintf(out, "\n  %s\n\n", rec.Mnemonic.Reveal())
				return nil
			})
		},
	}
}

func (r *runner) walletImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import [name]",
		Short: "Import a wallet from a mnemonic or a private key",
		Long: `Import a wallet. The mnemonic or private key is always read from the
terminal with echo disabled so it never ends up in shell history.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withSession(cmd, func(ctx context.Context, s *app.Session, _ *Terminal) error {
				rec, err := s.ImportWallet(ctx, optionalArg(args), "")
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Imported wallet %s\n", rec)
				return nil
			})
		},
	}
}

func (r *runner) walletListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List wallets, the primary one marked with *",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withSession(cmd, func(_ context.Context, s *app.Session, _ *Terminal) error {
				renderWallets(cmd.OutOrStdout(), s.Wallets())
				return nil
			})
		},
	}
}

func (r *runner) walletUseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "use <name|address>",
		Short: "Make a wallet primary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withSession(cmd, func(ctx context.Context, s *app.Session, _ *Terminal) error {
				rec, err := s.UseWallet(ctx, args[0])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Primary wallet is now %s\n", rec)
				return nil
			})
		},
	}
}

func (r *runner) walletDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <name|address>",
		Aliases: []string{"rm"},
		Short:   "Delete a wallet",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withSession(cmd, func(ctx context.Context, s *app.Session, _ *Terminal) error {
				rec, err := s.DeleteWallet(ctx, args[0])
				if errors.Is(err, app.ErrCancelled) {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Nothing deleted.")
					return nil
				}
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted wallet %s\n", rec)
				return nil
			})
		},
	}
}

func (r *runner) walletShowCommand() *cobra.Command {
	var reveal bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the primary wallet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withSession(cmd, func(ctx context.Context, s *app.Session, t *Terminal) error {
				rec, err := s.Primary()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				renderWallet(out, rec, rec.NetworkManager(s.Builtin()).Active())
				if !reveal {
					return nil
				}

				ok := r.assumeYes
				if !ok {
					ok, err = t.Confirm(ctx, "Print the private key to the terminal?", false)
					if err != nil {
						return err
					}
				}
				if !ok {
					return nil
				}
				_, _ = fmt.Fprintf(out, "Private key: %s\n", rec.PrivateKey.Reveal())
				if m := rec.Mnemonic.Reveal(); m != "" {
					_, _ = fmt.Fprintf(out, "Mnemonic:    %s\n", m)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&reveal, "reveal", false, "also print the private key and mnemonic")
	return cmd
}

func (r *runner) walletReceiveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "receive",
		Short: "Print the primary address with a QR code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withSession(cmd, func(_ context.Context, s *app.Session, _ *Terminal) error {
				rec, err := s.Primary()
				if err != nil {
					return err
				}
				qr, err := qrcode.New(rec.Address, qrcode.Medium)
				if err != nil {
					return errors.Wrap(err, "failed to generate QR code")
				}
				out := cmd.OutOrStdout()
				_, _ = fmt.Fprintln(out, qr.ToSmallString(false))
				_, _ = fmt.Fprintln(out, rec.Address)
				return nil
			})
		},
	}
}
