package cli

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/quantumauth-io/cli-wallet/internal/app"
)

func (r *runner) tokenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Track ERC-20 tokens on the active network",
	}
	cmd.AddCommand(r.tokenAddCommand(), r.tokenRemoveCommand(), r.tokenListCommand())
	return cmd
}

func (r *runner) tokenAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <contract-address>",
		Short: "Read token metadata from the contract and track it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withSession(cmd, func(ctx context.Context, s *app.Session, _ *Terminal) error {
				tok, added, err := s.AddToken(ctx, args[0])
				if errors.Is(err, app.ErrCancelled) {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Token not added.")
					return nil
				}
				if err != nil {
					return err
				}
				if !added {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s is already tracked\n", tok.Symbol)
					return nil
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s, %d decimals)\n", tok.Symbol, tok.Address, tok.Decimals)
				return nil
			})
		},
	}
}

func (r *runner) tokenRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <contract-address>",
		Aliases: []string{"rm"},
		Short:   "Stop tracking a token",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withSession(cmd, func(ctx context.Context, s *app.Session, _ *Terminal) error {
				tok, err := s.RemoveToken(ctx, args[0])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", tok.Symbol)
				return nil
			})
		},
	}
}

func (r *runner) tokenListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tracked tokens",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withSession(cmd, func(_ context.Context, s *app.Session, _ *Terminal) error {
				tokens, active, err := s.Tokens()
				if err != nil {
					return err
				}
				renderTokens(cmd.OutOrStdout(), active, tokens)
				return nil
			})
		},
	}
}
