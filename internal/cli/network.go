package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quantumauth-io/cli-wallet/internal/app"
)

func (r *runner) networkCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "network",
		Short: "Manage networks of the primary wallet",
	}
	cmd.AddCommand(r.networkAddCommand(), r.networkUseCommand(), r.networkListCommand())
	return cmd
}

func (r *runner) networkAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name> <symbol> <rpc-url>",
		Short: "Add a custom network",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withSession(cmd, func(ctx context.Context, s *app.Session, _ *Terminal) error {
				if _, err := s.AddNetwork(ctx, args[0], args[1], args[2]); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added network %s\n", args[0])
				return nil
			})
		},
	}
}

func (r *runner) networkUseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "use <name>",
		Short: "Switch the active network",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withSession(cmd, func(ctx context.Context, s *app.Session, _ *Terminal) error {
				active, err := s.UseNetwork(ctx, args[0])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Now on %s (%s)\n", active.Name, active.Symbol)
				return nil
			})
		},
	}
}

func (r *runner) networkListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List networks, the active one marked with *",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withSession(cmd, func(_ context.Context, s *app.Session, _ *Terminal) error {
				names, active, err := s.Networks()
				if err != nil {
					return err
				}
				for _, n := range names {
					marker := " "
					if n == active.Name {
						marker = "*"
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", marker, n)
				}
				return nil
			})
		},
	}
}
