package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var features = []string{
	"Generate wallets from 12-word mnemonics or import mnemonics and private keys",
	"Encrypted wallet file (Argon2id + XChaCha20-Poly1305)",
	"Custom EVM networks per wallet",
	"ERC-20 tokens with metadata read from the contract",
	"Native and token transfers with EIP-1559 fees when available",
	"Batch transfers from a file or typed lines",
}

func (r *runner) aboutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "about",
		Short: "Describe this tool",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "cli-wallet %s\n\n", r.opts.Build.Version)
			_, _ = fmt.Fprintln(out, "A local wallet for EVM networks. Keys never leave this machine.")
			_, _ = fmt.Fprintf(out, "Default network: %s (%s)\n\n", r.opts.Builtin.Name, r.opts.Builtin.Symbol)
			for _, f := range features {
				_, _ = fmt.Fprintf(out, "  - %s\n", f)
			}
		},
	}
}

func (r *runner) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			b := r.opts.Build
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s (commit %s, built %s)\n", b.Version, b.Commit, b.BuildDate)
		},
	}
}
