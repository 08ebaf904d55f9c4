// Package cli is the cobra command tree of cli-wallet.
package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/quantumauth-io/cli-wallet/internal/app"
	"github.com/quantumauth-io/cli-wallet/internal/chain"
	"github.com/quantumauth-io/cli-wallet/internal/config"
	"github.com/quantumauth-io/cli-wallet/internal/networks"
	"github.com/quantumauth-io/cli-wallet/internal/securefile"
	"github.com/quantumauth-io/cli-wallet/internal/store"
)

type BuildInfo struct {
	Version   string
	Commit    string
	BuildDate string
}

type Options struct {
	Builtin networks.Builtin
	KDF     securefile.KDFParams
	Chain   chain.Config
	Env     *config.Env
	Build   BuildInfo

	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer

	// Provider replaces the go-ethereum backed chain service when set.
	Provider app.ChainProvider
}

type runner struct {
	opts      Options
	configDir string
	assumeYes bool
}

func NewRootCommand(opts Options) *cobra.Command {
	if opts.Env == nil {
		opts.Env = &config.Env{}
	}
	r := &runner{opts: opts}

	root := &cobra.Command{
		Use:   "cli-wallet",
		Short: "Local EVM wallet for the terminal",
		Long: `cli-wallet keeps EVM wallets in an encrypted file on this machine and
sends native coins and ERC-20 tokens, one at a time or in batches.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&r.configDir, "config-dir", "", "directory holding the wallet file")
	root.PersistentFlags().BoolVarP(&r.assumeYes, "yes", "y", false, "skip confirmations")

	if opts.In != nil {
		root.SetIn(opts.In)
	}
	if opts.Out != nil {
		root.SetOut(opts.Out)
	}
	if opts.ErrOut != nil {
		root.SetErr(opts.ErrOut)
	}

	root.AddCommand(
		r.walletCommand(),
		r.networkCommand(),
		r.tokenCommand(),
		r.balanceCommand(),
		r.sendCommand(),
		r.batchCommand(),
		r.importLegacyCommand(),
		r.aboutCommand(),
		r.versionCommand(),
	)
	return root
}

// withSession unlocks the wallet file, runs fn and releases everything the
// session opened.
func (r *runner) withSession(cmd *cobra.Command, fn func(ctx context.Context, s *app.Session, t *Terminal) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	dir := r.configDir
	if dir == "" {
		dir = r.opts.Env.Home
	}
	st, err := store.Open(dir, r.opts.KDF)
	if err != nil {
		return err
	}

	t := NewTerminal(cmd.InOrStdin(), cmd.ErrOrStderr())

	pw := r.opts.Env.PasswordBytes()
	if pw == nil {
		pw, err = readPassword(ctx, t, !st.Exists())
		if err != nil {
			return err
		}
	}
	defer securefile.ZeroBytes(pw)

	provider := r.opts.Provider
	if provider == nil {
		svc := chain.NewService(r.opts.Chain)
		defer svc.Close()
		provider = app.FromService(svc)
	}

	s := app.NewSession(app.Config{
		Builtin:   r.opts.Builtin,
		Store:     st,
		Chain:     provider,
		Prompter:  t,
		Password:  pw,
		AssumeYes: r.assumeYes,
	})
	if err := s.Load(ctx); err != nil {
		return err
	}
	return fn(ctx, s, t)
}

// Execute runs the command tree and returns the process exit code.
func Execute(ctx context.Context, opts Options) int {
	root := NewRootCommand(opts)
	if err := root.ExecuteContext(ctx); err != nil {
		root.PrintErrln("Error: " + userMessage(err))
		return 1
	}
	return 0
}
