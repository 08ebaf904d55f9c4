package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/quantumauth-io/quantum-go-utils/log"

	clientconfig "github.com/quantumauth-io/cli-wallet/cmd/cli-wallet/config"
	"github.com/quantumauth-io/cli-wallet/internal/cli"
	"github.com/quantumauth-io/cli-wallet/internal/config"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := clientconfig.Load()
	if err != nil {
		log.Fatal("failed to parse config", "error", err)
	}
	env, err := config.Load()
	if err != nil {
		log.Fatal("failed to read environment", "error", err)
	}
	if err := cfg.ApplyBuiltinRPC(env.BuiltinRPC); err != nil {
		log.Fatal("invalid CLIWALLET_BUILTIN_RPC", "error", err)
	}

	code := cli.Execute(ctx, cli.Options{
		Builtin: cfg.Builtin,
		KDF:     cfg.KDFParams(),
		Chain:   cfg.ChainConfig(),
		Env:     env,
		Build: cli.BuildInfo{
			Version:   Version,
			Commit:    Commit,
			BuildDate: BuildDate,
		},
	})
	stop()
	os.Exit(code)
}
