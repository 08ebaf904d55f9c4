package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	utilsconfig "github.com/quantumauth-io/quantum-go-utils/config"

	"github.com/quantumauth-io/cli-wallet/internal/chain"
	"github.com/quantumauth-io/cli-wallet/internal/constants"
	"github.com/quantumauth-io/cli-wallet/internal/networks"
	"github.com/quantumauth-io/cli-wallet/internal/securefile"
)

type KDF struct {
	Time      uint32
	MemoryKiB uint32
	Threads   uint8
}

type Storage struct {
	AppName    string
	WalletFile string
	KDF        KDF
}

type Chain struct {
	DialTimeoutSeconds int
	CallTimeoutSeconds int
	GasMarginPercent   uint64
}

type Config struct {
	Storage Storage
	Builtin networks.Builtin
	Chain   Chain
}

func Load() (*Config, error) {
	home, _ := os.UserHomeDir()
	paths := []string{
		filepath.Join(home, ".config", constants.AppName),
		filepath.Join(home, "config"),
		".",
	}

	cfg, err := utilsconfig.ParseConfigWithEmbedded[Config](paths, EmbeddedConfigYAML)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Builtin.Name) == "" || strings.TrimSpace(c.Builtin.Symbol) == "" {
		return errors.New("config: Builtin.Name and Builtin.Symbol are required")
	}
	if err := networks.ValidateRPC(c.Builtin.RPC); err != nil {
		return errors.Wrap(err, "config: Builtin.RPC")
	}
	return nil
}

// ApplyBuiltinRPC overrides the built-in endpoint, e.g. from CLIWALLET_BUILTIN_RPC.
func (c *Config) ApplyBuiltinRPC(rpc string) error {
	rpc = strings.TrimSpace(rpc)
	if rpc == "" {
		return nil
	}
	if err := networks.ValidateRPC(rpc); err != nil {
		return err
	}
	c.Builtin.RPC = rpc
	return nil
}

// KDFParams returns the wallet file KDF settings, falling back to defaults
// for unset values.
func (c *Config) KDFParams() securefile.KDFParams {
	p := securefile.DefaultKDF
	if c.Storage.KDF.Time > 0 {
		p.ArgonTime = c.Storage.KDF.Time
	}
	if c.Storage.KDF.MemoryKiB > 0 {
		p.ArgonMemory = c.Storage.KDF.MemoryKiB
	}
	if c.Storage.KDF.Threads > 0 {
		p.ArgonThreads = c.Storage.KDF.Threads
	}
	return p
}

func (c *Config) ChainConfig() chain.Config {
	return chain.Config{
		DialTimeout:      time.Duration(c.Chain.DialTimeoutSeconds) * time.Second,
		CallTimeout:      time.Duration(c.Chain.CallTimeoutSeconds) * time.Second,
		GasMarginPercent: c.Chain.GasMarginPercent,
	}
}
