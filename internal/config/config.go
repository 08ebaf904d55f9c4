// Package config reads CLIWALLET_* environment overrides.
package config

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "CLIWALLET"

// Env holds environment overrides. Every field is optional.
type Env struct {
	// Password unlocks the wallet file without a prompt.
	Password string `envconfig:"PASSWORD"`
	// Env selects a config subfolder: local or develop.
	Env string `envconfig:"ENV"`
	// BuiltinRPC replaces the built-in network's endpoint.
	BuiltinRPC string `envconfig:"BUILTIN_RPC"`
	// Home overrides the directory holding the wallet file.
	Home string `envconfig:"HOME"`
}

func Load() (*Env, error) {
	var e Env
	if err := envconfig.Process(EnvPrefix, &e); err != nil {
		return nil, errors.Wrap(err, "process environment")
	}
	e.BuiltinRPC = strings.TrimSpace(e.BuiltinRPC)
	e.Home = strings.TrimSpace(e.Home)
	return &e, nil
}

// PasswordBytes returns a fresh copy of the password, or nil when unset.
// Callers should zero it after use.
func (e *Env) PasswordBytes() []byte {
	if e == nil || e.Password == "" {
		return nil
	}
	return []byte(e.Password)
}
