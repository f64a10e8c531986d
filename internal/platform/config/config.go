// Package config loads command configuration from the environment.
//
// Config structs declare their bindings with `env` struct tags and fall back
// to `envDefault` values for unset variables; flag overrides are layered on
// top by the command entrypoints.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
)

// ParseEnv fills target's env-tagged fields from the environment.
func ParseEnv(target any) error {
	if target == nil {
		return errors.New("config target is required")
	}
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Exitf reports a startup failure on stderr and exits the process. Commands
// use it for errors raised before the run loop owns error handling.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
