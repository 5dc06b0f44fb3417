// Package config loads process configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every env tag parsed through ParseEnv.
const EnvPrefix = "EASYVENTS_"

// ParseEnv fills target from EASYVENTS_-prefixed environment variables.
// Struct tags name the variable without the prefix.
func ParseEnv(target any) error {
	return ParseEnvWith(target, nil)
}

// ParseEnvWith is ParseEnv with an explicit environment, used by tests and
// callers that read from somewhere other than the process env. A nil
// environment reads the process env.
func ParseEnvWith(target any, environment map[string]string) error {
	opts := env.Options{Prefix: EnvPrefix}
	if environment != nil {
		opts.Environment = environment
	}
	if err := env.ParseWithOptions(target, opts); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
