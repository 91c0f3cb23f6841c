// Package config loads flag defaults from CONDOR_CHECK_* environment variables.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is prepended to every variable name, e.g. CONDOR_CHECK_TIMEOUT.
const EnvPrefix = "CONDOR_CHECK"

// Settings are the defaults the command line flags start from.
// Fields carry no default tags; Defaults is the only source of defaults.
type Settings struct {
	LogLevel   string   `envconfig:"LOGLEVEL"`
	Timeout    int      `envconfig:"TIMEOUT"`
	Port       int      `envconfig:"PORT"`
	Pool       string   `envconfig:"POOL"`
	Constraint string   `envconfig:"CONSTRAINT"`
	Parallel   int      `envconfig:"PARALLEL"`
	Hosts      []string `envconfig:"HOSTS"` // probe these instead of asking the collector
}

// Defaults returns the settings used when nothing is set in the environment.
func Defaults() Settings {
	return Settings{LogLevel: "WARNING", Timeout: 3, Parallel: 1}
}

// Load reads Settings from the environment on top of Defaults. Variables
// that are unset leave the default in place. On error the returned
// Settings are the Defaults.
func Load() (Settings, error) {
	s := Defaults()
	if err := envconfig.Process(EnvPrefix, &s); err != nil {
		return Defaults(), fmt.Errorf("reading %s_* environment: %w", EnvPrefix, err)
	}
	return s, s.Validate()
}

// Validate rejects values no run could use.
func (s Settings) Validate() error {
	if s.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %d", s.Timeout)
	}
	if s.Port < 0 || s.Port > 65535 {
		return fmt.Errorf("port must be between 0 and 65535 (0 reads COLLECTOR_PORT), got %d", s.Port)
	}
	if s.Parallel < 1 {
		return fmt.Errorf("parallel must be at least 1, got %d", s.Parallel)
	}
	return nil
}
