// Package config loads client settings from the environment and flags.
package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/caarlos0/env/v11"
)

// Config holds runtime settings for the social CLI.
type Config struct {
	APIURL string `env:"SOCIAL_API_URL" envDefault:"http://localhost:6001"`
}

// Load reads the environment, then lets -a override the API address.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	fs := flag.NewFlagSet("social", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.APIURL, "a", cfg.APIURL, "address of the social API")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	return cfg, nil
}
