package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Overrides holds settings the environment forces over saved preferences.
// Empty values mean "no override".
type Overrides struct {
	APIBaseURL string `env:"API_URL"`
	FeedPort   string `env:"FEED_PORT"`
	Debug      bool   `env:"DEBUG"`
}

// LoadOverrides reads the HERMANDAD_* environment variables.
func LoadOverrides() (Overrides, error) {
	var o Overrides
	if err := env.ParseWithOptions(&o, env.Options{Prefix: EnvPrefix}); err != nil {
		return Overrides{}, fmt.Errorf("%s: %w", ErrEnvParse, err)
	}
	return o, nil
}

// Pick returns the override when set, the preference otherwise, and the
// fallback when both are empty.
func Pick(override, pref, fallback string) string {
	if override != "" {
		return override
	}
	if pref != "" {
		return pref
	}
	return fallback
}
