package config

import (
	"fmt"
	"strconv"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every environment variable read by braviactl
const EnvPrefix = "BRAVIACTL"

// DefaultConfigFile is used when neither -c nor BRAVIACTL_CONFIG is set
const DefaultConfigFile = "braviactl.yml"

// Env holds the environment overlay. Flags win over these values and these
// win over the config file. A variable that is set but empty counts as unset.
//
//	BRAVIACTL_HOST, BRAVIACTL_PSK, BRAVIACTL_CONFIG,
//	BRAVIACTL_PASSPHRASE, BRAVIACTL_DEBUG
type Env struct {
	Host       string `envconfig:"HOST"`
	PSK        string `envconfig:"PSK"`
	Config     string `envconfig:"CONFIG"`
	Passphrase string `envconfig:"PASSPHRASE"`
	DebugValue string `envconfig:"DEBUG"`

	Debug bool `ignored:"true"`
}

// LoadEnv reads the BRAVIACTL_ environment variables
func LoadEnv() (*Env, error) {
	var env Env
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if env.Config == "" {
		env.Config = DefaultConfigFile
	}
	if env.DebugValue != "" {
		debug, err := strconv.ParseBool(env.DebugValue)
		if err != nil {
			return nil, fmt.Errorf("invalid %s_DEBUG %q: %w", EnvPrefix, env.DebugValue, err)
		}
		env.Debug = debug
	}

	return &env, nil
}
