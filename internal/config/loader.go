package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/isupersid/stalker-test-client/pkg/constants"
	"github.com/isupersid/stalker-test-client/pkg/errors"
)

// LoadConfig loads the configuration from file, environment variables, and defaults.
// A missing config file is not an error; every value can come from flags or env.
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("portal.timezone", constants.DefaultTimezone)
	v.SetDefault("scan.pacing_interval", constants.DefaultPacingInterval)
	v.SetDefault("log.level", constants.DefaultLogLevel)
	v.SetDefault("log.format", "console")

	// Load from config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.stalker-probe")
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configFile != "" {
			return nil, errors.New(errors.KindConfig, "failed to read config file").WithCause(err)
		}
	}

	// Load from environment variables
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.New(errors.KindConfig, "failed to unmarshal config").WithCause(err)
	}

	return &cfg, nil
}
