package config

import (
	"time"

	"github.com/isupersid/stalker-test-client/pkg/constants"
	"github.com/isupersid/stalker-test-client/pkg/utils"
)

// Config holds the application's configuration.
type Config struct {
	Portal PortalConfig `mapstructure:"portal"`
	Scan   ScanConfig   `mapstructure:"scan"`
	Log    LogConfig    `mapstructure:"log"`
}

// PortalConfig describes the portal under test.
type PortalConfig struct {
	// BaseURL is the portal root, e.g. http://portal.example.com
	BaseURL string `mapstructure:"base_url" validate:"required,url"`

	// APIPath, when set, skips endpoint discovery and uses this relative path
	APIPath string `mapstructure:"api_path"`

	// Timezone is sent in the timezone cookie
	Timezone string `mapstructure:"timezone"`

	// SerialNumber, when set, is transmitted as the sn parameter. Leaving it
	// empty means no sn at all, which is not the same as sn equal to the MAC
	// without separators.
	SerialNumber string `mapstructure:"serial_number"`
}

// ScanConfig tunes the batch scanner.
type ScanConfig struct {
	// PacingInterval is the inter-identity delay; already-consumed retry wait
	// is subtracted from it
	PacingInterval time.Duration `mapstructure:"pacing_interval"`

	// InputFile is the MAC list to scan, one per line
	InputFile string `mapstructure:"input_file"`

	// OutputFile receives authorized MACs, one per line, in input order
	OutputFile string `mapstructure:"output_file"`
}

// LogConfig tunes structured logging.
type LogConfig struct {
	Level      string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	Format     string `mapstructure:"format" validate:"omitempty,oneof=json console"`
	OutputPath string `mapstructure:"output_path"`
}

// Validate checks for essential configuration values.
func (c *Config) Validate() error {
	if err := utils.ValidateStruct(c); err != nil {
		return err
	}
	if c.Portal.Timezone == "" {
		c.Portal.Timezone = constants.DefaultTimezone
	}
	if c.Scan.PacingInterval < 0 {
		c.Scan.PacingInterval = constants.DefaultPacingInterval
	}
	return nil
}
