// Package cli implements the stalker-probe command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/isupersid/stalker-test-client/internal/config"
	"github.com/isupersid/stalker-test-client/pkg/logger"
)

var (
	cfgFile string
	cfg     *config.Config
	log     logger.Logger

	flagPortal   string
	flagLogLevel string
	flagTimezone string
	flagSerial   string
)

// rootCmd is the base command when the stalker-probe binary is called
// without subcommands.
var rootCmd = &cobra.Command{
	Use:   "stalker-probe",
	Short: "Authorization prober for Stalker/Ministra IPTV portals",
	Long: `stalker-probe checks which device identities a Stalker middleware portal
recognizes. It emulates a MAG set-top-box, performs the handshake and
profile conversation, and classifies each identity's standing, one at a
time or across a whole MAC list.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return bootstrap()
	},
}

// Execute is the entry point for the CLI application. It parses arguments,
// runs the selected command, and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&flagPortal, "portal", "p", "", "portal base URL, e.g. http://portal.example.com")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flagTimezone, "timezone", "", "timezone cookie value sent to the portal")
	rootCmd.PersistentFlags().StringVar(&flagSerial, "serial", "", "device serial number, omitted from requests when empty")
}

// bootstrap loads configuration, applies flag overrides, and installs the
// global logger. Every subcommand runs after this.
func bootstrap() error {
	loaded, err := config.LoadConfig(cfgFile)
	if err != nil {
		return err
	}

	if flagPortal != "" {
		loaded.Portal.BaseURL = flagPortal
	}
	if flagLogLevel != "" {
		loaded.Log.Level = flagLogLevel
	}
	if flagTimezone != "" {
		loaded.Portal.Timezone = flagTimezone
	}
	if flagSerial != "" {
		loaded.Portal.SerialNumber = flagSerial
	}

	if err := loaded.Validate(); err != nil {
		return err
	}

	l, err := logger.NewZapLogger(logger.Options{
		Level:      loaded.Log.Level,
		Format:     loaded.Log.Format,
		OutputPath: loaded.Log.OutputPath,
	})
	if err != nil {
		return err
	}
	logger.SetGlobalLogger(l)

	cfg = loaded
	log = l
	return nil
}
