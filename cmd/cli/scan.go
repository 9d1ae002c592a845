package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/isupersid/stalker-test-client/internal/application/service"
	"github.com/isupersid/stalker-test-client/internal/domain/models"
	"github.com/isupersid/stalker-test-client/internal/infrastructure/portal"
	"github.com/isupersid/stalker-test-client/pkg/errors"
)

var (
	scanInput     string
	scanOutput    string
	scanPacing    time.Duration
	scanRangeBase string
	scanRangeFrom int
	scanRangeTo   int
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Probe a list or range of device identities",
	Long: `scan probes many MAC addresses sequentially against one portal. The list
comes from an input file (one MAC per line, # comments allowed) or from a
generated range over the last octet. Authorized MACs can be written to an
output file in input order. Interrupting a scan keeps the outcomes
collected so far.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runScan(ctx)
	},
}

func init() {
	scanCmd.Flags().StringVarP(&scanInput, "input", "i", "", "MAC list file, one address per line")
	scanCmd.Flags().StringVarP(&scanOutput, "output", "o", "", "file receiving authorized MACs")
	scanCmd.Flags().DurationVar(&scanPacing, "pacing", 0, "inter-identity delay (default from config)")
	scanCmd.Flags().StringVar(&scanRangeBase, "range-base", "", "first five MAC octets for range scans, e.g. 00:1A:79:00:00")
	scanCmd.Flags().IntVar(&scanRangeFrom, "range-start", 0, "first value of the last octet")
	scanCmd.Flags().IntVar(&scanRangeTo, "range-end", 255, "last value of the last octet")
	rootCmd.AddCommand(scanCmd)
}

func runScan(ctx context.Context) error {
	macs, err := collectMACs()
	if err != nil {
		return err
	}
	if len(macs) == 0 {
		return errors.New(errors.KindConfig, "nothing to scan: provide --input or --range-base")
	}

	identities := make([]models.DeviceIdentity, 0, len(macs))
	for _, mac := range macs {
		identities = append(identities, models.NewDeviceIdentity(mac, cfg.Portal.SerialNumber, cfg.Portal.Timezone))
	}

	pacing := cfg.Scan.PacingInterval
	if scanPacing > 0 {
		pacing = scanPacing
	}

	client := portal.NewClient(cfg.Portal.BaseURL, log)
	resolver := portal.NewEndpointResolver(log)
	scanner := service.NewBatchScanner(client, resolver, log,
		service.WithAPIPath(cfg.Portal.APIPath),
		service.WithPacing(pacing))

	pterm.Info.Printfln("scanning %d identities against %s", len(identities), cfg.Portal.BaseURL)

	report, scanErr := scanner.Scan(ctx, identities)
	if scanErr != nil && !errors.IsInterrupted(scanErr) {
		return scanErr
	}
	if errors.IsInterrupted(scanErr) {
		pterm.Warning.Printfln("%v", scanErr)
	}

	renderReport(report)

	output := scanOutput
	if output == "" {
		output = cfg.Scan.OutputFile
	}
	if output != "" {
		if err := service.WriteAuthorizedListFile(output, report); err != nil {
			return err
		}
		pterm.Success.Printfln("authorized MACs written to %s", output)
	}
	return nil
}

// collectMACs merges the input file and the generated range, file first.
func collectMACs() ([]string, error) {
	var macs []string

	input := scanInput
	if input == "" {
		input = cfg.Scan.InputFile
	}
	if input != "" {
		fromFile, err := service.ReadMACListFile(input)
		if err != nil {
			return nil, err
		}
		macs = append(macs, fromFile...)
	}

	if scanRangeBase != "" {
		generated, err := models.GenerateMACRange(scanRangeBase, scanRangeFrom, scanRangeTo)
		if err != nil {
			return nil, err
		}
		macs = append(macs, generated...)
	}
	return macs, nil
}
