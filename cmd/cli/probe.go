package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/isupersid/stalker-test-client/internal/infrastructure/portal"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Sweep the well-known portal paths and show what each answers",
	Long: `probe makes one plain GET per well-known portal path and reports the
status, size, content type, and redirect target of each response without
following redirects or speaking the protocol. Useful when a portal does
not behave and the API entry point is unclear.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runProbe(ctx)
	},
}

func init() {
	rootCmd.AddCommand(probeCmd)
}

func runProbe(ctx context.Context) error {
	client := portal.NewClient(cfg.Portal.BaseURL, log)
	prober := portal.NewRawProber(client, log)

	results, err := prober.Sweep(ctx)
	if err != nil {
		return err
	}

	rows := pterm.TableData{{"Path", "Status", "Size", "Content-Type", "Redirect"}}
	for _, r := range results {
		path := r.Path
		if path == "" {
			path = "/"
		}
		if !r.Reachable() {
			rows = append(rows, []string{path, "unreachable", "", "", ""})
			continue
		}
		rows = append(rows, []string{
			path,
			strconv.Itoa(r.Status),
			fmt.Sprintf("%d", r.Size),
			r.ContentType,
			r.Redirect,
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}
