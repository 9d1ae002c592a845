package cli

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/isupersid/stalker-test-client/internal/application/service"
	"github.com/isupersid/stalker-test-client/internal/domain/models"
	"github.com/isupersid/stalker-test-client/internal/infrastructure/portal"
	"github.com/isupersid/stalker-test-client/pkg/logger"
)

var checkFull bool

var checkCmd = &cobra.Command{
	Use:   "check <mac>",
	Short: "Probe a single device identity against the portal",
	Long: `check runs the full portal conversation for one MAC address: endpoint
discovery, handshake, and the profile request, then reports the identity's
standing. With --full, an authorized identity is additionally queried for
its account profile, genre list, and channel count.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runCheck(ctx, args[0])
	},
}

func init() {
	checkCmd.Flags().BoolVar(&checkFull, "full", false, "query profile, genres, and channels after a successful authorization")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(ctx context.Context, mac string) error {
	identity := models.NewDeviceIdentity(mac, cfg.Portal.SerialNumber, cfg.Portal.Timezone)

	client := portal.NewClient(cfg.Portal.BaseURL, log)
	resolver := portal.NewEndpointResolver(log)
	scanner := service.NewBatchScanner(client, resolver, log,
		service.WithAPIPath(cfg.Portal.APIPath))

	apiPath, err := scanner.ResolveEndpoint(ctx)
	if err != nil {
		return err
	}
	pterm.Info.Printfln("portal %s, API path %s", cfg.Portal.BaseURL, apiPath)

	outcome := scanner.CheckIdentity(ctx, apiPath, identity)
	renderOutcome(outcome)

	if checkFull && outcome.Authorized() {
		fetchExtras(ctx, client, apiPath, identity)
	}
	return nil
}

// fetchExtras queries the peripheral endpoints on a fresh session. Failures
// here are reported but never change the verdict.
func fetchExtras(ctx context.Context, client *portal.Client, apiPath string, identity models.DeviceIdentity) {
	session := portal.NewProtocolSession(client, apiPath, identity, log)
	defer session.Terminalize()

	if err := session.Handshake(ctx); err != nil {
		pterm.Warning.Printfln("extras unavailable: %v", err)
		return
	}
	if _, err := session.Authenticate(ctx); err != nil {
		pterm.Warning.Printfln("extras unavailable: %v", err)
		return
	}

	if raw, err := session.GetProfile(ctx); err == nil {
		pterm.DefaultSection.Println("Account")
		pterm.Println(prettyJSON(raw))
	} else {
		pterm.Warning.Printfln("account info: %v", err)
	}

	if raw, err := session.GetGenres(ctx); err == nil {
		pterm.Info.Printfln("genres: %d", countArray(raw))
	} else {
		pterm.Warning.Printfln("genres: %v", err)
	}

	if raw, err := session.GetAllChannels(ctx); err == nil {
		pterm.Info.Printfln("channels: %d", countChannels(raw))
	} else {
		pterm.Warning.Printfln("channels: %v", err)
	}

	log.Debug(ctx, "extras fetched", logger.String("mac", identity.MAC))
}

func prettyJSON(raw json.RawMessage) string {
	var buf map[string]interface{}
	if err := json.Unmarshal(raw, &buf); err != nil {
		return string(raw)
	}
	out, err := json.MarshalIndent(buf, "", "  ")
	if err != nil {
		return string(raw)
	}
	return string(out)
}

func countArray(raw json.RawMessage) int {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return 0
	}
	return len(items)
}

// countChannels handles both the bare-array and the {"data": [...]} shapes
// the channel listing comes in.
func countChannels(raw json.RawMessage) int {
	if n := countArray(raw); n > 0 {
		return n
	}
	var wrapped struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return 0
	}
	return len(wrapped.Data)
}
