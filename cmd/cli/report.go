package cli

import (
	"strconv"
	"time"

	"github.com/pterm/pterm"

	"github.com/isupersid/stalker-test-client/internal/domain/models"
)

// renderOutcome prints one identity's verdict with the detail a single check
// deserves.
func renderOutcome(outcome models.AuthOutcome) {
	switch outcome.Classification {
	case models.ClassAuthorized:
		pterm.Success.Printfln("%s is authorized", outcome.Identity.MAC)
	case models.ClassPending:
		pterm.Warning.Printfln("%s is recognized but not active", outcome.Identity.MAC)
	case models.ClassInactive:
		pterm.Warning.Printfln("%s exists but is switched off", outcome.Identity.MAC)
	case models.ClassConflict:
		pterm.Error.Printfln("%s conflicts with another active session", outcome.Identity.MAC)
	case models.ClassHandshakeFailed:
		pterm.Error.Printfln("%s: handshake rejected", outcome.Identity.MAC)
	case models.ClassRateLimitExhausted:
		pterm.Error.Printfln("%s: rate limited on every attempt", outcome.Identity.MAC)
	default:
		pterm.Error.Printfln("%s: unclassifiable response", outcome.Identity.MAC)
	}

	if outcome.Message != "" {
		pterm.Info.Printfln("portal message: %s", outcome.Message)
	}
	if outcome.Status.Known() {
		pterm.Info.Printfln("raw status: %s", outcome.Status.String())
	}
	if outcome.Profile != nil {
		renderProfile(outcome.Profile)
	}
	if outcome.WasRateLimited {
		pterm.Info.Printfln("rate limited %d time(s), waited %s in backoff",
			outcome.RateLimitHits, outcome.RetryWait)
	}
	if outcome.Diagnostic != "" {
		pterm.Debug.Printfln("diagnostic: %s", outcome.Diagnostic)
	}
}

func renderProfile(profile *models.ProfileInfo) {
	rows := pterm.TableData{}
	if profile.Login != "" {
		rows = append(rows, []string{"Login", profile.Login})
	}
	if profile.Name != "" {
		rows = append(rows, []string{"Name", profile.Name})
	}
	if profile.Phone != "" {
		rows = append(rows, []string{"Phone", profile.Phone})
	}
	if profile.Account != "" {
		rows = append(rows, []string{"Account", profile.Account})
	}
	if profile.Expiry != "" {
		rows = append(rows, []string{"Expires", profile.Expiry})
	}
	if len(rows) > 0 {
		_ = pterm.DefaultTable.WithData(rows).Render()
	}
}

// renderReport prints the per-identity table and the classification summary
// of a batch run.
func renderReport(report *models.BatchReport) {
	rows := pterm.TableData{{"MAC", "Result", "Status", "Message"}}
	for _, o := range report.Outcomes {
		rows = append(rows, []string{
			o.Identity.MAC,
			string(o.Classification),
			o.Status.String(),
			o.Message,
		})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(rows).Render()

	counts := report.Counts()
	summary := pterm.TableData{}
	for _, class := range []models.Classification{
		models.ClassAuthorized,
		models.ClassPending,
		models.ClassInactive,
		models.ClassConflict,
		models.ClassHandshakeFailed,
		models.ClassRateLimitExhausted,
		models.ClassUnknown,
	} {
		if counts[class] > 0 {
			summary = append(summary, []string{string(class), strconv.Itoa(counts[class])})
		}
	}
	pterm.DefaultSection.Println("Summary")
	_ = pterm.DefaultTable.WithData(summary).Render()
	pterm.Info.Printfln("run %s: %d identities in %s",
		report.RunID, report.Len(), report.EndedAt.Sub(report.StartedAt).Round(time.Millisecond))
}
