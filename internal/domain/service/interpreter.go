// Package service holds the decision logic of the prober: response
// classification and the rate-limit retry policy. Nothing here touches the
// network, so both are unit-testable in isolation.
package service

import (
	"strings"

	"github.com/isupersid/stalker-test-client/internal/domain/models"
)

// StatusInterpreter maps a raw get_profile payload to a classified outcome.
// Classify is a pure function of its input.
type StatusInterpreter struct{}

// NewStatusInterpreter creates a StatusInterpreter.
func NewStatusInterpreter() *StatusInterpreter {
	return &StatusInterpreter{}
}

// conflictMarkers are matched case-insensitively against the msg text.
var conflictMarkers = []string{"conflict", "mismatch"}

// Classify applies the decision order:
//  1. a block/conflict message wins over everything, including profile fields
//  2. profile fields present means authorized regardless of the status code
//  3. status 1 is authorized, status 2 pending
//  4. status 0 with no profile fields is inactive
//  5. everything else is unknown, with the raw status and message preserved
func (i *StatusInterpreter) Classify(payload *models.ProfilePayload) models.AuthOutcome {
	outcome := models.AuthOutcome{
		Status:  payload.Status,
		Message: payload.Msg,
		Profile: payload.ProfileInfo(),
	}

	if isConflict(payload) {
		outcome.Classification = models.ClassConflict
		if outcome.Message == "" {
			outcome.Message = payload.BlockMsg
		}
		return outcome
	}

	if payload.HasProfileFields() {
		outcome.Classification = models.ClassAuthorized
		return outcome
	}

	switch {
	case payload.Status.Is(1):
		outcome.Classification = models.ClassAuthorized
	case payload.Status.Is(2):
		outcome.Classification = models.ClassPending
	case payload.Status.Is(0):
		outcome.Classification = models.ClassInactive
	default:
		outcome.Classification = models.ClassUnknown
		outcome.Diagnostic = "unrecognized status " + payload.Status.String()
	}
	return outcome
}

// isConflict detects a device-identity collision with another active session.
func isConflict(payload *models.ProfilePayload) bool {
	if payload.BlockMsg != "" {
		return true
	}
	msg := strings.ToLower(payload.Msg)
	for _, marker := range conflictMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
