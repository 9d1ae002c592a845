package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ================================================================================
// Classification
// ================================================================================

// Classification is the terminal verdict for one identity.
type Classification string

const (
	// ClassAuthorized means the portal recognizes and serves this identity
	ClassAuthorized Classification = "authorized"

	// ClassPending means the MAC is recognized but not provisioned or active
	ClassPending Classification = "pending"

	// ClassInactive means the account exists but is switched off
	ClassInactive Classification = "inactive"

	// ClassConflict means another active session holds this device identity
	ClassConflict Classification = "conflict"

	// ClassHandshakeFailed means the portal rejected the handshake outright
	ClassHandshakeFailed Classification = "handshake_failed"

	// ClassRateLimitExhausted means the retry schedule was spent without a
	// usable response
	ClassRateLimitExhausted Classification = "rate_limit_exhausted"

	// ClassUnknown is the diagnostic bucket for everything else
	ClassUnknown Classification = "unknown"
)

// ================================================================================
// StatusCode
// ================================================================================

// StatusCode is the portal's numeric-or-string status field, normalized on
// unmarshal so call sites compare canonical values instead of branching on
// the wire encoding.
type StatusCode struct {
	value   int
	raw     string
	numeric bool
}

// NewStatusCode builds a normalized status code, mainly for tests.
func NewStatusCode(value int) StatusCode {
	return StatusCode{value: value, raw: strconv.Itoa(value), numeric: true}
}

// UnmarshalJSON accepts both 1 and "1" encodings.
func (s *StatusCode) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*s = StatusCode{}
		return nil
	}

	text := string(data)
	if data[0] == '"' {
		var unquoted string
		if err := json.Unmarshal(data, &unquoted); err != nil {
			return err
		}
		text = strings.TrimSpace(unquoted)
	}

	s.raw = text
	if n, err := strconv.Atoi(text); err == nil {
		s.value = n
		s.numeric = true
	}
	return nil
}

// Is reports whether the status equals n. A non-numeric status never matches.
func (s StatusCode) Is(n int) bool {
	return s.numeric && s.value == n
}

// Known reports whether the portal sent any status at all.
func (s StatusCode) Known() bool {
	return s.raw != ""
}

// String returns the raw wire text for diagnostics.
func (s StatusCode) String() string {
	return s.raw
}

// ================================================================================
// AuthOutcome
// ================================================================================

// ProfileInfo carries the optional account fields an authorized response includes.
type ProfileInfo struct {
	Login   string
	Name    string
	Phone   string
	Account string
	Expiry  string
}

// AuthOutcome is the classified result of probing one identity.
type AuthOutcome struct {
	Identity       DeviceIdentity
	Classification Classification

	// Status and Message are the raw portal values kept for diagnostics
	Status  StatusCode
	Message string

	// Profile is set only when the portal returned account fields
	Profile *ProfileInfo

	// Retry metadata, consumed by batch pacing
	WasRateLimited bool
	RateLimitHits  int
	RetryWait      time.Duration

	// Diagnostic describes the failure for non-classifiable outcomes
	Diagnostic string
}

// Authorized reports whether this outcome grants access.
func (o AuthOutcome) Authorized() bool {
	return o.Classification == ClassAuthorized
}

// ================================================================================
// BatchReport
// ================================================================================

// BatchReport aggregates outcomes for a whole scan run in input order.
// It is built incrementally by the scanner and must not be mutated afterwards.
type BatchReport struct {
	RunID     string
	PortalURL string
	StartedAt time.Time
	EndedAt   time.Time

	Outcomes []AuthOutcome
}

// NewBatchReport starts an empty report for the given portal.
func NewBatchReport(portalURL string) *BatchReport {
	return &BatchReport{
		RunID:     uuid.NewString(),
		PortalURL: portalURL,
		StartedAt: time.Now().UTC(),
	}
}

// Append records the next identity's outcome, preserving input order.
func (r *BatchReport) Append(outcome AuthOutcome) {
	r.Outcomes = append(r.Outcomes, outcome)
}

// Finish stamps the end of the run.
func (r *BatchReport) Finish() {
	r.EndedAt = time.Now().UTC()
}

// Counts returns the number of outcomes per classification.
func (r *BatchReport) Counts() map[Classification]int {
	counts := make(map[Classification]int)
	for _, o := range r.Outcomes {
		counts[o.Classification]++
	}
	return counts
}

// AuthorizedMACs returns the canonical MACs of authorized outcomes, in input order.
func (r *BatchReport) AuthorizedMACs() []string {
	macs := make([]string, 0)
	for _, o := range r.Outcomes {
		if o.Authorized() {
			macs = append(macs, o.Identity.MAC)
		}
	}
	return macs
}

// Len returns the number of recorded outcomes.
func (r *BatchReport) Len() int {
	return len(r.Outcomes)
}
