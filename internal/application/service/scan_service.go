// Package service orchestrates portal probing: single-identity checks and
// paced batch scans built from the domain and infrastructure layers.
package service

import (
	"context"
	"time"

	domainservice "github.com/isupersid/stalker-test-client/internal/domain/service"

	"github.com/isupersid/stalker-test-client/internal/domain/models"
	"github.com/isupersid/stalker-test-client/internal/infrastructure/portal"
	"github.com/isupersid/stalker-test-client/pkg/constants"
	"github.com/isupersid/stalker-test-client/pkg/errors"
	"github.com/isupersid/stalker-test-client/pkg/logger"
)

// BatchScanner probes a list of identities sequentially against one portal.
// Every identity gets a fresh session so tokens and cookies never leak
// between MACs, and the pacing interval keeps the portal's rate limiter out
// of the way.
type BatchScanner struct {
	client      *portal.Client
	resolver    *portal.EndpointResolver
	interpreter *domainservice.StatusInterpreter
	retry       *domainservice.RetryPolicy
	apiPath     string
	pacing      time.Duration
	sleep       domainservice.SleepFunc
	log         logger.Logger
}

// BatchScannerOption customizes a BatchScanner.
type BatchScannerOption func(*BatchScanner)

// WithPacing overrides the inter-identity pacing interval. Zero disables
// pacing entirely.
func WithPacing(interval time.Duration) BatchScannerOption {
	return func(s *BatchScanner) {
		if interval >= 0 {
			s.pacing = interval
		}
	}
}

// WithAPIPath pins the API entry point, skipping endpoint discovery.
func WithAPIPath(path string) BatchScannerOption {
	return func(s *BatchScanner) {
		s.apiPath = path
	}
}

// WithRetryPolicy overrides the authenticate retry policy.
func WithRetryPolicy(policy *domainservice.RetryPolicy) BatchScannerOption {
	return func(s *BatchScanner) {
		if policy != nil {
			s.retry = policy
		}
	}
}

// WithSleep overrides the pacing sleeper. Tests use this to run without
// real waits.
func WithSleep(sleep domainservice.SleepFunc) BatchScannerOption {
	return func(s *BatchScanner) {
		if sleep != nil {
			s.sleep = sleep
		}
	}
}

// NewBatchScanner wires a scanner for one portal.
func NewBatchScanner(client *portal.Client, resolver *portal.EndpointResolver, log logger.Logger, opts ...BatchScannerOption) *BatchScanner {
	if log == nil {
		log = logger.NewNop()
	}
	s := &BatchScanner{
		client:      client,
		resolver:    resolver,
		interpreter: domainservice.NewStatusInterpreter(),
		retry:       domainservice.NewRetryPolicy(),
		pacing:      constants.DefaultPacingInterval,
		sleep:       domainservice.SleepContext,
		log:         log.WithComponent("scanner"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan resolves the portal endpoint once, then probes every identity in
// order. Endpoint resolution failure aborts the whole batch. Cancellation
// between identities returns the partial report alongside an interruption
// error; outcomes recorded so far are kept.
func (s *BatchScanner) Scan(ctx context.Context, identities []models.DeviceIdentity) (*models.BatchReport, error) {
	report := models.NewBatchReport(s.client.BaseURL())
	defer report.Finish()

	apiPath, err := s.ResolveEndpoint(ctx)
	if err != nil {
		return report, err
	}

	s.log.Info(ctx, "batch scan started",
		logger.String("run_id", report.RunID),
		logger.String("api_path", apiPath),
		logger.Int("identities", len(identities)))

	for i, identity := range identities {
		select {
		case <-ctx.Done():
			return report, errors.ErrScanInterrupted(report.Len(), len(identities))
		default:
		}

		outcome := s.CheckIdentity(ctx, apiPath, identity)
		report.Append(outcome)

		s.log.Info(ctx, "identity probed",
			logger.String("mac", identity.MAC),
			logger.String("classification", string(outcome.Classification)),
			logger.Bool("rate_limited", outcome.WasRateLimited))

		if i == len(identities)-1 {
			break
		}
		// Backoff already spent on this identity counts against its pacing
		// window, clamped at zero.
		wait := s.pacing - outcome.RetryWait
		if wait > 0 {
			if err := s.sleep(ctx, wait); err != nil {
				return report, errors.ErrScanInterrupted(report.Len(), len(identities))
			}
		}
	}

	s.log.Info(ctx, "batch scan finished",
		logger.String("run_id", report.RunID),
		logger.Int("probed", report.Len()))
	return report, nil
}

// ResolveEndpoint returns the API path to use: the pinned one when
// configured, the discovered one otherwise.
func (s *BatchScanner) ResolveEndpoint(ctx context.Context) (string, error) {
	if s.apiPath != "" {
		return s.apiPath, nil
	}
	return s.resolver.Resolve(ctx, s.client)
}

// CheckIdentity runs the full protocol conversation for one identity on a
// fresh session and classifies whatever happens. It never returns an error:
// every failure mode maps to a Classification.
func (s *BatchScanner) CheckIdentity(ctx context.Context, apiPath string, identity models.DeviceIdentity) models.AuthOutcome {
	outcome := models.AuthOutcome{Identity: identity}

	session := portal.NewProtocolSession(s.client, apiPath, identity, s.log)
	defer session.Terminalize()

	if err := session.Handshake(ctx); err != nil {
		return s.classifyHandshakeFailure(outcome, err)
	}

	var payload *models.ProfilePayload
	result, err := s.retry.Do(ctx, func(ctx context.Context) error {
		var opErr error
		payload, opErr = session.Authenticate(ctx)
		return opErr
	})

	outcome.WasRateLimited = result.WasRateLimited()
	outcome.RateLimitHits = result.RateLimitHits
	outcome.RetryWait = result.TotalWait

	if err != nil {
		return s.classifyAuthenticateFailure(outcome, err)
	}

	classified := s.interpreter.Classify(payload)
	classified.Identity = identity
	classified.WasRateLimited = outcome.WasRateLimited
	classified.RateLimitHits = outcome.RateLimitHits
	classified.RetryWait = outcome.RetryWait
	return classified
}

// classifyHandshakeFailure maps a failed handshake to its outcome. Rejection
// and unreachability look the same to a scan: the portal will not talk to
// this identity.
func (s *BatchScanner) classifyHandshakeFailure(outcome models.AuthOutcome, err error) models.AuthOutcome {
	switch {
	case errors.IsMalformedResponse(err):
		outcome.Classification = models.ClassUnknown
	default:
		outcome.Classification = models.ClassHandshakeFailed
	}
	outcome.Diagnostic = err.Error()
	return outcome
}

// classifyAuthenticateFailure maps a failed authenticate to its outcome. A
// retryable error can only escape the retry policy by exhausting the whole
// schedule, and a rejection before a usable payload is indistinguishable from
// rate limiting, so it classifies RateLimitExhausted rather than Unknown.
func (s *BatchScanner) classifyAuthenticateFailure(outcome models.AuthOutcome, err error) models.AuthOutcome {
	if errors.IsRetryable(err) {
		outcome.Classification = models.ClassRateLimitExhausted
	} else {
		outcome.Classification = models.ClassUnknown
	}
	outcome.Diagnostic = err.Error()
	return outcome
}
