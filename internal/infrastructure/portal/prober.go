package portal

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/isupersid/stalker-test-client/pkg/constants"
	"github.com/isupersid/stalker-test-client/pkg/errors"
	"github.com/isupersid/stalker-test-client/pkg/logger"
)

// ProbeResult captures what one well-known path answered during a raw sweep.
type ProbeResult struct {
	Path        string
	Status      int
	Size        int64
	ContentType string
	Redirect    string
	Err         error
}

// Reachable reports whether the path answered at all.
func (r ProbeResult) Reachable() bool {
	return r.Err == nil
}

// RawProber sweeps the well-known portal paths without any protocol logic.
// It exists for manual portal inspection: which paths answer, with what, and
// where redirects point.
type RawProber struct {
	client *Client
	log    logger.Logger
}

// NewRawProber creates a prober bound to one portal base URL.
func NewRawProber(client *Client, log logger.Logger) *RawProber {
	if log == nil {
		log = logger.NewNop()
	}
	return &RawProber{
		client: client,
		log:    log.WithComponent("prober"),
	}
}

// Sweep probes every well-known path in order and reports what each answered.
// Redirects are reported, not followed. The sweep itself never fails; each
// path's transport error, if any, is carried in its result.
func (p *RawProber) Sweep(ctx context.Context) ([]ProbeResult, error) {
	httpc := p.client.newHTTPClient(constants.ResolveProbeTimeout)
	httpc.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}

	results := make([]ProbeResult, 0, len(constants.ProbePaths))
	for _, path := range constants.ProbePaths {
		select {
		case <-ctx.Done():
			return results, errors.New(errors.KindInterrupted, "probe sweep interrupted").WithCause(ctx.Err())
		default:
		}
		results = append(results, p.probeOne(ctx, httpc, path))
	}
	return results, nil
}

func (p *RawProber) probeOne(ctx context.Context, httpc *http.Client, path string) ProbeResult {
	result := ProbeResult{Path: path}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.client.buildURL(path, nil), nil)
	if err != nil {
		result.Err = errors.ErrTransport("build probe request", err)
		return result
	}
	req.Header.Set("User-Agent", constants.UserAgentMAG200)

	start := time.Now()
	resp, err := httpc.Do(req)
	if err != nil {
		result.Err = errors.ErrTransport("probe "+path, err)
		p.log.Debug(ctx, "probe failed",
			logger.String("path", path),
			logger.Err(err))
		return result
	}
	defer resp.Body.Close()

	n, _ := io.Copy(io.Discard, resp.Body)
	result.Status = resp.StatusCode
	result.Size = n
	result.ContentType = resp.Header.Get("Content-Type")
	result.Redirect = resp.Header.Get("Location")

	p.log.Debug(ctx, "probe answered",
		logger.String("path", path),
		logger.Int("status", resp.StatusCode),
		logger.Int64("size", n),
		logger.Duration("elapsed", time.Since(start)))
	return result
}
