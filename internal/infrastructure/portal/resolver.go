package portal

import (
	"context"
	"net/http"

	gocache "github.com/patrickmn/go-cache"

	"github.com/isupersid/stalker-test-client/pkg/constants"
	"github.com/isupersid/stalker-test-client/pkg/errors"
	"github.com/isupersid/stalker-test-client/pkg/logger"
)

// EndpointResolver discovers which candidate relative path is the live API
// entry point of a portal. Discovery is best-effort: when no candidate
// answers 200 the hard-coded fallback is returned, because the handshake
// re-validates the chosen path anyway. Results are cached per base URL so a
// batch resolves at most once.
type EndpointResolver struct {
	cache *gocache.Cache
	log   logger.Logger
}

// NewEndpointResolver creates a resolver with an in-memory result cache.
func NewEndpointResolver(log logger.Logger) *EndpointResolver {
	if log == nil {
		log = logger.NewNop()
	}
	return &EndpointResolver{
		cache: gocache.New(constants.ResolvedPathCacheTTL, 2*constants.ResolvedPathCacheTTL),
		log:   log.WithComponent("resolver"),
	}
}

// Resolve probes the ordered candidate paths and returns the first that
// answers 200. A transport failure on one candidate advances to the next.
// When every candidate fails at the transport level the portal is considered
// unreachable, which is the only batch-fatal condition; when the portal
// answers but no candidate returns 200, the fallback path is returned.
func (r *EndpointResolver) Resolve(ctx context.Context, client *Client) (string, error) {
	baseURL := client.BaseURL()
	if cached, ok := r.cache.Get(baseURL); ok {
		return cached.(string), nil
	}

	httpc := client.newHTTPClient(constants.ResolveProbeTimeout)
	reachable := false
	for _, path := range constants.CandidatePaths {
		status, err := r.probe(ctx, httpc, client, path)
		if err != nil {
			if ctx.Err() != nil {
				return "", errors.ErrResolution(baseURL, ctx.Err())
			}
			r.log.Debug(ctx, "candidate probe failed", logger.String("path", path), logger.Err(err))
			continue
		}
		reachable = true
		if status == http.StatusOK {
			r.log.Info(ctx, "resolved API endpoint", logger.String("path", path))
			r.cache.SetDefault(baseURL, path)
			return path, nil
		}
		r.log.Debug(ctx, "candidate rejected", logger.String("path", path), logger.Int("status", status))
	}

	if !reachable {
		return "", errors.ErrResolution(baseURL, nil)
	}

	r.log.Warn(ctx, "no candidate answered 200, using fallback",
		logger.String("path", constants.FallbackPath))
	r.cache.SetDefault(baseURL, constants.FallbackPath)
	return constants.FallbackPath, nil
}

// probe issues a single bounded GET against one candidate path.
func (r *EndpointResolver) probe(ctx context.Context, httpc *http.Client, client *Client, path string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, client.buildURL(path, nil), nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", constants.UserAgentMAG200)

	resp, err := httpc.Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}
