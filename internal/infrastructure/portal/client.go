// Package portal implements the HTTP conversation with Stalker-style
// middleware portals: endpoint discovery, the handshake/authenticate session,
// and the raw candidate-path prober.
package portal

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/isupersid/stalker-test-client/internal/domain/models"
	"github.com/isupersid/stalker-test-client/pkg/constants"
	"github.com/isupersid/stalker-test-client/pkg/errors"
	"github.com/isupersid/stalker-test-client/pkg/logger"
)

// Client is the shared HTTP layer for one portal. It owns the transport and
// base URL; per-identity cookie state lives in the sessions created from it.
type Client struct {
	baseURL   string
	transport *http.Transport
	log       logger.Logger
}

// NewClient creates a portal client for the given base URL.
func NewClient(baseURL string, log logger.Logger) *Client {
	if log == nil {
		log = logger.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 2,
			IdleConnTimeout:     30 * time.Second,
		},
		log: log.WithComponent("portal"),
	}
}

// BaseURL returns the portal root this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// newHTTPClient builds an http.Client with a fresh cookie jar, so server-set
// session cookies never leak between identities.
func (c *Client) newHTTPClient(timeout time.Duration) *http.Client {
	jar, _ := cookiejar.New(nil)
	return &http.Client{
		Timeout:   timeout,
		Transport: c.transport,
		Jar:       jar,
	}
}

// buildURL joins the base URL, a relative path, and query parameters.
func (c *Client) buildURL(path string, params url.Values) string {
	full := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(params) == 0 {
		return full
	}
	return full + "?" + params.Encode()
}

// decorate attaches the identifying header and cookie set the middleware keys
// device recognition off. Sent unconditionally on every portal request.
func decorate(req *http.Request, identity models.DeviceIdentity) {
	req.Header.Set("User-Agent", constants.UserAgentMAG200)
	req.Header.Set("X-User-Agent", constants.DeviceModel)
	req.Header.Set("Accept", "*/*")

	timezone := identity.Timezone
	if timezone == "" {
		timezone = constants.DefaultTimezone
	}
	req.AddCookie(&http.Cookie{Name: "mac", Value: url.QueryEscape(identity.MAC)})
	req.AddCookie(&http.Cookie{Name: "stb_lang", Value: constants.CookieLanguage})
	req.AddCookie(&http.Cookie{Name: "timezone", Value: url.QueryEscape(timezone)})
	req.AddCookie(&http.Cookie{Name: "PHPSESSID", Value: constants.CookieSessionInit})
}

// getJSON issues a decorated GET and unwraps the js envelope. Failures are
// kind-tagged: 429 is rate-limited, other transport-level rejections are
// transport, unusable bodies are malformed.
func (c *Client) getJSON(ctx context.Context, httpc *http.Client, path string, params url.Values, identity models.DeviceIdentity) (*models.Envelope, error) {
	reqURL := c.buildURL(path, params)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errors.ErrTransport("request build", err)
	}
	decorate(req, identity)

	start := time.Now()
	resp, err := httpc.Do(req)
	if err != nil {
		return nil, errors.ErrTransport("request", err)
	}
	defer resp.Body.Close()

	c.log.Debug(ctx, "portal request",
		logger.String("path", path),
		logger.String("action", params.Get("action")),
		logger.Int("status", resp.StatusCode),
		logger.Duration("elapsed", time.Since(start)))

	if resp.StatusCode == http.StatusTooManyRequests {
		// Retry-After may be present but is diagnostic only; the fixed
		// backoff schedule governs regardless.
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			c.log.Debug(ctx, "portal sent Retry-After", logger.String("retry_after", ra))
		}
		return nil, errors.ErrRateLimited(resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf(errors.KindTransport, "request rejected with HTTP %d", resp.StatusCode).
			WithMetadata("http_status", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.ErrTransport("response read", err)
	}

	var envelope models.Envelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, errors.ErrMalformedResponse("not JSON", err)
	}
	if !envelope.HasJs() {
		return nil, errors.ErrMalformedResponse("missing js field", nil)
	}
	return &envelope, nil
}
