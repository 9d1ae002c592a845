package portal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/isupersid/stalker-test-client/internal/domain/models"
	"github.com/isupersid/stalker-test-client/pkg/constants"
	"github.com/isupersid/stalker-test-client/pkg/errors"
	"github.com/isupersid/stalker-test-client/pkg/logger"
)

// ProtocolSession owns one identity's conversation with the portal. It is
// single-use: the token obtained by Handshake belongs to this identity alone,
// and once the session is terminal it must be discarded, never rebound.
type ProtocolSession struct {
	client  *Client
	httpc   *http.Client
	apiPath string
	state   *models.SessionState
	log     logger.Logger
}

// NewProtocolSession creates a fresh session for one identity against an
// already-resolved API path.
func NewProtocolSession(client *Client, apiPath string, identity models.DeviceIdentity, log logger.Logger) *ProtocolSession {
	if log == nil {
		log = logger.NewNop()
	}
	return &ProtocolSession{
		client:  client,
		httpc:   client.newHTTPClient(constants.RequestTimeout),
		apiPath: apiPath,
		state:   models.NewSessionState(identity),
		log:     log.WithComponent("session").WithFields(logger.String("mac", identity.MAC)),
	}
}

// State exposes the session state for inspection.
func (s *ProtocolSession) State() *models.SessionState {
	return s.state
}

// Token returns the current session token, empty before a successful handshake.
func (s *ProtocolSession) Token() string {
	return s.state.Token
}

// Terminalize marks the session spent. Further operations fail fast.
func (s *ProtocolSession) Terminalize() {
	s.state.Phase = models.PhaseTerminal
}

// baseParams is the fixed parameter set every portal call carries.
func (s *ProtocolSession) baseParams(action string) url.Values {
	params := url.Values{}
	params.Set("type", constants.ParamType)
	params.Set("action", action)
	params.Set("JsHttpRequest", constants.ParamJsHTTPRequest)
	return params
}

// Handshake requests a session token, presenting the held one as prehash
// when a re-handshake runs on an already-handshaken session. The empty-array
// js rejection becomes a ProtocolReject without raising further; a token-less
// object response while a token is already held counts as success (token
// reuse accepted by the server).
func (s *ProtocolSession) Handshake(ctx context.Context) error {
	if !s.state.CanHandshake() {
		return errors.ErrSessionState("handshake", string(s.state.Phase))
	}
	s.state.Phase = models.PhaseHandshaking

	params := s.baseParams(constants.ActionHandshake)
	params.Set("token", "")
	params.Set("prehash", s.state.Token)

	envelope, err := s.client.getJSON(ctx, s.httpc, s.apiPath, params, s.state.Identity)
	if err != nil {
		s.Terminalize()
		return err
	}

	if envelope.JsIsArray() {
		s.Terminalize()
		return errors.ErrProtocolReject(s.state.Identity.MAC)
	}

	var payload models.HandshakePayload
	if err := json.Unmarshal(envelope.Js, &payload); err != nil {
		s.Terminalize()
		return errors.ErrMalformedResponse("handshake js is not an object", err)
	}

	token := payload.SessionToken()
	switch {
	case token != "":
		s.state.Token = token
	case s.state.Token != "":
		// Server omitted a new token without erroring: reuse accepted.
		s.log.Debug(ctx, "handshake reused held token")
	default:
		s.Terminalize()
		return errors.ErrProtocolReject(s.state.Identity.MAC)
	}

	s.state.Phase = models.PhaseHandshaken
	s.log.Debug(ctx, "handshake complete")
	return nil
}

// Authenticate issues the get_profile request carrying the MAC, the session
// token, and the MAG250 emulation parameter set. The sn parameter is sent
// only when the identity explicitly carries a serial number. Calling this
// without a successful handshake in the same session is a programming error
// and fails fast. On a retryable failure the session stays handshaken so the
// retry policy may re-invoke it; any other failure is terminal.
func (s *ProtocolSession) Authenticate(ctx context.Context) (*models.ProfilePayload, error) {
	if !s.state.CanAuthenticate() {
		return nil, errors.ErrSessionState("authenticate", string(s.state.Phase))
	}
	s.state.Phase = models.PhaseAuthenticating

	metrics, _ := json.Marshal(map[string]string{"mac": s.state.Identity.MAC})

	params := s.baseParams(constants.ActionGetProfile)
	params.Set("hd", "1")
	params.Set("ver", constants.FirmwareVersion)
	params.Set("num_banks", "2")
	params.Set("stb_type", constants.STBType)
	params.Set("image_version", constants.ImageVersion)
	params.Set("auth_second_step", "0")
	params.Set("hw_version", constants.HardwareVersion)
	params.Set("hw_version_2", constants.HardwareVersion2)
	params.Set("not_valid_token", "0")
	params.Set("metrics", string(metrics))
	params.Set("timestamp", strconv.FormatInt(time.Now().Unix(), 10))
	params.Set("api_signature", "FF")
	params.Set("mac", s.state.Identity.MAC)
	params.Set("token", s.state.Token)
	params.Set("prehash", s.state.Token)
	if s.state.Identity.SerialNumber != "" {
		params.Set("sn", s.state.Identity.SerialNumber)
	}

	envelope, err := s.client.getJSON(ctx, s.httpc, s.apiPath, params, s.state.Identity)
	if err != nil {
		if errors.IsRetryable(err) {
			s.state.Phase = models.PhaseHandshaken
		} else {
			s.Terminalize()
		}
		return nil, err
	}

	var payload models.ProfilePayload
	if err := json.Unmarshal(envelope.Js, &payload); err != nil {
		s.Terminalize()
		return nil, errors.ErrMalformedResponse("profile js is not an object", err)
	}

	s.state.Phase = models.PhaseHandshaken
	return &payload, nil
}

// ================================================================================
// Peripheral Conveniences
// ================================================================================

// GetProfile fetches account information. Best-effort: callers treat failures
// as non-critical.
func (s *ProtocolSession) GetProfile(ctx context.Context) (json.RawMessage, error) {
	return s.peripheral(ctx, constants.TypeAccountInfo, constants.ActionGetMainInfo)
}

// GetGenres fetches the genre list.
func (s *ProtocolSession) GetGenres(ctx context.Context) (json.RawMessage, error) {
	return s.peripheral(ctx, constants.TypeITV, constants.ActionGetGenres)
}

// GetAllChannels fetches the full channel list.
func (s *ProtocolSession) GetAllChannels(ctx context.Context) (json.RawMessage, error) {
	return s.peripheral(ctx, constants.TypeITV, constants.ActionGetAllChannels)
}

func (s *ProtocolSession) peripheral(ctx context.Context, reqType, action string) (json.RawMessage, error) {
	if s.state.Token == "" || s.state.Terminal() {
		return nil, errors.ErrSessionState(action, string(s.state.Phase))
	}

	params := url.Values{}
	params.Set("type", reqType)
	params.Set("action", action)
	params.Set("JsHttpRequest", constants.ParamJsHTTPRequest)
	params.Set("token", s.state.Token)

	envelope, err := s.client.getJSON(ctx, s.httpc, s.apiPath, params, s.state.Identity)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", action, err)
	}
	return envelope.Js, nil
}
