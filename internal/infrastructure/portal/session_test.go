package portal_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isupersid/stalker-test-client/internal/domain/models"
	"github.com/isupersid/stalker-test-client/internal/infrastructure/portal"
	"github.com/isupersid/stalker-test-client/pkg/errors"
)

const testAPIPath = "server/load.php"

func testIdentity() models.DeviceIdentity {
	return models.NewDeviceIdentity("00:1A:79:00:00:01", "", "Europe/Kiev")
}

func newSession(t *testing.T, handler http.HandlerFunc) (*portal.ProtocolSession, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := portal.NewClient(server.URL, nil)
	return portal.NewProtocolSession(client, testAPIPath, testIdentity(), nil), server
}

func TestProtocolSession_HandshakeObtainsToken(t *testing.T) {
	var seen *http.Request
	session, _ := newSession(t, func(w http.ResponseWriter, r *http.Request) {
		seen = r.Clone(context.Background())
		fmt.Fprint(w, `{"js": {"token": "ABCDEF123456"}}`)
	})

	require.NoError(t, session.Handshake(context.Background()))
	assert.Equal(t, "ABCDEF123456", session.Token())

	require.NotNil(t, seen)
	q := seen.URL.Query()
	assert.Equal(t, "stb", q.Get("type"))
	assert.Equal(t, "handshake", q.Get("action"))
	assert.Equal(t, "1-xml", q.Get("JsHttpRequest"))
	assert.Contains(t, seen.Header.Get("User-Agent"), "MAG200")
	assert.Contains(t, seen.Header.Get("X-User-Agent"), "MAG250")

	cookie, err := seen.Cookie("mac")
	require.NoError(t, err)
	assert.Equal(t, "00%3A1A%3A79%3A00%3A00%3A01", cookie.Value)
	lang, err := seen.Cookie("stb_lang")
	require.NoError(t, err)
	assert.Equal(t, "en", lang.Value)
}

func TestProtocolSession_HandshakeAcceptsRandomSpelling(t *testing.T) {
	session, _ := newSession(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"js": {"random": "FEEDBEEF"}}`)
	})
	require.NoError(t, session.Handshake(context.Background()))
	assert.Equal(t, "FEEDBEEF", session.Token())
}

func TestProtocolSession_HandshakeEmptyArrayIsReject(t *testing.T) {
	session, _ := newSession(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"js": []}`)
	})
	err := session.Handshake(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsProtocolReject(err))
	assert.True(t, session.State().Terminal())
}

func TestProtocolSession_HandshakeTokenlessObjectWithoutHeldTokenIsReject(t *testing.T) {
	session, _ := newSession(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"js": {}}`)
	})
	err := session.Handshake(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsProtocolReject(err))
}

func TestProtocolSession_HandshakeMalformedBody(t *testing.T) {
	session, _ := newSession(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html>It works!</html>`)
	})
	err := session.Handshake(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsMalformedResponse(err))
}

func TestProtocolSession_RehandshakeReusesHeldToken(t *testing.T) {
	handshakes := 0
	var second *http.Request
	session, _ := newSession(t, func(w http.ResponseWriter, r *http.Request) {
		handshakes++
		switch handshakes {
		case 1:
			fmt.Fprint(w, `{"js": {"token": "T1"}}`)
		default:
			// Token-less object: the server accepted the presented token.
			second = r.Clone(context.Background())
			fmt.Fprint(w, `{"js": {}}`)
		}
	})

	require.NoError(t, session.Handshake(context.Background()))
	require.Equal(t, "T1", session.Token())

	require.NoError(t, session.Handshake(context.Background()))
	assert.Equal(t, "T1", session.Token())
	assert.True(t, session.State().CanAuthenticate())

	require.NotNil(t, second)
	assert.Equal(t, "T1", second.URL.Query().Get("prehash"))
}

func TestProtocolSession_RehandshakeCanRotateToken(t *testing.T) {
	handshakes := 0
	session, _ := newSession(t, func(w http.ResponseWriter, r *http.Request) {
		handshakes++
		fmt.Fprintf(w, `{"js": {"token": "T%d"}}`, handshakes)
	})

	require.NoError(t, session.Handshake(context.Background()))
	require.NoError(t, session.Handshake(context.Background()))
	assert.Equal(t, "T2", session.Token())
}

func TestProtocolSession_TerminalSessionRefusesHandshake(t *testing.T) {
	session, _ := newSession(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"js": {"token": "T1"}}`)
	})
	session.Terminalize()
	err := session.Handshake(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindSessionState))
}

func TestProtocolSession_AuthenticateRequiresHandshake(t *testing.T) {
	session, _ := newSession(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"js": {"status": 1}}`)
	})
	_, err := session.Authenticate(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindSessionState))
}

func TestProtocolSession_AuthenticateSendsEmulationParams(t *testing.T) {
	var profileReq *http.Request
	session, _ := newSession(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("action") {
		case "handshake":
			fmt.Fprint(w, `{"js": {"token": "TOK42"}}`)
		case "get_profile":
			profileReq = r.Clone(context.Background())
			fmt.Fprint(w, `{"js": {"status": 1, "login": "user42"}}`)
		default:
			http.Error(w, "unexpected", http.StatusBadRequest)
		}
	})

	require.NoError(t, session.Handshake(context.Background()))
	payload, err := session.Authenticate(context.Background())
	require.NoError(t, err)
	assert.True(t, payload.Status.Is(1))
	assert.Equal(t, "user42", payload.Login)

	require.NotNil(t, profileReq)
	q := profileReq.URL.Query()
	assert.Equal(t, "00:1A:79:00:00:01", q.Get("mac"))
	assert.Equal(t, "TOK42", q.Get("token"))
	assert.Equal(t, "TOK42", q.Get("prehash"))
	assert.Equal(t, "MAG250", q.Get("stb_type"))
	assert.Equal(t, "218", q.Get("image_version"))
	assert.Equal(t, "1.7-BD-00", q.Get("hw_version"))
	assert.JSONEq(t, `{"mac": "00:1A:79:00:00:01"}`, q.Get("metrics"))
	assert.NotEmpty(t, q.Get("timestamp"))

	// No serial number configured means no sn parameter at all.
	_, hasSN := q["sn"]
	assert.False(t, hasSN)
}

func TestProtocolSession_AuthenticateSendsSerialWhenConfigured(t *testing.T) {
	var profileReq *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("action") == "handshake" {
			fmt.Fprint(w, `{"js": {"token": "TOK"}}`)
			return
		}
		profileReq = r.Clone(context.Background())
		fmt.Fprint(w, `{"js": {"status": 1}}`)
	}))
	defer server.Close()

	identity := models.NewDeviceIdentity("00:1A:79:00:00:02", "0123456789AB", "")
	client := portal.NewClient(server.URL, nil)
	session := portal.NewProtocolSession(client, testAPIPath, identity, nil)

	require.NoError(t, session.Handshake(context.Background()))
	_, err := session.Authenticate(context.Background())
	require.NoError(t, err)
	require.NotNil(t, profileReq)
	assert.Equal(t, "0123456789AB", profileReq.URL.Query().Get("sn"))
}

func TestProtocolSession_AuthenticateRateLimitedStaysRetryable(t *testing.T) {
	attempts := 0
	session, _ := newSession(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("action") == "handshake" {
			fmt.Fprint(w, `{"js": {"token": "TOK"}}`)
			return
		}
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{"js": {"status": 2}}`)
	})

	require.NoError(t, session.Handshake(context.Background()))

	_, err := session.Authenticate(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsRateLimited(err))
	assert.False(t, session.State().Terminal())

	// The session survives the rate limit, so a retry can re-enter.
	payload, err := session.Authenticate(context.Background())
	require.NoError(t, err)
	assert.True(t, payload.Status.Is(2))
}

func TestProtocolSession_PeripheralRequiresToken(t *testing.T) {
	session, _ := newSession(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"js": {}}`)
	})
	_, err := session.GetGenres(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindSessionState))
}

func TestProtocolSession_PeripheralFetches(t *testing.T) {
	session, _ := newSession(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case q.Get("action") == "handshake":
			fmt.Fprint(w, `{"js": {"token": "TOK"}}`)
		case q.Get("type") == "itv" && q.Get("action") == "get_genres":
			assert.Equal(t, "TOK", q.Get("token"))
			fmt.Fprint(w, `{"js": [{"id": "1", "title": "News"}]}`)
		default:
			http.Error(w, "unexpected", http.StatusBadRequest)
		}
	})

	require.NoError(t, session.Handshake(context.Background()))
	raw, err := session.GetGenres(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id": "1", "title": "News"}]`, string(raw))
}
