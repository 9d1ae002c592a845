package portal_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isupersid/stalker-test-client/internal/infrastructure/portal"
	"github.com/isupersid/stalker-test-client/pkg/errors"
)

func TestEndpointResolver_FirstAnsweringCandidateWins(t *testing.T) {
	hits := make([]string, 0)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits = append(hits, r.URL.Path)
		if r.URL.Path == "/server/load.php" {
			fmt.Fprint(w, `{"js": {}}`)
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	resolver := portal.NewEndpointResolver(nil)
	client := portal.NewClient(server.URL, nil)

	path, err := resolver.Resolve(context.Background(), client)
	require.NoError(t, err)
	assert.Equal(t, "server/load.php", path)
	// portal.php is probed first and rejected before load.php answers.
	assert.Contains(t, hits, "/portal.php")
}

func TestEndpointResolver_CachesPerBaseURL(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		fmt.Fprint(w, `{"js": {}}`)
	}))
	defer server.Close()

	resolver := portal.NewEndpointResolver(nil)
	client := portal.NewClient(server.URL, nil)

	first, err := resolver.Resolve(context.Background(), client)
	require.NoError(t, err)
	after := requests

	second, err := resolver.Resolve(context.Background(), client)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, after, requests)
}

func TestEndpointResolver_FallsBackWhenNothingAnswers200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	resolver := portal.NewEndpointResolver(nil)
	client := portal.NewClient(server.URL, nil)

	path, err := resolver.Resolve(context.Background(), client)
	require.NoError(t, err)
	assert.Equal(t, "server/load.php", path)
}

func TestEndpointResolver_UnreachablePortalFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing is listening anymore

	resolver := portal.NewEndpointResolver(nil)
	client := portal.NewClient(server.URL, nil)

	_, err := resolver.Resolve(context.Background(), client)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindResolution))
}
