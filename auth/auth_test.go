package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenServer(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		n := calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"access_token":"token%d","token_type":"bearer","expires_in":3600}`, n)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestTokenIsCached(t *testing.T) {
	var calls atomic.Int32
	srv := tokenServer(t, &calls)
	c := NewClientCred(Conf{ClientID: "id", ClientSecret: "secret", TokenURL: srv.URL}, nil)

	req := httptest.NewRequest(http.MethodPost, "http://example.com", nil)
	require.NoError(t, c.SetAuthHeader(req))
	assert.Equal(t, "Bearer token1", req.Header.Get("Authorization"))

	req = httptest.NewRequest(http.MethodPost, "http://example.com", nil)
	require.NoError(t, c.SetAuthHeader(req))
	assert.Equal(t, "Bearer token1", req.Header.Get("Authorization"))
	assert.Equal(t, int32(1), calls.Load())

	c.Invalidate()
	tok, err := c.Token(req.Context())
	require.NoError(t, err)
	assert.Equal(t, "token2", tok.AccessToken)
}

func TestTokenEndpointFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "denied", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClientCred(Conf{ClientID: "id", TokenURL: srv.URL}, nil)
	req := httptest.NewRequest(http.MethodPost, "http://example.com", nil)
	assert.Error(t, c.SetAuthHeader(req))
	assert.Empty(t, req.Header.Get("Authorization"))
}

type countingTransport struct {
	calls atomic.Int32
	next  http.RoundTripper
}

func (c *countingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	c.calls.Add(1)
	return c.next.RoundTrip(r)
}

func TestTokenUsesInjectedClient(t *testing.T) {
	var calls atomic.Int32
	srv := tokenServer(t, &calls)
	tr := &countingTransport{next: http.DefaultTransport}
	c := NewClientCred(Conf{ClientID: "id", TokenURL: srv.URL}, &http.Client{Transport: tr})

	tok, err := c.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token1", tok.AccessToken)
	assert.Equal(t, int32(1), tr.calls.Load())
}

func TestTokenHonoursClientTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	c := NewClientCred(Conf{ClientID: "id", TokenURL: srv.URL}, &http.Client{Timeout: 50 * time.Millisecond})
	start := time.Now()
	_, err := c.Token(context.Background())
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestConfValidate(t *testing.T) {
	assert.NoError(t, Conf{}.Validate())
	assert.Error(t, Conf{ClientID: "id"}.Validate())
	assert.NoError(t, Conf{ClientID: "id", TokenURL: "http://x"}.Validate())
}
