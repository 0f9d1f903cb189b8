package socketmode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokmz/qibot/pkg/logger"
)

func newTestResolver(t *testing.T, token, endpoint string) *Resolver {
	t.Helper()
	config := DefaultConfig()
	config.EndpointURL = endpoint

	r, err := NewResolver(token, config, logger.Nop())
	require.NoError(t, err)
	return r
}

func TestNewResolverMissingToken(t *testing.T) {
	config := DefaultConfig()

	_, err := NewResolver("", config, logger.Nop())
	assert.ErrorIs(t, err, ErrMissingToken)

	_, err = NewResolver("   ", config, logger.Nop())
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestResolveSuccess(t *testing.T) {
	var gotMethod, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"ok": true, "url": "wss://x/y"}`))
	}))
	defer server.Close()

	r := newTestResolver(t, "xapp-test", server.URL)

	url, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "wss://x/y", url)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "Bearer xapp-test", gotAuth)
}

func TestResolveAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok": false, "error": "invalid_auth"}`))
	}))
	defer server.Close()

	r := newTestResolver(t, "xapp-bad", server.URL)

	_, err := r.Resolve(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "invalid_auth", apiErr.Code)
	assert.ErrorIs(t, err, &APIError{Code: "invalid_auth"})
}

func TestResolveMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json at all`))
	}))
	defer server.Close()

	r := newTestResolver(t, "xapp-test", server.URL)

	_, err := r.Resolve(context.Background())
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestResolveOKWithoutURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	r := newTestResolver(t, "xapp-test", server.URL)

	_, err := r.Resolve(context.Background())
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestResolveNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // 立即关闭，触发网络错误

	r := newTestResolver(t, "xapp-test", server.URL)

	_, err := r.Resolve(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}
