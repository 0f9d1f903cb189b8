package chat

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokmz/qibot/pkg/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient("xoxb-test", logger.Nop(), WithBaseURL(server.URL))
	require.NoError(t, err)
	return client, server
}

func TestNewClientMissingToken(t *testing.T) {
	_, err := NewClient("", logger.Nop())
	assert.ErrorIs(t, err, ErrMissingToken)

	_, err = NewClient("   ", logger.Nop())
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestPostMessage(t *testing.T) {
	var gotReq *http.Request
	var gotChannel, gotText string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotReq = r
		gotChannel = r.PostForm.Get("channel")
		gotText = r.PostForm.Get("text")
		w.Write([]byte(`{"ok": true, "channel": "C123", "ts": "1700000000.000100"}`))
	})

	resp, err := client.PostMessage(context.Background(), "C123", "hello")
	require.NoError(t, err)

	assert.Equal(t, "/chat.postMessage", gotReq.URL.Path)
	assert.Equal(t, http.MethodPost, gotReq.Method)
	assert.Equal(t, "Bearer xoxb-test", gotReq.Header.Get("Authorization"))
	assert.Equal(t, "application/x-www-form-urlencoded", gotReq.Header.Get("Content-Type"))
	assert.Equal(t, "C123", gotChannel)
	assert.Equal(t, "hello", gotText)
	assert.Equal(t, "C123", resp.Channel)
	assert.Equal(t, "1700000000.000100", resp.TS)
}

func TestPostMessageAPIError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok": false, "error": "channel_not_found"}`))
	})

	_, err := client.PostMessage(context.Background(), "C404", "hello")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "channel_not_found", apiErr.Code)
	assert.ErrorIs(t, err, &APIError{Code: "channel_not_found"})
}

func TestPostMessageMalformedResponse(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	})

	_, err := client.PostMessage(context.Background(), "C123", "hello")
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestAuthTest(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth.test", r.URL.Path)
		w.Write([]byte(`{"ok": true, "team": "T1", "user": "bot", "user_id": "U1", "bot_id": "B1"}`))
	})

	resp, err := client.AuthTest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "T1", resp.Team)
	assert.Equal(t, "U1", resp.UserID)
	assert.Equal(t, "B1", resp.BotID)
}

func TestAuthTestInvalidAuth(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok": false, "error": "invalid_auth"}`))
	})

	_, err := client.AuthTest(context.Background())
	assert.ErrorIs(t, err, &APIError{Code: "invalid_auth"})
}
