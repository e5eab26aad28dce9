package bootstrap

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPVerifierSuccess(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/telegram-login", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"token":   "signed-token",
		})
	}))
	defer srv.Close()

	v := NewHTTPVerifier(srv.URL, srv.Client())
	tok, err := v.Verify(context.Background(), "auth_date=1&hash=abc")
	require.NoError(t, err)
	assert.Equal(t, "signed-token", tok)
	assert.JSONEq(t, `{"initData":"auth_date=1&hash=abc"}`, gotBody)
}

func TestHTTPVerifierRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"error":   "Invalid Telegram data",
		})
	}))
	defer srv.Close()

	v := NewHTTPVerifier(srv.URL, srv.Client())
	_, err := v.Verify(context.Background(), "auth_date=1&hash=abc")
	assert.ErrorIs(t, err, ErrVerificationRejected)
	assert.Contains(t, err.Error(), "Invalid Telegram data")
}

func TestHTTPVerifierSuccessFlagWithoutToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))
	defer srv.Close()

	v := NewHTTPVerifier(srv.URL, srv.Client())
	_, err := v.Verify(context.Background(), "auth_date=1&hash=abc")
	assert.ErrorIs(t, err, ErrVerificationRejected)
}

func TestHTTPVerifierNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	v := NewHTTPVerifier(srv.URL, nil)
	_, err := v.Verify(context.Background(), "auth_date=1&hash=abc")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrVerificationRejected)
}

func TestHTTPVerifierCancelledContext(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	v := NewHTTPVerifier(srv.URL, srv.Client())
	_, err := v.Verify(ctx, "auth_date=1&hash=abc")
	assert.Error(t, err)
}
