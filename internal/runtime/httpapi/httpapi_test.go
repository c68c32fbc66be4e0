package httpapi

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bytedance/sonic"

	"github.com/drblury/ticketflow/internal/runtime/config"
	errspkg "github.com/drblury/ticketflow/internal/runtime/errors"
	"github.com/drblury/ticketflow/internal/runtime/jsonrpc"
)

func newTestServer(t *testing.T, mutate func(cfg *config.Config)) *Server {
	t.Helper()

	cfg := config.Default()
	cfg.MetricsEnabled = false
	if mutate != nil {
		mutate(cfg)
	}

	processor := jsonrpc.NewProcessor(nil)
	processor.Register("echo", func(_ context.Context, params jsonrpc.Params) (any, error) {
		value, _ := params.Arg(0, "value")
		return value, nil
	})

	srv, err := NewServer(cfg, processor, nil)
	require.NoError(t, err)
	return srv
}

func TestNewServerValidation(t *testing.T) {
	_, err := NewServer(nil, jsonrpc.NewProcessor(nil), nil)
	assert.ErrorIs(t, err, errspkg.ErrConfigRequired)

	_, err = NewServer(config.Default(), nil, nil)
	assert.ErrorIs(t, err, errspkg.ErrHandlerRequired)
}

func TestHandleRPC(t *testing.T) {
	srv := newTestServer(t, nil)

	body := []byte(`{"jsonrpc":"2.0","method":"echo","params":["hello"],"id":"r1"}`)
	req := httptest.NewRequest(http.MethodPost, "/rpc", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp map[string]any
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "hello", resp["result"])
	assert.Equal(t, "r1", resp["id"])
}

func TestHandleRPCParseError(t *testing.T) {
	srv := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/rpc", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()

	srv.Router().ServeHTTP(rec, req)

	// Malformed JSON-RPC still answers 200 with an error envelope.
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &resp))
	errObj, ok := resp["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(jsonrpc.CodeParseError), errObj["code"])
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name      string
		allowed   []string
		origin    string
		wantAllow string
	}{
		{"wildcard", []string{"*"}, "https://app.example.com", "*"},
		{"exact match", []string{"https://app.example.com"}, "https://app.example.com", "https://app.example.com"},
		{"case insensitive", []string{"https://App.Example.com"}, "https://app.example.com", "https://app.example.com"},
		{"not allowed", []string{"https://other.example.com"}, "https://app.example.com", ""},
		{"disabled", nil, "https://app.example.com", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, func(cfg *config.Config) {
				cfg.HTTPCORSAllowedOrigins = tt.allowed
			})

			req := httptest.NewRequest(http.MethodOptions, "/rpc", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()

			srv.Router().ServeHTTP(rec, req)

			assert.Equal(t, http.StatusNoContent, rec.Code)
			assert.Equal(t, tt.wantAllow, rec.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, func(cfg *config.Config) {
		cfg.MetricsEnabled = true
	})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()

	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
