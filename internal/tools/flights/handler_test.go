// internal/tools/flights/handler_test.go
package flights

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travel-orchestrator/internal/tools"
)

func testHandler(baseURL string, retries int) *Handler {
	return NewHandler(HandlerOptions{
		CustomConfig: &Config{
			Enabled:    true,
			BaseURL:    baseURL,
			APIKey:     "test-key",
			Timeout:    2 * time.Second,
			MaxRetries: retries,
		},
	})
}

func flightArgs() map[string]interface{} {
	return map[string]interface{}{
		"origin":      "Mumbai",
		"destination": "Delhi",
		"date":        "2025-07-15",
		"passengers":  2,
	}
}

func TestInvoke_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/flights/search", r.URL.Path)
		assert.Equal(t, "Mumbai", r.URL.Query().Get("origin"))
		assert.Equal(t, "Delhi", r.URL.Query().Get("destination"))
		assert.Equal(t, "2025-07-15", r.URL.Query().Get("date"))
		assert.Equal(t, "2", r.URL.Query().Get("passengers"))
		assert.Equal(t, "test-key", r.Header.Get("X-API-Key"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"flights":[{"airline":"Air India","price":450}]}`))
	}))
	defer server.Close()

	raw, status := testHandler(server.URL, 0).Invoke(context.Background(), flightArgs())

	assert.Equal(t, tools.StatusOK, status)
	assert.Contains(t, raw, "Air India")
}

func TestInvoke_RetriesThenSucceeds(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"flights":[]}`))
	}))
	defer server.Close()

	raw, status := testHandler(server.URL, 2).Invoke(context.Background(), flightArgs())

	assert.Equal(t, tools.StatusOK, status)
	assert.Equal(t, 3, attempts)
	assert.NotEmpty(t, raw)
}

func TestInvoke_ProviderErrorAfterRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	raw, status := testHandler(server.URL, 1).Invoke(context.Background(), flightArgs())

	assert.Equal(t, tools.StatusProviderError, status)
	assert.Empty(t, raw)
}

func TestInvoke_BadRequestNoRetry(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	_, status := testHandler(server.URL, 3).Invoke(context.Background(), flightArgs())

	assert.Equal(t, tools.StatusProviderError, status)
	assert.Equal(t, 1, attempts)
}

func TestInvoke_Unconfigured(t *testing.T) {
	h := NewHandler(HandlerOptions{CustomConfig: &Config{Enabled: false}})

	raw, status := h.Invoke(context.Background(), flightArgs())

	assert.Equal(t, tools.StatusUnavailable, status)
	assert.Empty(t, raw)
}

func TestInvoke_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	h := NewHandler(HandlerOptions{
		CustomConfig: &Config{
			Enabled: true,
			BaseURL: server.URL,
			Timeout: 50 * time.Millisecond,
		},
	})

	_, status := h.Invoke(context.Background(), flightArgs())
	assert.Equal(t, tools.StatusTimeout, status)
}

func TestInvoke_ServerDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	require.NotEmpty(t, url)
	_, status := testHandler(url, 1).Invoke(context.Background(), flightArgs())

	assert.Equal(t, tools.StatusUnavailable, status)
}
