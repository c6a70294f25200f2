package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendRequest_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"value":[]}`))
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	transport := NewTransport(cfg)

	req := NewRequest(MethodGet, srv.URL+"/People")
	resp, err := transport.SendRequest(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, resp.IsSuccess())
	assert.Equal(t, `{"value":[]}`, string(resp.Body))
}

func TestSendRequest_RetriesTransientStatus(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.Retries = 5
	cfg.BaseWaitMs = 1
	transport := NewTransport(cfg)

	req := NewRequest(MethodGet, srv.URL+"/People")
	resp, err := transport.SendRequest(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.True(t, resp.IsSuccess())
}

func TestSendRequest_ExhaustsRetriesAndSurfacesHttpError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("down"))
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.Retries = 2
	cfg.BaseWaitMs = 1
	transport := NewTransport(cfg)

	req := NewRequest(MethodGet, srv.URL+"/People")
	_, err := transport.SendRequest(context.Background(), req)
	require.Error(t, err)
	status, body, ok := AsHttpFailure(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "down", body)
}

func TestSendRequest_NonTransientStatusDoesNotRetry(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.Retries = 5
	cfg.BaseWaitMs = 1
	transport := NewTransport(cfg)

	req := NewRequest(MethodGet, srv.URL+"/People")
	_, err := transport.SendRequest(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestBackoffDuration_Growth(t *testing.T) {
	assert.Equal(t, int64(200), backoffDuration(200, 2.0, 1).Milliseconds())
	assert.Equal(t, int64(400), backoffDuration(200, 2.0, 2).Milliseconds())
	assert.Equal(t, int64(800), backoffDuration(200, 2.0, 3).Milliseconds())
}
