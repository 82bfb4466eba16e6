package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapEncodesHandlerResultAsJSON(t *testing.T) {
	s := New(Config{}, map[string]Handler{
		"/memory/status": func(ctx context.Context, body []byte) (any, error) {
			return map[string]string{"status": "ok"}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/memory/status", nil)
	rec := httptest.NewRecorder()
	s.wrap(func(ctx context.Context, body []byte) (any, error) {
		return map[string]string{"status": "ok"}, nil
	})(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var decoded map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	assert.Equal(t, "ok", decoded["status"])
}

func TestWrapReturnsErrorEnvelopeOnHandlerFailure(t *testing.T) {
	s := New(Config{}, nil)
	handler := s.wrap(func(ctx context.Context, body []byte) (any, error) {
		return nil, assertErr{}
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var decoded errorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	assert.False(t, decoded.OK)
	assert.Equal(t, "boom", decoded.Error)
}

type assertErr struct{}

func (assertErr) Error() string { return "boom" }

func TestTouchUpdatesLastSeen(t *testing.T) {
	s := New(Config{}, nil)
	before := s.idleFor()
	time.Sleep(time.Millisecond)
	s.touch()
	after := s.idleFor()
	assert.Less(t, after, before+time.Second)
}

func TestRunShutsDownOnContextCancel(t *testing.T) {
	s := New(Config{Addr: "127.0.0.1:0", IdleTimeout: time.Minute}, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	addr := s.Addr()
	assert.NotEmpty(t, addr)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not shut down after context cancellation")
	}
}

func TestMetricsEndpointRegistered(t *testing.T) {
	s := New(Config{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
