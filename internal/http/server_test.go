package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezkam/quadrant/internal/config"
)

func TestWithFallbacks(t *testing.T) {
	t.Run("fills zero values", func(t *testing.T) {
		cfg := withFallbacks(config.HTTPConfig{})

		assert.Equal(t, "8081", cfg.Port)
		assert.Equal(t, 15*time.Second, cfg.ReadTimeout)
		assert.Equal(t, 5*time.Second, cfg.ReadHeaderTimeout)
		assert.Equal(t, 1<<20, cfg.MaxHeaderBytes)
		assert.Equal(t, int64(1<<20), cfg.MaxBodyBytes)
	})

	t.Run("keeps configured values", func(t *testing.T) {
		cfg := withFallbacks(config.HTTPConfig{Port: "9000", MaxBodyBytes: 4096})

		assert.Equal(t, "9000", cfg.Port)
		assert.Equal(t, int64(4096), cfg.MaxBodyBytes)
		assert.Equal(t, 60*time.Second, cfg.IdleTimeout)
	})
}

func TestRouter(t *testing.T) {
	api := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(r.URL.Path))
	})
	s := NewAPIServer(api, config.HTTPConfig{MaxBodyBytes: 8})

	t.Run("health", func(t *testing.T) {
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	})

	t.Run("api is mounted under /api", func(t *testing.T) {
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "/api/v1/tasks", w.Body.String())

		w = httptest.NewRecorder()
		s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/tasks", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("body limit", func(t *testing.T) {
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/tasks", strings.NewReader(`{"title":"too long"}`)))

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}

func TestRouter_RecoversPanics(t *testing.T) {
	api := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("handler exploded")
	})
	s := NewAPIServer(api, config.HTTPConfig{})

	w := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/boom", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestStartAndShutdown(t *testing.T) {
	s := NewAPIServer(http.NotFoundHandler(), config.HTTPConfig{Host: "127.0.0.1", Port: "0"})

	done := make(chan error, 1)
	go func() { done <- s.Start() }()

	// give ListenAndServe a moment to bind
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}
