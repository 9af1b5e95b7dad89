package server

import (
	"net/http"
	"testing"

	"transport/pkg/config"
	"transport/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func init() {
	logger.Init("error")
}

func TestNewServer(t *testing.T) {
	cfg := &config.Config{
		App: config.AppConfig{Name: "test-app"},
		HTTP: config.HTTPConfig{
			Port: 8080,
		},
	}

	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := New(cfg, handler)
	assert.NotNil(t, srv)
	assert.Equal(t, ":8080", srv.server.Addr)
	assert.Equal(t, "test-app", srv.serviceName)
}

func TestAddCloser(t *testing.T) {
	cfg := &config.Config{
		App:  config.AppConfig{Name: "test-app"},
		HTTP: config.HTTPConfig{Port: 8081},
	}

	srv := New(cfg, http.NotFoundHandler())
	assert.Empty(t, srv.closers)

	srv.AddCloser(func() error { return nil })
	srv.AddCloser(func() error { return nil })
	assert.Len(t, srv.closers, 2)
}
