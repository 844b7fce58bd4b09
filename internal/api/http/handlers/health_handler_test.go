package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homebuilt/warranty-service/internal/observability"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler_Ready(t *testing.T) {
	ok := pingerFunc(func(context.Context) error { return nil })
	down := pingerFunc(func(context.Context) error { return errors.New("connection refused") })

	tests := []struct {
		name   string
		deps   map[string]Pinger
		status int
	}{
		{"all up", map[string]Pinger{"postgres": ok, "redis": ok}, http.StatusOK},
		{"redis down", map[string]Pinger{"postgres": ok, "redis": down}, http.StatusServiceUnavailable},
		{"no deps", map[string]Pinger{}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler("warranty-claim-service", "test", tt.deps, observability.NewMetrics())
			app := fiber.New()
			app.Get("/ready", h.Ready)

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ready", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestHealthHandler_Live(t *testing.T) {
	h := NewHealthHandler("warranty-claim-service", "1.2.3", nil, observability.NewMetrics())
	app := fiber.New()
	app.Get("/live", h.Live)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/live", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "alive", body["status"])
	assert.Equal(t, "1.2.3", body["version"])
}
