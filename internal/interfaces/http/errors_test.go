package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wms-fulfillment/internal/application/dto"
	"github.com/jhoicas/wms-fulfillment/internal/domain"
	"github.com/jhoicas/wms-fulfillment/pkg/logger"
)

func errorApp(buf *bytes.Buffer, err error) *fiber.App {
	app := fiber.New()
	app.Use(RequestLogger(logger.NewWithWriter(buf, logger.Config{Env: "production", Level: "info"})))
	app.Get("/", func(c *fiber.Ctx) error { return respondError(c, err) })
	return app
}

func TestRespondError_InternoNoExponeDetalle(t *testing.T) {
	var buf bytes.Buffer
	app := errorApp(&buf, fmt.Errorf("get stock: %w", errors.New("pgx: conn closed (10.0.0.5:5432)")))

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "INTERNAL", body.Code)
	assert.Equal(t, "error interno", body.Message)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, float64(500), entry["status"])
	assert.Equal(t, "get stock: pgx: conn closed (10.0.0.5:5432)", entry["error"])
}

func TestRespondError_DominioConservaMensaje(t *testing.T) {
	var buf bytes.Buffer
	app := errorApp(&buf, fmt.Errorf("reserve 5: %w", domain.ErrInsufficientStock))

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "INSUFFICIENT_STOCK", body.Code)
	assert.Contains(t, body.Message, "reserve 5")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.NotContains(t, entry, "error")
}
