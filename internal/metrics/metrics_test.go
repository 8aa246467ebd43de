package metrics

import (
	"PantryPal/domain"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutcome(t *testing.T) {
	assert.Equal(t, "ok", Outcome(nil))
	assert.Equal(t, "not_found", Outcome(domain.ErrContainerNotFound))
	assert.Equal(t, "invalid", Outcome(domain.ErrParseUUID))
	assert.Equal(t, "conflict", Outcome(domain.ErrVersionConflict))
	assert.Equal(t, "unauthorized", Outcome(domain.ErrTokenExpired))
	assert.Equal(t, "upstream", Outcome(domain.Upstream("x", errors.New("boom"))))
	assert.Equal(t, "error", Outcome(errors.New("boom")))
}

func TestRecordMutation(t *testing.T) {
	before := testutil.ToFloat64(inventoryMutations.WithLabelValues("create_item", "conflict"))
	RecordMutation("create_item", domain.ErrVersionConflict)
	after := testutil.ToFloat64(inventoryMutations.WithLabelValues("create_item", "conflict"))
	assert.Equal(t, before+1, after)
}

func TestMiddlewareAndHandler(t *testing.T) {
	app := fiber.New()
	app.Use(Middleware())
	app.Get("/things/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusTeapot) })
	app.Get("/metrics", adaptor.HTTPHandler(Handler()))

	resp, err := app.Test(httptest.NewRequest("GET", "/things/42", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/metrics", nil), -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `pantrypal_http_requests_total{method="GET",path="/things/:id",status="418"}`)
}
