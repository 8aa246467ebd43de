package presenters

import (
	"PantryPal/domain"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	type named struct {
		Name string `validate:"required"`
	}
	verr := validator.New().Struct(named{})

	cases := []struct {
		err      error
		fallback int
		want     int
	}{
		{domain.ErrTokenExpired, fiber.StatusInternalServerError, fiber.StatusUnauthorized},
		{domain.ErrContainerNotFound, fiber.StatusInternalServerError, fiber.StatusNotFound},
		{domain.ErrParseUUID, fiber.StatusInternalServerError, fiber.StatusBadRequest},
		{verr, fiber.StatusInternalServerError, fiber.StatusBadRequest},
		{domain.ErrVersionConflict, fiber.StatusInternalServerError, fiber.StatusConflict},
		{domain.Upstream("store", errors.New("dial tcp")), fiber.StatusBadRequest, fiber.StatusBadGateway},
		{fiber.ErrUnprocessableEntity, fiber.StatusBadRequest, fiber.StatusUnprocessableEntity},
		{errors.New("boom"), fiber.StatusInternalServerError, fiber.StatusInternalServerError},
		{errors.New("unexpected end of JSON input"), fiber.StatusBadRequest, fiber.StatusBadRequest},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusFor(tc.err, tc.fallback), tc.err.Error())
	}
}

func call(t *testing.T, h fiber.Handler) (int, Response) {
	t.Helper()
	app := fiber.New()
	app.Get("/", h)

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out Response
	require.NoError(t, json.Unmarshal(body, &out))
	return resp.StatusCode, out
}

func TestErrorResponseHidesUpstreamDetail(t *testing.T) {
	status, out := call(t, func(c *fiber.Ctx) error {
		return ErrorResponse(c, fiber.StatusInternalServerError, "failed", domain.Upstream("mongo find", errors.New("password=hunter2")))
	})
	assert.Equal(t, fiber.StatusBadGateway, status)
	assert.False(t, out.Status)
	assert.Equal(t, "failed", out.Message)
	assert.Equal(t, domain.MessageUpstreamError, out.Error)
}

func TestErrorResponseKeepsClientDetail(t *testing.T) {
	status, out := call(t, func(c *fiber.Ctx) error {
		return ErrorResponse(c, fiber.StatusInternalServerError, "failed", domain.ErrItemNotFound)
	})
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "item not found", out.Error)
}

func TestSuccessResponse(t *testing.T) {
	status, out := call(t, func(c *fiber.Ctx) error {
		return SuccessResponse(c, fiber.Map{"id": "x"}, fiber.StatusCreated, "created")
	})
	assert.Equal(t, fiber.StatusCreated, status)
	assert.True(t, out.Status)
	assert.Equal(t, map[string]any{"id": "x"}, out.Data)
	assert.Nil(t, out.Error)
}
