package routes

import (
	"PantryPal/domain"
	"PantryPal/internal/api/handlers"
	"PantryPal/internal/middleware"
	"PantryPal/internal/utils"
	"PantryPal/internal/utils/gemini"
	"PantryPal/pkg/barcode"
	"PantryPal/pkg/inventory"
	"PantryPal/pkg/jwt"
	"PantryPal/pkg/notification"
	"PantryPal/pkg/receipt"
	"PantryPal/pkg/recipe"
	"PantryPal/pkg/user"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cookieName = "pantrypal_session"

type staticVerifier struct{}

func (staticVerifier) Verify(ctx context.Context, accessToken string) (domain.Identity, error) {
	if accessToken != "good-google-token" {
		return domain.Identity{}, domain.ErrIdentityRejected
	}
	return domain.Identity{Email: "a@example.com", Name: "Ann"}, nil
}

type silentLLM struct{}

func (silentLLM) GenerateContent(ctx context.Context, prompt string, image *gemini.InlineImage) (string, error) {
	return "", gemini.ErrNotConfigured
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Error   any             `json:"error"`
	Data    json.RawMessage `json:"data"`
}

type api struct {
	t     *testing.T
	app   *fiber.App
	token string
}

func newAPI(t *testing.T) *api {
	t.Helper()
	utils.InitValidator()

	repo := user.NewMemoryUserRepository()
	jwtService := jwt.NewJWTService("route-test-secret", time.Hour)
	inventoryService := inventory.NewInventoryService(repo, nil)
	llm := silentLLM{}

	app := fiber.New()
	cfg := Config{
		App: app,
		UserHandler: handlers.NewUserHandler(
			user.NewUserService(repo, staticVerifier{}, jwtService),
			utils.Validate,
			handlers.SessionConfig{CookieName: cookieName, TTL: time.Hour},
		),
		InventoryHandler:    handlers.NewInventoryHandler(inventoryService, utils.Validate),
		RecipeHandler:       handlers.NewRecipeHandler(recipe.NewRecipeService(inventoryService, llm), utils.Validate),
		ReceiptHandler:      handlers.NewReceiptHandler(receipt.NewReceiptService(llm), utils.Validate),
		BarcodeHandler:      handlers.NewBarcodeHandler(barcode.NewBarcodeService("http://127.0.0.1:1", nil)),
		NotificationHandler: handlers.NewNotificationHandler(notification.NewPushService("http://127.0.0.1:1"), utils.Validate),
		Middleware:          middleware.NewMiddleware(repo, cookieName, ""),
		JWTService:          jwtService,
	}
	cfg.Setup()
	return &api{t: t, app: app}
}

func (a *api) call(method, path string, body any) (int, envelope, *http.Response) {
	a.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)

	var out envelope
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(a.t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out, resp
}

func (a *api) signIn() {
	a.t.Helper()
	status, out, resp := a.call(http.MethodPost, "/api/v1/auth/google", map[string]string{"access_token": "good-google-token"})
	require.Equal(a.t, fiber.StatusOK, status, out.Error)

	var res domain.SignInResponse
	require.NoError(a.t, json.Unmarshal(out.Data, &res))
	a.token = res.Token

	var session *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == cookieName {
			session = c
		}
	}
	require.NotNil(a.t, session)
	assert.Equal(a.t, res.Token, session.Value)
	assert.True(a.t, session.HttpOnly)
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

func TestPing(t *testing.T) {
	a := newAPI(t)
	status, _, _ := a.call(http.MethodGet, "/api/ping", nil)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestGuardedRoutesRequireSession(t *testing.T) {
	a := newAPI(t)
	for _, path := range []string{"/api/v1/users/me", "/api/v1/locations", "/api/v1/items"} {
		status, out, _ := a.call(http.MethodGet, path, nil)
		assert.Equal(t, fiber.StatusUnauthorized, status, path)
		assert.False(t, out.Status)
	}
}

func TestRejectedGoogleToken(t *testing.T) {
	a := newAPI(t)
	status, _, _ := a.call(http.MethodPost, "/api/v1/auth/google", map[string]string{"access_token": "forged"})
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _, _ = a.call(http.MethodPost, "/api/v1/auth/google", map[string]string{})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestInventoryScenario(t *testing.T) {
	a := newAPI(t)
	a.signIn()

	status, out, _ := a.call(http.MethodGet, "/api/v1/locations", nil)
	require.Equal(t, fiber.StatusOK, status)
	locations := decode[[]map[string]any](t, out.Data)
	require.Len(t, locations, 2)
	assert.Equal(t, "Kitchen Pantry", locations[0]["name"])
	pantry := locations[0]["id"].(string)

	status, out, _ = a.call(http.MethodPost, "/api/v1/locations/"+pantry+"/containers", map[string]string{"name": "Shelf"})
	require.Equal(t, fiber.StatusCreated, status, out.Error)
	shelf := decode[domain.CreatedResponse](t, out.Data).ID
	itemsPath := "/api/v1/locations/" + pantry + "/containers/" + shelf + "/items"

	status, out, _ = a.call(http.MethodPost, itemsPath, map[string]any{"name": "Rice", "quantity": 2})
	require.Equal(t, fiber.StatusCreated, status, out.Error)
	rice := decode[domain.ItemResponse](t, out.Data)
	assert.Nil(t, rice.ExpirationDate)

	status, out, _ = a.call(http.MethodPost, itemsPath, map[string]any{"name": "Milk", "quantity": 1, "expiration_date": "2026-01-02"})
	require.Equal(t, fiber.StatusCreated, status, out.Error)
	milk := decode[domain.ItemResponse](t, out.Data)

	status, out, _ = a.call(http.MethodGet, "/api/v1/items", nil)
	require.Equal(t, fiber.StatusOK, status)
	rows := decode[[]domain.ItemRow](t, out.Data)
	require.Len(t, rows, 2)
	assert.Equal(t, "Milk", rows[0].Name)
	assert.Equal(t, "Rice", rows[1].Name)

	status, out, _ = a.call(http.MethodPatch, itemsPath+"/"+milk.ID, map[string]any{"quantity": 5})
	require.Equal(t, fiber.StatusOK, status, out.Error)
	patched := decode[domain.ItemResponse](t, out.Data)
	assert.Equal(t, float64(5), patched.Quantity)
	assert.Equal(t, "Milk", patched.Name)
	require.NotNil(t, patched.ExpirationDate)

	status, out, _ = a.call(http.MethodPatch, itemsPath+"/"+milk.ID, map[string]any{"expiration_date": nil})
	require.Equal(t, fiber.StatusOK, status, out.Error)
	assert.Nil(t, decode[domain.ItemResponse](t, out.Data).ExpirationDate)

	status, _, _ = a.call(http.MethodDelete, itemsPath+"/"+rice.ID, nil)
	assert.Equal(t, fiber.StatusOK, status)
	status, _, _ = a.call(http.MethodDelete, itemsPath+"/"+rice.ID, nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _, _ = a.call(http.MethodDelete, "/api/v1/locations/"+pantry, nil)
	assert.Equal(t, fiber.StatusOK, status)
	status, out, _ = a.call(http.MethodGet, "/api/v1/items", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, decode[[]domain.ItemRow](t, out.Data))
}

func TestInventoryErrorStatuses(t *testing.T) {
	a := newAPI(t)
	a.signIn()

	status, _, _ := a.call(http.MethodGet, "/api/v1/locations/not-a-uuid", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _, _ = a.call(http.MethodPost, "/api/v1/locations/f47ac10b-58cc-4372-a567-0e02b2c3d479/containers", map[string]string{"name": "Shelf"})
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _, _ = a.call(http.MethodPost, "/api/v1/locations", map[string]string{"name": ""})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _, _ = a.call(http.MethodGet, "/api/v1/items/expiring?days=-1", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestProfileAndLogout(t *testing.T) {
	a := newAPI(t)
	a.signIn()

	status, out, _ := a.call(http.MethodPatch, "/api/v1/users/me", map[string]any{"setup_completed": true, "device_type": "ios"})
	require.Equal(t, fiber.StatusOK, status, out.Error)
	me := decode[domain.UserResponse](t, out.Data)
	assert.True(t, me.SetupCompleted)
	assert.Equal(t, "ios", me.DeviceType)

	status, _, _ = a.call(http.MethodPost, "/api/v1/users/me/push-tokens", map[string]string{"token": "ExponentPushToken[abc]"})
	assert.Equal(t, fiber.StatusOK, status)

	status, _, resp := a.call(http.MethodPost, "/api/v1/auth/logout", nil)
	assert.Equal(t, fiber.StatusOK, status)
	for _, c := range resp.Cookies() {
		if c.Name == cookieName {
			assert.Empty(t, c.Value)
		}
	}
}

func TestRecipesWithEmptyPantry(t *testing.T) {
	a := newAPI(t)
	a.signIn()

	status, out, _ := a.call(http.MethodPost, "/api/v1/recipes/suggestions", nil)
	require.Equal(t, fiber.StatusOK, status)
	res := decode[map[string]any](t, out.Data)
	assert.Equal(t, float64(0), res["total_recipes"])
}

func TestBarcodeValidation(t *testing.T) {
	a := newAPI(t)
	a.signIn()

	status, _, _ := a.call(http.MethodGet, "/api/v1/barcodes/abc", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestNotificationWithoutValidTokens(t *testing.T) {
	a := newAPI(t)
	a.signIn()

	status, _, _ := a.call(http.MethodPost, "/api/v1/notifications/send", map[string]any{"tokens": []string{"nope"}, "message": "hi"})
	assert.Equal(t, fiber.StatusBadRequest, status)
}
