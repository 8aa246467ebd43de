package middleware

import (
	"PantryPal/domain"
	"PantryPal/pkg/jwt"
	"PantryPal/pkg/user"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cookieName = "pantrypal_session"

type guarded struct {
	app    *fiber.App
	tokens jwt.JWTService
	ann    string
	bob    string
}

func newGuarded(t *testing.T) guarded {
	t.Helper()
	repo := user.NewMemoryUserRepository()
	tokens := jwt.NewJWTService("test-secret", time.Hour)

	ann := user.NewUser(domain.Identity{Email: "ann@example.com"}, time.Now())
	bob := user.NewUser(domain.Identity{Email: "bob@example.com"}, time.Now())
	require.NoError(t, repo.Create(context.Background(), ann))
	require.NoError(t, repo.Create(context.Background(), bob))

	annToken, err := tokens.GenerateToken(ann.ID, ann.Email)
	require.NoError(t, err)
	bobToken, err := tokens.GenerateToken(bob.ID, bob.Email)
	require.NoError(t, err)

	app := fiber.New()
	mw := NewMiddleware(repo, cookieName, "")
	app.Get("/whoami", mw.AuthMiddleware(tokens), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(domain.LocalsUserEmail).(string))
	})
	return guarded{app: app, tokens: tokens, ann: annToken, bob: bobToken}
}

func (g guarded) do(t *testing.T, bearer, cookie string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: cookie})
	}
	resp, err := g.app.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestBearerToken(t *testing.T) {
	g := newGuarded(t)
	status, body := g.do(t, "Bearer "+g.ann, "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ann@example.com", body)
}

func TestSessionCookie(t *testing.T) {
	g := newGuarded(t)
	status, body := g.do(t, "", g.bob)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "bob@example.com", body)
}

func TestBearerWinsOverCookie(t *testing.T) {
	g := newGuarded(t)
	status, body := g.do(t, "Bearer "+g.ann, g.bob)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ann@example.com", body)

	status, _ = g.do(t, "Bearer garbage", g.bob)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestMissingOrMalformedCredential(t *testing.T) {
	g := newGuarded(t)
	for _, header := range []string{"", "Basic abc", "Bearer ", g.ann} {
		status, body := g.do(t, header, "")
		assert.Equal(t, fiber.StatusUnauthorized, status, header)

		var out map[string]any
		require.NoError(t, json.Unmarshal([]byte(body), &out))
		assert.Equal(t, false, out["status"])
	}
}

func TestUnknownUser(t *testing.T) {
	g := newGuarded(t)
	ghost, err := g.tokens.GenerateToken("f47ac10b-58cc-4372-a567-0e02b2c3d479", "ghost@example.com")
	require.NoError(t, err)

	status, _ := g.do(t, "Bearer "+ghost, "")
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestTokenForAnotherAccount(t *testing.T) {
	g := newGuarded(t)
	forged, err := g.tokens.GenerateToken("f47ac10b-58cc-4372-a567-0e02b2c3d479", "ann@example.com")
	require.NoError(t, err)

	status, _ := g.do(t, "Bearer "+forged, "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
}
