package http_test

import (
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/taller-api/internal/domain/entity"
	apihttp "github.com/jhoicas/taller-api/internal/interfaces/http"
	"github.com/jhoicas/taller-api/pkg/jwt"
)

const testSecret = "secreto-de-pruebas"

// buildTestApp levanta una app mínima con el middleware de auth y una ruta
// restringida a supervisores, igual que las rutas de creación del router real.
func buildTestApp() *fiber.App {
	app := fiber.New()
	api := app.Group("/api", apihttp.AuthMiddleware(testSecret))
	api.Get("/me", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id": apihttp.GetUserID(c),
			"name":    apihttp.GetUserName(c),
			"role":    apihttp.GetRole(c),
		})
	})
	api.Post("/restricted",
		apihttp.RequireRole(entity.RoleAdmin, entity.RoleSupervisor),
		func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusCreated)
		})
	return app
}

func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	token, err := jwt.Generate(testSecret, "user-1", "Jhoan", role, "taller-mes", 60)
	require.NoError(t, err)
	return token
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string) (*nethttp.Response, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]any
	if len(body) > 0 {
		_ = json.Unmarshal(body, &decoded)
	}
	return resp, decoded
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_SinTokenDevuelve401(t *testing.T) {
	app := buildTestApp()
	resp, body := doRequest(t, app, "GET", "/api/me", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", body["code"])
}

func TestAuthMiddleware_FormatoInvalidoDevuelve401(t *testing.T) {
	app := buildTestApp()
	req := httptest.NewRequest("GET", "/api/me", nil)
	req.Header.Set("Authorization", "Basic abc123")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_TokenConOtraFirmaDevuelve401(t *testing.T) {
	app := buildTestApp()
	forged, err := jwt.Generate("otro-secreto", "user-1", "Jhoan", entity.RoleAdmin, "taller-mes", 60)
	require.NoError(t, err)
	resp, body := doRequest(t, app, "GET", "/api/me", forged)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", body["code"])
}

func TestAuthMiddleware_TokenValidoExponeClaims(t *testing.T) {
	app := buildTestApp()
	resp, body := doRequest(t, app, "GET", "/api/me", tokenForRole(t, entity.RoleOperario))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "user-1", body["user_id"])
	assert.Equal(t, "Jhoan", body["name"])
	assert.Equal(t, entity.RoleOperario, body["role"])
}

// ──────────────────────────────────────────────────────────────────────────────
// RequireRole
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_OperarioNoPuedeCrear(t *testing.T) {
	app := buildTestApp()
	resp, body := doRequest(t, app, "POST", "/api/restricted", tokenForRole(t, entity.RoleOperario))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", body["code"])
}

func TestRequireRole_SupervisorYAdminPasan(t *testing.T) {
	app := buildTestApp()
	for _, role := range []string{entity.RoleSupervisor, entity.RoleAdmin} {
		resp, _ := doRequest(t, app, "POST", "/api/restricted", tokenForRole(t, role))
		assert.Equalf(t, fiber.StatusCreated, resp.StatusCode, "rol %s", role)
	}
}
