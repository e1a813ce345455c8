package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/Repuestos-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Repuestos-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testCompanyID = "00000000-0000-0000-0000-000000000002"
	testIssuer    = "repuestos-api-test"
	testExpMin    = 60
)

// buildTestApp construye una aplicación Fiber mínima con:
//   - AuthMiddleware para parsear el JWT y cargar locals
//   - RequireRole para autorizar el acceso
//   - Un handler dummy que devuelve 200 si pasa los middlewares
func buildTestApp(allowedRoles ...string) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret, testIssuer),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":   true,
				"role": apphttp.GetRole(c),
			})
		},
	)
	return app
}

// tokenFor genera un JWT con el rol y la empresa indicados.
func tokenFor(t *testing.T, userID, companyID, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, userID, companyID, role, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func tokenForRole(t *testing.T, role string) string {
	return tokenFor(t, testUserID, testCompanyID, role)
}

// doRequest lanza una petición GET /protected y devuelve la respuesta.
func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireRole
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_VendedorAccedeRutaVendedor(t *testing.T) {
	app := buildTestApp("seller")
	resp := doRequest(t, app, tokenForRole(t, "seller"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "seller", body["role"])
}

func TestRequireRole_ClienteBloqueadoEnRutaVendedor(t *testing.T) {
	app := buildTestApp("seller")
	resp := doRequest(t, app, tokenForRole(t, "customer"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
}

func TestRequireRole_TokenSinRol_Retorna401(t *testing.T) {
	app := buildTestApp("seller")
	resp := doRequest(t, app, tokenForRole(t, ""))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_ROLE")
}

func TestRequireRole_SinAuthHeader_Retorna401(t *testing.T) {
	resp := doRequest(t, buildTestApp("seller"), "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequireRole_TokenInvalido_Retorna401(t *testing.T) {
	resp := doRequest(t, buildTestApp("seller"), "Bearer token.invalido.aqui")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests OptionalAuth
// ──────────────────────────────────────────────────────────────────────────────

func buildOptionalApp() *fiber.App {
	app := fiber.New()
	app.Get("/me", apphttp.OptionalAuth(testJWTSecret, testIssuer), func(c *fiber.Ctx) error {
		a := apphttp.GetActor(c)
		return c.JSON(fiber.Map{
			"user_id":    a.UserID,
			"company_id": a.CompanyID,
			"role":       string(a.Role),
		})
	})
	return app
}

func TestOptionalAuth_SinTokenEsAnonimo(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	resp, err := buildOptionalApp().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "anonymous", body["role"])
	assert.Empty(t, body["user_id"])
}

func TestOptionalAuth_ExtraeClaims(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", tokenForRole(t, "customer"))
	resp, err := buildOptionalApp().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, testCompanyID, body["company_id"])
	assert.Equal(t, "customer", body["role"])
}

func TestOptionalAuth_TokenInvalidoNoDegradaAAnonimo(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer basura")
	resp, err := buildOptionalApp().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestOptionalAuth_OtroEmisorRechazado(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, "", "seller", "otra-app", testExpMin)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := buildOptionalApp().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
