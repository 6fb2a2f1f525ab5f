package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amirasaad/bank/internal/fixtures/mocks"
	"github.com/amirasaad/bank/pkg/config"
	"github.com/amirasaad/bank/pkg/domain/user"
	"github.com/amirasaad/bank/pkg/middleware"
	"github.com/amirasaad/bank/pkg/service/auth"
	"github.com/amirasaad/bank/pkg/testutils"
	"github.com/amirasaad/bank/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuth(cfg *config.Auth) *auth.Service {
	return auth.New(mocks.NewMockUnitOfWork(), cfg, testutils.NewLogger())
}

func newApp(authSvc *auth.Service) *fiber.App {
	app := fiber.New()
	app.Get("/me", middleware.Protected(authSvc), func(c *fiber.Ctx) error {
		id := middleware.Identity(c)
		return c.JSON(fiber.Map{"id": id.UserID, "role": id.Role})
	})
	app.Get("/admin", middleware.Protected(authSvc), middleware.RequireRole(user.RoleAdmin),
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	return app
}

func request(t *testing.T, app *fiber.App, path, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func issue(t *testing.T, svc *auth.Service, id uint, role string) string {
	t.Helper()
	token, err := svc.IssueToken(&user.User{ID: id, Role: role})
	require.NoError(t, err)
	return token
}

func TestProtected_ValidToken(t *testing.T) {
	authSvc := newAuth(testutils.NewConfig().Auth)
	app := newApp(authSvc)

	resp := request(t, app, "/me", issue(t, authSvc, 7, user.RoleUser))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var body struct {
		ID   uint   `json:"id"`
		Role string `json:"role"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, uint(7), body.ID)
	assert.Equal(t, user.RoleUser, body.Role)
}

func TestProtected_RejectsUniformly(t *testing.T) {
	cfg := testutils.NewConfig().Auth
	authSvc := newAuth(cfg)

	past := newAuth(cfg).WithClock(func() time.Time { return time.Now().Add(-48 * time.Hour) })

	otherAud := *cfg.Jwt
	otherAud.Audience = "someone-else"
	foreign := newAuth(&config.Auth{Jwt: &otherAud, BcryptCost: cfg.BcryptCost})

	hs256, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		UserID: "7",
		Role:   user.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Jwt.Issuer,
			Audience:  jwt.ClaimStrings{cfg.Jwt.Audience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(cfg.Jwt.Secret))
	require.NoError(t, err)

	tests := map[string]string{
		"missing":        "",
		"malformed":      "not-a-token",
		"expired":        issue(t, past, 7, user.RoleUser),
		"wrong audience": issue(t, foreign, 7, user.RoleUser),
		"wrong alg":      hs256,
	}
	app := newApp(authSvc)
	var details []string
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			resp := request(t, app, "/me", token)
			assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, common.ProblemContentType, resp.Header.Get(fiber.HeaderContentType))
			var pd common.ProblemDetails
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&pd))
			details = append(details, pd.Detail)
		})
	}
	require.Len(t, details, len(tests))
	for _, d := range details {
		assert.Equal(t, details[0], d)
	}
}

func TestRequireRole(t *testing.T) {
	authSvc := newAuth(testutils.NewConfig().Auth)
	app := newApp(authSvc)

	resp := request(t, app, "/admin", issue(t, authSvc, 1, user.RoleUser))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = request(t, app, "/admin", issue(t, authSvc, 2, user.RoleAdmin))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = request(t, app, "/admin", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireRole_WithoutProtected(t *testing.T) {
	app := fiber.New()
	app.Get("/", middleware.RequireRole(user.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
