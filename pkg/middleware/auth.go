// Package middleware provides the fiber handlers that authenticate callers
// and gate routes by role.
package middleware

import (
	"github.com/amirasaad/bank/pkg/service/auth"
	"github.com/amirasaad/bank/webapi/common"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenKey    = "user"
	identityKey = "identity"
)

// unauthorizedDetail is the only message sent for rejected tokens.
const unauthorizedDetail = "invalid or missing token"

// Protected verifies the bearer token and stores the caller's
// *auth.Identity in the request locals. Any failure is a 401.
func Protected(authSvc *auth.Service) fiber.Handler {
	return jwtware.New(jwtware.Config{
		KeyFunc:    authSvc.KeyFunc(),
		Claims:     &auth.Claims{},
		ContextKey: tokenKey,
		SuccessHandler: func(c *fiber.Ctx) error {
			token, _ := c.Locals(tokenKey).(*jwt.Token)
			id, err := authSvc.IdentityFromToken(token)
			if err != nil {
				return jwtError(c, err)
			}
			c.Locals(identityKey, id)
			return c.Next()
		},
		ErrorHandler: jwtError,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	log.Debugf("Rejected token on %s %s: %v", c.Method(), c.Path(), err)
	return common.ErrorResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", unauthorizedDetail)
}

// RequireRole lets the request through only when the caller has the role.
// It must run after Protected.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := Identity(c)
		if id == nil {
			return jwtError(c, nil)
		}
		if id.Role != role {
			return common.ErrorResponseJSON(c, fiber.StatusForbidden, "Forbidden", "requires role "+role)
		}
		return c.Next()
	}
}

// Identity returns the caller attached by Protected, or nil.
func Identity(c *fiber.Ctx) *auth.Identity {
	id, _ := c.Locals(identityKey).(*auth.Identity)
	return id
}
