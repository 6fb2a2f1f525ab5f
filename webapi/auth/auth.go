package auth

import (
	"errors"

	"github.com/amirasaad/bank/pkg/domain"
	"github.com/amirasaad/bank/pkg/dto"
	authsvc "github.com/amirasaad/bank/pkg/service/auth"
	"github.com/amirasaad/bank/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// Routes registers the public registration and login endpoints.
func Routes(app *fiber.App, authSvc *authsvc.Service) {
	app.Post("/register", Register(authSvc))
	app.Post("/login", Login(authSvc))
}

// Register creates a user with the default role.
// @Summary Register a new user
// @Description Create a user account. The new user always gets the "user" role.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration data"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 500 {object} common.ProblemDetails
// @Router /register [post]
func Register(authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[dto.RegisterRequest](c)
		if input == nil {
			return err // error response already written
		}
		u, err := authSvc.Register(c.Context(), *input)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Registration failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "User registered", u)
	}
}

// Login handles user authentication and returns a JWT token.
// @Summary User login
// @Description Authenticate with username and password. Unknown users and wrong passwords get the same answer.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} common.Response{data=dto.LoginResponse}
// @Failure 400 {object} common.ProblemDetails
// @Failure 500 {object} common.ProblemDetails
// @Router /login [post]
func Login(authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[dto.LoginRequest](c)
		if input == nil {
			return err // error response already written
		}
		token, _, err := authSvc.Login(c.Context(), input.Username, input.Password)
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return common.ProblemDetailsJSON(c, "Invalid username or password", nil,
				"Username or password is incorrect", fiber.StatusBadRequest)
		}
		if err != nil {
			log.Errorf("Login failed: %v", err)
			return common.ProblemDetailsJSON(c, "Internal Server Error", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Success login", dto.LoginResponse{Token: token})
	}
}
