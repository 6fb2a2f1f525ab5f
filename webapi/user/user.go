package user

import (
	"github.com/amirasaad/bank/pkg/domain/user"
	"github.com/amirasaad/bank/pkg/dto"
	"github.com/amirasaad/bank/pkg/middleware"
	authsvc "github.com/amirasaad/bank/pkg/service/auth"
	usersvc "github.com/amirasaad/bank/pkg/service/user"
	"github.com/amirasaad/bank/webapi/common"
	"github.com/gofiber/fiber/v2"
)

// Routes registers the user endpoints. /users/profile is registered before
// /users/:id so it is never parsed as an id.
func Routes(app *fiber.App, userSvc *usersvc.Service, authSvc *authsvc.Service) {
	protected := middleware.Protected(authSvc)
	adminOnly := middleware.RequireRole(user.RoleAdmin)
	app.Get("/users/profile", protected, Profile(userSvc))
	app.Get("/users", protected, adminOnly, ListUsers(userSvc))
	app.Post("/users", protected, adminOnly, CreateUser(userSvc))
	app.Get("/users/:id", protected, GetUser(userSvc))
	app.Put("/users/:id", protected, UpdateUser(userSvc))
	app.Delete("/users/:id", protected, adminOnly, DeleteUser(userSvc))
}

// Profile returns the caller's own user record.
// @Summary Current user
// @Tags users
// @Produce json
// @Success 200 {object} common.Response{data=user.User}
// @Failure 401 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /users/profile [get]
// @Security Bearer
func Profile(userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := middleware.Identity(c)
		u, err := userSvc.Get(c.Context(), id, id.UserID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to load profile", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "User found", u)
	}
}

// ListUsers returns every user.
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {object} common.Response{data=[]user.User}
// @Failure 401 {object} common.ProblemDetails
// @Failure 403 {object} common.ProblemDetails
// @Router /users [get]
// @Security Bearer
func ListUsers(userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		users, err := userSvc.List(c.Context())
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list users", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Users found", users)
	}
}

// GetUser returns a Fiber handler for retrieving a user by ID.
// @Summary Get user by ID
// @Description Users may read themselves; admins may read anyone.
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} common.Response{data=user.User}
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 403 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /users/{id} [get]
// @Security Bearer
func GetUser(userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.ParseID(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid user ID", err)
		}
		u, err := userSvc.Get(c.Context(), middleware.Identity(c), id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to get user", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "User found", u)
	}
}

// CreateUser creates a user with any role.
// @Summary Create a user
// @Tags users
// @Accept json
// @Produce json
// @Param request body dto.UserInput true "User data"
// @Success 201 {object} common.Response{data=user.User}
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 403 {object} common.ProblemDetails
// @Failure 409 {object} common.ProblemDetails
// @Router /users [post]
// @Security Bearer
func CreateUser(userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[dto.UserInput](c)
		if input == nil {
			return err // error response already written
		}
		u, err := userSvc.Create(c.Context(), *input)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Couldn't create user", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Created user", u)
	}
}

// UpdateUser replaces a user's fields.
// @Summary Update user
// @Description A body id different from the path id is rejected. Only admins may change roles.
// @Tags users
// @Accept json
// @Param id path int true "User ID"
// @Param request body dto.UserInput true "User data"
// @Success 204
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 403 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Failure 409 {object} common.ProblemDetails
// @Router /users/{id} [put]
// @Security Bearer
func UpdateUser(userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.ParseID(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid user ID", err)
		}
		input, err := common.BindAndValidate[dto.UserInput](c)
		if input == nil {
			return err // error response already written
		}
		if _, err := userSvc.Update(c.Context(), middleware.Identity(c), id, *input); err != nil {
			return common.ProblemDetailsJSON(c, "Failed to update user", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusNoContent, "User updated", nil)
	}
}

// DeleteUser deletes a user together with its accounts and cards.
// @Summary Delete user
// @Tags users
// @Param id path int true "User ID"
// @Success 204
// @Failure 401 {object} common.ProblemDetails
// @Failure 403 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Failure 409 {object} common.ProblemDetails
// @Router /users/{id} [delete]
// @Security Bearer
func DeleteUser(userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.ParseID(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid user ID", err)
		}
		if err := userSvc.Delete(c.Context(), id); err != nil {
			return common.ProblemDetailsJSON(c, "Failed to delete user", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusNoContent, "User deleted", nil)
	}
}
