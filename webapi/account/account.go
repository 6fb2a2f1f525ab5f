package account

import (
	"github.com/amirasaad/bank/pkg/dto"
	"github.com/amirasaad/bank/pkg/middleware"
	accountsvc "github.com/amirasaad/bank/pkg/service/account"
	authsvc "github.com/amirasaad/bank/pkg/service/auth"
	"github.com/amirasaad/bank/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// Routes registers HTTP routes for account-related operations.
//
// Routes:
//   - GET    /accounts          : Accounts visible to the caller (admins see all).
//   - POST   /accounts          : Open an account.
//   - GET    /accounts/:id      : Read one account.
//   - PUT    /accounts/:id      : Replace an account's fields, including its balance.
//   - DELETE /accounts/:id      : Delete an account and its cards.
//   - GET    /users/:id/accounts: Accounts of one user.
func Routes(app *fiber.App, accountSvc *accountsvc.Service, authSvc *authsvc.Service) {
	protected := middleware.Protected(authSvc)
	app.Get("/accounts", protected, ListAccounts(accountSvc))
	app.Post("/accounts", protected, CreateAccount(accountSvc))
	app.Get("/accounts/:id", protected, GetAccount(accountSvc))
	app.Put("/accounts/:id", protected, UpdateAccount(accountSvc))
	app.Delete("/accounts/:id", protected, DeleteAccount(accountSvc))
	app.Get("/users/:id/accounts", protected, ListUserAccounts(accountSvc))
}

// ListAccounts returns the accounts the caller may see.
// @Summary List accounts
// @Tags accounts
// @Produce json
// @Success 200 {object} common.Response{data=[]account.Account}
// @Failure 401 {object} common.ProblemDetails
// @Router /accounts [get]
// @Security Bearer
func ListAccounts(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accounts, err := accountSvc.List(c.Context(), middleware.Identity(c))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list accounts", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Accounts found", accounts)
	}
}

// ListUserAccounts returns the accounts owned by one user.
// @Summary List a user's accounts
// @Tags accounts
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} common.Response{data=[]account.Account}
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 403 {object} common.ProblemDetails
// @Router /users/{id}/accounts [get]
// @Security Bearer
func ListUserAccounts(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID, err := common.ParseID(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid user ID", err)
		}
		accounts, err := accountSvc.ListByOwner(c.Context(), middleware.Identity(c), ownerID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list accounts", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Accounts found", accounts)
	}
}

// CreateAccount opens an account. The owner defaults to the caller.
// @Summary Create a new account
// @Description Opens an account for the caller, or for any user when the caller is an admin.
// @Tags accounts
// @Accept json
// @Produce json
// @Param request body dto.AccountInput true "Account data"
// @Success 201 {object} common.Response{data=account.Account}
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 403 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /accounts [post]
// @Security Bearer
func CreateAccount(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[dto.AccountInput](c)
		if input == nil {
			return err // error response already written
		}
		a, err := accountSvc.Create(c.Context(), middleware.Identity(c), *input)
		if err != nil {
			log.Errorf("Failed to create account: %v", err)
			return common.ProblemDetailsJSON(c, "Failed to create account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Account created", a)
	}
}

// GetAccount returns one account.
// @Summary Get account by ID
// @Tags accounts
// @Produce json
// @Param id path int true "Account ID"
// @Success 200 {object} common.Response{data=account.Account}
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 403 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /accounts/{id} [get]
// @Security Bearer
func GetAccount(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.ParseID(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid account ID", err)
		}
		a, err := accountSvc.Get(c.Context(), middleware.Identity(c), id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to get account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account found", a)
	}
}

// UpdateAccount replaces an account's fields.
// @Summary Update account
// @Description The balance is set as given. Only admins may move an account to another owner.
// @Tags accounts
// @Accept json
// @Param id path int true "Account ID"
// @Param request body dto.AccountInput true "Account data"
// @Success 204
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 403 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /accounts/{id} [put]
// @Security Bearer
func UpdateAccount(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.ParseID(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid account ID", err)
		}
		input, err := common.BindAndValidate[dto.AccountInput](c)
		if input == nil {
			return err // error response already written
		}
		if _, err := accountSvc.Update(c.Context(), middleware.Identity(c), id, *input); err != nil {
			return common.ProblemDetailsJSON(c, "Failed to update account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusNoContent, "Account updated", nil)
	}
}

// DeleteAccount deletes an account and its cards.
// @Summary Delete account
// @Description Fails with 409 while any transaction references the account.
// @Tags accounts
// @Param id path int true "Account ID"
// @Success 204
// @Failure 401 {object} common.ProblemDetails
// @Failure 403 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Failure 409 {object} common.ProblemDetails
// @Router /accounts/{id} [delete]
// @Security Bearer
func DeleteAccount(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.ParseID(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid account ID", err)
		}
		if err := accountSvc.Delete(c.Context(), middleware.Identity(c), id); err != nil {
			return common.ProblemDetailsJSON(c, "Failed to delete account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusNoContent, "Account deleted", nil)
	}
}
