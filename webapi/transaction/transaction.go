package transaction

import (
	"github.com/amirasaad/bank/pkg/domain/user"
	"github.com/amirasaad/bank/pkg/dto"
	"github.com/amirasaad/bank/pkg/middleware"
	authsvc "github.com/amirasaad/bank/pkg/service/auth"
	txsvc "github.com/amirasaad/bank/pkg/service/transaction"
	"github.com/amirasaad/bank/webapi/common"
	"github.com/gofiber/fiber/v2"
)

// Routes registers the transaction endpoints. Editing and deleting records
// is reserved for admins.
func Routes(app *fiber.App, txSvc *txsvc.Service, authSvc *authsvc.Service) {
	protected := middleware.Protected(authSvc)
	adminOnly := middleware.RequireRole(user.RoleAdmin)
	app.Get("/transactions", protected, ListTransactions(txSvc))
	app.Post("/transactions", protected, CreateTransaction(txSvc))
	app.Get("/transactions/:id", protected, GetTransaction(txSvc))
	app.Put("/transactions/:id", protected, adminOnly, UpdateTransaction(txSvc))
	app.Delete("/transactions/:id", protected, adminOnly, DeleteTransaction(txSvc))
	app.Get("/accounts/:id/transactions", protected, ListAccountTransactions(txSvc))
}

// ListTransactions returns transactions involving the caller's accounts, or all for admins.
// @Summary List transactions
// @Tags transactions
// @Produce json
// @Success 200 {object} common.Response{data=[]transaction.Transaction}
// @Failure 401 {object} common.ProblemDetails
// @Router /transactions [get]
// @Security Bearer
func ListTransactions(txSvc *txsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		txs, err := txSvc.List(c.Context(), middleware.Identity(c))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list transactions", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transactions found", txs)
	}
}

// ListAccountTransactions returns the transactions an account took part in.
// @Summary List an account's transactions
// @Tags transactions
// @Produce json
// @Param id path int true "Account ID"
// @Success 200 {object} common.Response{data=[]transaction.Transaction}
// @Failure 401 {object} common.ProblemDetails
// @Failure 403 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /accounts/{id}/transactions [get]
// @Security Bearer
func ListAccountTransactions(txSvc *txsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accountID, err := common.ParseID(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid account ID", err)
		}
		txs, err := txSvc.ListByAccount(c.Context(), middleware.Identity(c), accountID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list transactions", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transactions found", txs)
	}
}

// CreateTransaction records a transaction. Balances are not changed.
// @Summary Record a transaction
// @Description Non-admins must own the sender account. Identifier, time and type are filled in when omitted.
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body dto.TransactionInput true "Transaction data"
// @Success 201 {object} common.Response{data=transaction.Transaction}
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 403 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /transactions [post]
// @Security Bearer
func CreateTransaction(txSvc *txsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[dto.TransactionInput](c)
		if input == nil {
			return err // error response already written
		}
		tx, err := txSvc.Create(c.Context(), middleware.Identity(c), *input)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to record transaction", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Transaction recorded", tx)
	}
}

// GetTransaction returns one transaction.
// @Summary Get transaction by ID
// @Tags transactions
// @Produce json
// @Param id path int true "Transaction ID"
// @Success 200 {object} common.Response{data=transaction.Transaction}
// @Failure 401 {object} common.ProblemDetails
// @Failure 403 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /transactions/{id} [get]
// @Security Bearer
func GetTransaction(txSvc *txsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.ParseID(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid transaction ID", err)
		}
		tx, err := txSvc.Get(c.Context(), middleware.Identity(c), id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to get transaction", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transaction found", tx)
	}
}

// UpdateTransaction replaces a transaction record.
// @Summary Update transaction
// @Tags transactions
// @Accept json
// @Param id path int true "Transaction ID"
// @Param request body dto.TransactionInput true "Transaction data"
// @Success 204
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 403 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /transactions/{id} [put]
// @Security Bearer
func UpdateTransaction(txSvc *txsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.ParseID(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid transaction ID", err)
		}
		input, err := common.BindAndValidate[dto.TransactionInput](c)
		if input == nil {
			return err // error response already written
		}
		if _, err := txSvc.Update(c.Context(), id, *input); err != nil {
			return common.ProblemDetailsJSON(c, "Failed to update transaction", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusNoContent, "Transaction updated", nil)
	}
}

// DeleteTransaction deletes a transaction record.
// @Summary Delete transaction
// @Tags transactions
// @Param id path int true "Transaction ID"
// @Success 204
// @Failure 401 {object} common.ProblemDetails
// @Failure 403 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /transactions/{id} [delete]
// @Security Bearer
func DeleteTransaction(txSvc *txsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.ParseID(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid transaction ID", err)
		}
		if err := txSvc.Delete(c.Context(), id); err != nil {
			return common.ProblemDetailsJSON(c, "Failed to delete transaction", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusNoContent, "Transaction deleted", nil)
	}
}
