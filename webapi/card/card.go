package card

import (
	"github.com/amirasaad/bank/pkg/dto"
	"github.com/amirasaad/bank/pkg/middleware"
	authsvc "github.com/amirasaad/bank/pkg/service/auth"
	cardsvc "github.com/amirasaad/bank/pkg/service/card"
	"github.com/amirasaad/bank/webapi/common"
	"github.com/gofiber/fiber/v2"
)

// Routes registers the card endpoints.
func Routes(app *fiber.App, cardSvc *cardsvc.Service, authSvc *authsvc.Service) {
	protected := middleware.Protected(authSvc)
	app.Get("/cards", protected, ListCards(cardSvc))
	app.Post("/cards", protected, CreateCard(cardSvc))
	app.Get("/cards/:id", protected, GetCard(cardSvc))
	app.Put("/cards/:id", protected, UpdateCard(cardSvc))
	app.Delete("/cards/:id", protected, DeleteCard(cardSvc))
	app.Get("/accounts/:id/cards", protected, ListAccountCards(cardSvc))
}

// ListCards returns the cards on the caller's accounts, or all cards for admins.
// @Summary List cards
// @Tags cards
// @Produce json
// @Success 200 {object} common.Response{data=[]card.Card}
// @Failure 401 {object} common.ProblemDetails
// @Router /cards [get]
// @Security Bearer
func ListCards(cardSvc *cardsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cards, err := cardSvc.List(c.Context(), middleware.Identity(c))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list cards", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Cards found", cards)
	}
}

// ListAccountCards returns the cards bound to one account.
// @Summary List an account's cards
// @Tags cards
// @Produce json
// @Param id path int true "Account ID"
// @Success 200 {object} common.Response{data=[]card.Card}
// @Failure 401 {object} common.ProblemDetails
// @Failure 403 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /accounts/{id}/cards [get]
// @Security Bearer
func ListAccountCards(cardSvc *cardsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accountID, err := common.ParseID(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid account ID", err)
		}
		cards, err := cardSvc.ListByAccount(c.Context(), middleware.Identity(c), accountID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list cards", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Cards found", cards)
	}
}

// CreateCard issues a card on an account.
// @Summary Create a card
// @Tags cards
// @Accept json
// @Produce json
// @Param request body dto.CardInput true "Card data"
// @Success 201 {object} common.Response{data=card.Card}
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 403 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /cards [post]
// @Security Bearer
func CreateCard(cardSvc *cardsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[dto.CardInput](c)
		if input == nil {
			return err // error response already written
		}
		created, err := cardSvc.Create(c.Context(), middleware.Identity(c), *input)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to create card", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Card created", created)
	}
}

// GetCard returns one card.
// @Summary Get card by ID
// @Tags cards
// @Produce json
// @Param id path int true "Card ID"
// @Success 200 {object} common.Response{data=card.Card}
// @Failure 401 {object} common.ProblemDetails
// @Failure 403 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /cards/{id} [get]
// @Security Bearer
func GetCard(cardSvc *cardsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.ParseID(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid card ID", err)
		}
		found, err := cardSvc.Get(c.Context(), middleware.Identity(c), id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to get card", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Card found", found)
	}
}

// UpdateCard replaces a card's fields.
// @Summary Update card
// @Tags cards
// @Accept json
// @Param id path int true "Card ID"
// @Param request body dto.CardInput true "Card data"
// @Success 204
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 403 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /cards/{id} [put]
// @Security Bearer
func UpdateCard(cardSvc *cardsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.ParseID(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid card ID", err)
		}
		input, err := common.BindAndValidate[dto.CardInput](c)
		if input == nil {
			return err // error response already written
		}
		if _, err := cardSvc.Update(c.Context(), middleware.Identity(c), id, *input); err != nil {
			return common.ProblemDetailsJSON(c, "Failed to update card", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusNoContent, "Card updated", nil)
	}
}

// DeleteCard deletes a card.
// @Summary Delete card
// @Tags cards
// @Param id path int true "Card ID"
// @Success 204
// @Failure 401 {object} common.ProblemDetails
// @Failure 403 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /cards/{id} [delete]
// @Security Bearer
func DeleteCard(cardSvc *cardsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.ParseID(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid card ID", err)
		}
		if err := cardSvc.Delete(c.Context(), middleware.Identity(c), id); err != nil {
			return common.ProblemDetailsJSON(c, "Failed to delete card", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusNoContent, "Card deleted", nil)
	}
}
