// Package webapi provides HTTP handlers and API endpoints for the bank application.
// It is organized into sub-packages for different domains:
// - auth: Registration and login endpoints
// - user: User management endpoints
// - account: Account endpoints
// - card: Card endpoints
// - transaction: Transaction endpoints
package webapi

import (
	"errors"

	_ "github.com/amirasaad/bank/docs" // swagger spec
	"github.com/amirasaad/bank/pkg/app"
	accountweb "github.com/amirasaad/bank/webapi/account"
	authweb "github.com/amirasaad/bank/webapi/auth"
	cardweb "github.com/amirasaad/bank/webapi/card"
	"github.com/amirasaad/bank/webapi/common"
	transactionweb "github.com/amirasaad/bank/webapi/transaction"
	userweb "github.com/amirasaad/bank/webapi/user"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
)

// SetupApp Initialize Fiber with custom configuration
func SetupApp(app *app.App) *fiber.App {
	cfg := app.Config

	fiberApp := fiber.New(fiber.Config{
		AppName: "Bank API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			title := "Internal Server Error"
			var fe *fiber.Error
			if errors.As(err, &fe) {
				title = fe.Message
			}
			return common.ProblemDetailsJSON(c, title, err)
		},
	})
	fiberApp.Get("/swagger/*", swagger.New(swagger.Config{
		TryItOutEnabled:      true,
		PersistAuthorization: true,
	}))

	fiberApp.Use(recover.New())
	if cfg.Env != "test" {
		fiberApp.Use(logger.New())
	}
	fiberApp.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Cors.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	// Health check endpoint
	fiberApp.Get(
		"/",
		func(c *fiber.Ctx) error {
			return c.SendString("Bank API is running! 🚀")
		},
	)

	authweb.Routes(fiberApp, app.AuthService)
	userweb.Routes(fiberApp, app.UserService, app.AuthService)
	accountweb.Routes(fiberApp, app.AccountService, app.AuthService)
	cardweb.Routes(fiberApp, app.CardService, app.AuthService)
	transactionweb.Routes(fiberApp, app.TransactionService, app.AuthService)
	return fiberApp
}
