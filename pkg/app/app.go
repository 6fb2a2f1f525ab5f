// Package app wires the services of the bank API around one unit of work.
package app

import (
	"log/slog"

	"github.com/amirasaad/bank/pkg/config"
	"github.com/amirasaad/bank/pkg/repository"
	"github.com/amirasaad/bank/pkg/service/account"
	"github.com/amirasaad/bank/pkg/service/auth"
	"github.com/amirasaad/bank/pkg/service/card"
	"github.com/amirasaad/bank/pkg/service/transaction"
	"github.com/amirasaad/bank/pkg/service/user"
)

// Deps contains the infrastructure the services are built from.
type Deps struct {
	Uow    repository.UnitOfWork
	Logger *slog.Logger
}

type App struct {
	Deps               *Deps
	Config             *config.App
	AuthService        *auth.Service
	UserService        *user.Service
	AccountService     *account.Service
	CardService        *card.Service
	TransactionService *transaction.Service
}

func New(deps *Deps, cfg *config.App) *App {
	app := &App{
		Deps:   deps,
		Config: cfg,
	}
	app.AuthService = auth.New(deps.Uow, cfg.Auth, deps.Logger)
	app.UserService = user.New(deps.Uow, app.AuthService, deps.Logger)
	app.AccountService = account.New(deps.Uow, deps.Logger)
	app.CardService = card.New(deps.Uow, deps.Logger)
	app.TransactionService = transaction.New(deps.Uow, deps.Logger)
	return app
}
