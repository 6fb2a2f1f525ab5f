package main

import (
	"fmt"
	"log/slog"

	"github.com/amirasaad/bank/infra/initializer"
	"github.com/amirasaad/bank/pkg/app"
	"github.com/amirasaad/bank/pkg/config"
	"github.com/amirasaad/bank/webapi"
	log "github.com/charmbracelet/log"
)

// @title Bank API
// @version 1.0.0
// @description Bank API documentation
// @termsOfService http://swagger.io/terms/
// @contact.name API Support
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
// @host localhost:3000
// @BasePath /
//
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description "Enter your Bearer token in the format: `Bearer {token}`"
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}

	// Initialize all dependencies
	deps, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	slog.SetDefault(deps.Logger)

	fiberApp := webapi.SetupApp(app.New(deps, cfg))

	addr := cfg.Server.Addr()
	deps.Logger.Info("Starting server",
		"env", cfg.Env,
		"address", addr,
		"scheme", cfg.Server.Scheme,
	)
	return fiberApp.Listen(addr)
}
