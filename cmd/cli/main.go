package main

import (
	"context"
	"net/http"
	"os"

	"github.com/amirasaad/bank/pkg/client"
	"github.com/amirasaad/bank/pkg/config"
	"github.com/fatih/color"
)

func main() {
	cfg := config.LoadClient(discardLogger())
	if cfg.NoColor {
		color.NoColor = true
	}
	api := client.New(cfg.BaseURL, client.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}))
	sh := newShell(api, os.Stdin, color.Output)
	sh.readPassword = terminalPassword(sh.readPassword)
	if err := sh.Run(context.Background()); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, err) //nolint:errcheck
		os.Exit(1)
	}
}
