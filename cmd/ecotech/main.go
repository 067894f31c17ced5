package main

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/ecotech-solutions/ecotech/internal/app"
	"github.com/ecotech-solutions/ecotech/internal/console"
)

func main() {
	cfg := app.LoadConfig()

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}
	defer application.Close()

	if err := application.Run(context.Background()); err != nil {
		if errors.Is(err, console.ErrLocked) {
			// Security exit: the login budget is gone.
			os.Exit(1)
		}
		log.Fatalf("application error: %v", err)
	}
}
