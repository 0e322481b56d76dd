package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"shiftpulse/internal/app"
)

func main() {
	// Optional .env for local development. A missing file is not an error.
	_ = godotenv.Load()

	application, err := app.NewApplication()
	if err != nil {
		slog.Error("failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := application.Run(context.Background()); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
