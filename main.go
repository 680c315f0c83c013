package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/danielhkuo/toasty-votes/commands"
)

func main() {
	// .env is optional; real environment variables win
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env", "error", err)
	}

	if err := commands.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
