package main

import (
	"log/slog"

	"github.com/joho/godotenv"

	"pointage/internal/app/server"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "err", err)
	}
	server.Run()
}
