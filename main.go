package main

import (
	"github.com/joho/godotenv"

	"github.com/recapkit/recapkit/cmd"
)

func main() {
	// API keys and overrides may live in a local .env; absence is fine.
	_ = godotenv.Load()

	cmd.Execute()
}
