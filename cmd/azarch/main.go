package main

import (
	"github.com/joho/godotenv"

	"github.com/custodia-labs/azarch-cli/internal/adapters/driving/cli"
)

func main() {
	// A .env file in the working directory may carry GITHUB_TOKEN.
	_ = godotenv.Load()

	cli.Execute()
}
