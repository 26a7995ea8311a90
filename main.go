package main

import (
	"github.com/joho/godotenv"

	"finsight/cmd"
)

func main() {
	// Load .env for local development; absence is fine.
	_ = godotenv.Load()

	cmd.Execute()
}
