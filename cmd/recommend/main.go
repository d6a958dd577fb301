// Package main is the recommend command line tool. It runs the recommendation
// stages on a JSON file of transactions and prints the result as JSON.
package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	// Diagnostics go to stderr so stdout stays machine-readable
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout))
}
