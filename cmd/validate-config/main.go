package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/T-Man-05/diacare-sub000/internal/config"
)

func main() {
	fmt.Println("Checking configuration...")

	if err := godotenv.Load(); err != nil {
		fmt.Printf(".env file not found: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Configuration is invalid:\n%v\n", err)
		os.Exit(1)
	}

	fmt.Println("Configuration is valid.")
	fmt.Printf("  - Storage driver: %s\n", cfg.Storage.Driver)
	if cfg.Storage.Driver == config.DriverSQLite {
		fmt.Printf("  - SQLite path: %s\n", cfg.Storage.SQLitePath)
	} else {
		fmt.Printf("  - DB Host: %s\n", cfg.Storage.Postgres.Host)
		fmt.Printf("  - DB Port: %s\n", cfg.Storage.Postgres.Port)
		fmt.Printf("  - DB User: %s\n", cfg.Storage.Postgres.User)
		fmt.Printf("  - DB Name: %s\n", cfg.Storage.Postgres.DBName)
	}
	fmt.Printf("  - Gemini API Key: %s\n", maskToken(cfg.GeminiAPIKey))
	fmt.Printf("  - Log Level: %v\n", cfg.Logger.Level)
	fmt.Printf("  - Log Output: %s\n", cfg.Logger.OutputPath)
	fmt.Printf("  - Log Format: %s\n", cfg.Logger.Format)
}

func maskToken(token string) string {
	if token == "" {
		return "<not set>"
	}
	if len(token) <= 8 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
