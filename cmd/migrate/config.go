package main

import (
	"os"

	"bookcatalog/internal/config"
)

const defaultMigrationsDir = "db/migrations"

func loadEnvFiles() {
	// Do not override environment provided by the runtime (e.g. Docker).
	config.LoadEnvFiles()
}

// migrationsDir returns the on-disk directory to read migrations from. Empty
// means the migrations compiled into the binary.
func migrationsDir() string {
	return os.Getenv("MIGRATIONS_DIR")
}

// createDir is where new migration files are written.
func createDir() string {
	if dir := migrationsDir(); dir != "" {
		return dir
	}
	return defaultMigrationsDir
}

func dbDriver() string {
	if v := os.Getenv("DB_DRIVER"); v != "" {
		return v
	}
	return "postgres"
}
