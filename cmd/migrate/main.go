package main

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"

	"pulse/logger"
)

func main() {
	godotenv.Load()
	log := logger.With("migrate")

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		databaseURL = os.Getenv("PULSE_DATABASE_URL")
	}
	if databaseURL == "" {
		log.Fatal().Msg("DATABASE_URL not set")
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, databaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect")
	}
	defer conn.Close(ctx)

	migrationsDir := "./database/migrations"
	files, err := os.ReadDir(migrationsDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read migrations directory")
	}

	var sqlFiles []string
	for _, file := range files {
		if filepath.Ext(file.Name()) == ".sql" {
			sqlFiles = append(sqlFiles, file.Name())
		}
	}
	sort.Strings(sqlFiles)

	for _, file := range sqlFiles {
		content, err := os.ReadFile(filepath.Join(migrationsDir, file))
		if err != nil {
			log.Fatal().Err(err).Str("file", file).Msg("Failed to read migration")
		}

		if _, err := conn.Exec(ctx, string(content)); err != nil {
			log.Fatal().Err(err).Str("file", file).Msg("Failed to execute migration")
		}
		log.Info().Str("file", file).Msg("Migration applied")
	}

	log.Info().Int("count", len(sqlFiles)).Msg("All migrations completed")
}
