package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/qforge/qbank-backend/internal/config"
	"github.com/qforge/qbank-backend/internal/logger"
)

// Applies the question-bank schema migrations. Thin wrapper around
// golang-migrate so the same DATABASE_URL drives the server and the schema.
func main() {
	var migrationDir string
	flag.StringVar(&migrationDir, "path", "migrations", "Directory holding the schema migrations")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	if cfg.DatabaseURL == "" {
		log.Fatal().Msg("DATABASE_URL is not set")
	}

	m, err := migrate.New("file://"+migrationDir, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Could not open the migration source")
	}

	args := flag.Args()
	if len(args) < 1 {
		usage()
		os.Exit(1)
	}

	switch args[0] {
	case "up":
		if err := m.Up(); errors.Is(err, migrate.ErrNoChange) {
			fmt.Println("Schema already up to date")
		} else if err != nil {
			log.Fatal().Err(err).Msg("Migration up failed")
		} else {
			fmt.Println("Schema migrated up")
		}
	case "down":
		if err := m.Down(); errors.Is(err, migrate.ErrNoChange) {
			fmt.Println("Nothing to roll back")
		} else if err != nil {
			log.Fatal().Err(err).Msg("Migration down failed")
		} else {
			fmt.Println("Schema rolled back")
		}
	case "version":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Println("No migrations applied yet")
			return
		}
		if err != nil {
			log.Fatal().Err(err).Msg("Could not read schema version")
		}
		fmt.Printf("Schema version %d (dirty: %t)\n", version, dirty)
	case "force":
		if len(args) < 2 {
			log.Fatal().Msg("force needs a version argument")
		}
		v, err := strconv.Atoi(args[1])
		if err != nil {
			log.Fatal().Err(err).Msg("force version must be an integer")
		}
		if err := m.Force(v); err != nil {
			log.Fatal().Err(err).Msg("Force failed")
		}
		fmt.Printf("Schema version forced to %d\n", v)
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Usage: migrate [-path dir] <up|down|version|force <version>>")
	flag.PrintDefaults()
}
