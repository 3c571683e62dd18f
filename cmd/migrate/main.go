package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/pinewood-labs/customer-store/internal/config"
	"github.com/pinewood-labs/customer-store/internal/database"
	"github.com/pinewood-labs/customer-store/internal/logging"
	"github.com/sirupsen/logrus"
)

func main() {
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	logger := logging.New(cfg.Logging)
	logger.WithField("command", command).Info("Migration CLI started")

	migrator, err := database.OpenMigrator(cfg, logger)
	if err != nil {
		logger.Fatalf("Error creating migrator: %v", err)
	}
	defer migrator.Close()

	if err := run(migrator, command, args[1:], logger); err != nil {
		migrator.Close()
		logger.Fatalf("Migration %s failed: %v", command, err)
	}
}

func run(migrator *database.Migrator, command string, args []string, logger *logrus.Logger) error {
	switch command {
	case "up":
		return migrator.Up()

	case "down":
		return migrator.Down()

	case "version":
		version, dirty, err := migrator.Version()
		if err != nil {
			return err
		}
		if version == 0 {
			logger.Info("No migrations applied")
			return nil
		}
		logger.WithFields(logrus.Fields{
			"version": version,
			"dirty":   dirty,
		}).Info("Current migration version")
		return nil

	case "force":
		if len(args) < 1 {
			return fmt.Errorf("version required. Usage: migrate force <version>")
		}
		version, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid version number %q", args[0])
		}
		return migrator.Force(version)

	default:
		printUsage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: migrate <command> [args]

Commands:
  up               Apply all pending migrations
  down             Roll back all migrations
  version          Show the current migration version
  force <version>  Set the version without running migrations (clears dirty state)

Database settings are read from PGHOST, PGPORT, PGUSER, PGPASSWORD, PGDATABASE and DB_SSLMODE.
`)
}
