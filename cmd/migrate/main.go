package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strconv"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/stocklot/backend/internal/infrastructure/config"
	"github.com/stocklot/backend/internal/infrastructure/logger"
	"github.com/stocklot/backend/internal/infrastructure/migration"
)

func main() {
	var migrationsPath string
	flag.StringVar(&migrationsPath, "path", "migrations", "directory holding the SQL migration files")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fatal("failed to load config: %v", err)
	}

	log, err := logger.NewForEnvironment(cfg.App.Env)
	if err != nil {
		fatal("failed to build logger: %v", err)
	}
	defer func() { _ = log.Sync() }()

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		fatal("failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	migrator, err := migration.New(db, migrationsPath, log)
	if err != nil {
		fatal("failed to init migrator: %v", err)
	}
	defer func() { _ = migrator.Close() }()

	if err := runCommand(migrator, log, flag.Args()); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}
}

func runCommand(m *migration.Migrator, log *zap.Logger, args []string) error {
	switch args[0] {
	case "up":
		return m.Up()
	case "down":
		return m.Down()
	case "steps":
		if len(args) < 2 {
			return fmt.Errorf("steps requires a count, e.g. 'steps -1'")
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid step count %q: %w", args[1], err)
		}
		return m.Steps(n)
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		log.Info("schema version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		return nil
	case "force":
		if len(args) < 2 {
			return fmt.Errorf("force requires a version")
		}
		v, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", args[1], err)
		}
		return m.Force(v)
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: migrate [-path dir] <command>

Commands:
  up           apply all pending migrations
  down         roll back all migrations
  steps <n>    apply n migrations (negative rolls back)
  version      print the current schema version
  force <v>    set the version without running migrations
`)
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
