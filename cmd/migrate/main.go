package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/erp/stockledger/internal/infrastructure/config"
	"github.com/erp/stockledger/internal/infrastructure/logger"
	"github.com/erp/stockledger/internal/infrastructure/migration"
	"github.com/erp/stockledger/migrations"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

const defaultMigrationsDir = "migrations"

var errUsage = errors.New("invalid usage")

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath string
		dir        string
		logLevel   string
	)
	flag.StringVar(&configPath, "config", "", "Path to a config.toml (default: search ., ./config, /etc/stockledger)")
	flag.StringVar(&dir, "path", "", "Migrations directory (default: the set embedded in the binary)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		return 2
	}
	command, args := args[0], args[1:]

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stderr",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	// create writes files, so it always needs a directory
	if command == "create" && dir == "" {
		dir = defaultMigrationsDir
	}
	if dir != "" {
		if dir, err = filepath.Abs(dir); err != nil {
			log.Error("Invalid migrations path", zap.Error(err))
			return 1
		}
	}
	log = log.With(zap.String("command", command), zap.String("source", sourceName(dir)))

	switch command {
	case "create", "list":
		err = runOffline(command, args, dir, log)
	case "up", "down", "step", "version", "force", "status":
		err = runOnline(command, args, dir, configPath, log)
	default:
		log.Error("Unknown command")
		printUsage()
		return 2
	}

	if errors.Is(err, errUsage) {
		log.Error(err.Error())
		return 2
	}
	if err != nil {
		log.Error("Migration command failed", zap.Error(err))
		return 1
	}
	return 0
}

// runOffline handles the commands that never touch the database
func runOffline(command string, args []string, dir string, log *zap.Logger) error {
	if command == "create" {
		if len(args) == 0 {
			return fmt.Errorf("%w: migrate create <name> [description]", errUsage)
		}
		mf, err := migration.CreateMigration(dir, args[0], strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		log.Info("Migration created",
			zap.String("version", mf.Version),
			zap.String("up_file", mf.UpPath),
			zap.String("down_file", mf.DownPath),
		)
		return nil
	}

	names, err := migration.ListMigrations(migrationSource(dir))
	if err != nil {
		return err
	}
	log.Info("Available migrations", zap.Int("count", len(names)))
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

// runOnline opens the ledger database and drives golang-migrate
func runOnline(command string, args []string, dir, configPath string, log *zap.Logger) error {
	var n int
	if command == "step" || command == "force" {
		if len(args) == 0 {
			return fmt.Errorf("%w: migrate %s <n>", errUsage, command)
		}
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("%w: %q is not a number", errUsage, args[0])
		}
		n = v
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to reach database: %w", err)
	}

	var m *migration.Migrator
	if dir == "" {
		m, err = migration.New(db, migrations.FS, log)
	} else {
		m, err = migration.NewFromPath(db, dir, log)
	}
	if err != nil {
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn("Failed to close migrator", zap.Error(err))
		}
	}()

	switch command {
	case "up":
		return m.Up()
	case "down":
		return m.Down()
	case "step":
		return m.Steps(n)
	case "force":
		log.Warn("Forcing migration version", zap.Int("version", n))
		return m.Force(n)
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		log.Info("Current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		return nil
	default:
		return status(m, dir, log)
	}
}

// status reports the applied version against the available migrations
func status(m *migration.Migrator, dir string, log *zap.Logger) error {
	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	names, err := migration.ListMigrations(migrationSource(dir))
	if err != nil {
		return err
	}

	pending := 0
	for _, name := range names {
		v, err := strconv.ParseUint(strings.SplitN(name, "_", 2)[0], 10, 64)
		if err == nil && uint(v) > version {
			pending++
		}
	}
	log.Info("Migration status",
		zap.Uint("version", version),
		zap.Bool("dirty", dirty),
		zap.Int("available", len(names)),
		zap.Int("pending", pending),
	)
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

// migrationSource returns the embedded migrations unless a directory was given
func migrationSource(dir string) fs.FS {
	if dir == "" {
		return migrations.FS
	}
	return os.DirFS(dir)
}

func sourceName(dir string) string {
	if dir == "" {
		return "embedded"
	}
	return dir
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Stock ledger schema migrations

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    Apply all pending migrations
  down                  Roll back all migrations
  step <n>              Apply n migrations (negative rolls back)
  version               Show the applied version
  status                Show the applied version and pending migrations
  force <version>       Set the version without running migrations (clears dirty state)
  create <name> [desc]  Write a new up/down pair into -path (default ./migrations)
  list                  List available migrations

Flags:
  -config string     Path to config.toml
  -path string       Migrations directory (default: embedded migrations)
  -log-level string  debug, info, warn, error (default "info")

Database settings come from config.toml or LEDGER_DATABASE_HOST, LEDGER_DATABASE_PORT,
LEDGER_DATABASE_USER, LEDGER_DATABASE_PASSWORD, LEDGER_DATABASE_DBNAME, LEDGER_DATABASE_SSLMODE.`)
}
