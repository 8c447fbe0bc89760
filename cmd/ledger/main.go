package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	appinventory "github.com/erp/stockledger/internal/application/inventory"
	"github.com/erp/stockledger/internal/infrastructure/config"
	"github.com/erp/stockledger/internal/infrastructure/lock"
	"github.com/erp/stockledger/internal/infrastructure/logger"
	"github.com/erp/stockledger/internal/infrastructure/persistence"
	"github.com/erp/stockledger/internal/infrastructure/telemetry"
	"github.com/erp/stockledger/internal/interfaces/cli"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath string
		inputPath  string
	)
	flag.StringVar(&configPath, "config", "", "Path to a config.toml (default: search ., ./config, /etc/stockledger)")
	flag.StringVar(&inputPath, "in", "-", "Request JSON file, - for stdin")
	flag.Parse()

	args := flag.Args()
	if len(args) != 1 {
		printUsage()
		return cli.ExitInput
	}
	command := args[0]
	if !isCommand(command) {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		return cli.ExitInput
	}

	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return cli.ExitInternal
	}

	// Responses go to stdout, so logs must not
	output := cfg.Log.Output
	if output == "stdout" {
		output = "stderr"
	}
	log, err := logger.NewForEnvironment(cfg.App.Env, cfg.Log.Level, cfg.Log.Format, output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return cli.ExitInternal
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	providers, err := telemetry.Setup(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		Insecure:          cfg.Telemetry.Insecure,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    cfg.App.Version,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		LogsEnabled:       cfg.Telemetry.LogsEnabled,
	}, log)
	if err != nil {
		log.Error("Failed to initialize telemetry", zap.Error(err))
		return cli.ExitInternal
	}
	defer func() {
		if err := providers.Shutdown(context.Background()); err != nil {
			log.Warn("Telemetry shutdown failed", zap.Error(err))
		}
	}()
	log = providers.BridgeLogger(log)

	h, cleanup, err := buildHandler(ctx, cfg, providers, log)
	if err != nil {
		log.Error("Failed to initialize ledger", zap.Error(err))
		return cli.ExitInternal
	}
	defer cleanup()

	handle := commandFunc(h, command)
	ctx, _ = logger.WithRequestID(ctx, log, uuid.NewString())

	body, closeBody, err := openInput(inputPath)
	if err != nil {
		log.Error("Failed to open request", zap.String("path", inputPath), zap.Error(err))
		return cli.ExitInput
	}
	defer closeBody()

	resp := handle(ctx, body)
	if err := resp.Write(os.Stdout); err != nil {
		log.Error("Failed to write response", zap.Error(err))
		return cli.ExitInternal
	}
	return resp.ExitCode()
}

// buildHandler wires the database, commit lock and services behind a cli.Handler
func buildHandler(ctx context.Context, cfg *config.Config, providers *telemetry.Providers, log *zap.Logger) (*cli.Handler, func(), error) {
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))

	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:        "postgresql",
	}, log)

	db, err := persistence.NewDatabase(&cfg.Database,
		persistence.WithGormLogger(gormLog),
		persistence.WithPlugin(dbTracing),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	var rdb *redis.Client
	if cfg.Ledger.CommitLockBackend == config.LockBackendRedis {
		rdb, err = lock.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
	}
	cleanup := func() {
		if rdb != nil {
			if err := rdb.Close(); err != nil {
				log.Warn("Error closing Redis client", zap.Error(err))
			}
		}
		if err := db.Close(); err != nil {
			log.Warn("Error closing database", zap.Error(err))
		}
	}

	locker, err := lock.New(cfg.Ledger, rdb, log)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	metrics, err := telemetry.NewLedgerMetrics(providers.Meter(telemetry.TracerName))
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	scope := persistence.NewGormTransactionScope(db.DB)

	movements := appinventory.NewStockMovementService(scope, log)
	movements.SetMetrics(metrics)

	reconciler := appinventory.NewReconciliationService(scope, log)
	reconciler.SetMetrics(metrics)
	if locker != nil {
		reconciler.SetStoreLocker(locker)
	}

	log.Debug("Ledger initialized",
		zap.String("env", cfg.App.Env),
		zap.String("commit_lock", cfg.Ledger.CommitLockBackend),
	)
	return cli.NewHandler(movements, reconciler, log), cleanup, nil
}

var commands = []string{"issue", "receive", "receive-record", "commit"}

func isCommand(name string) bool {
	for _, c := range commands {
		if c == name {
			return true
		}
	}
	return false
}

func commandFunc(h *cli.Handler, name string) func(context.Context, io.Reader) cli.Response {
	switch name {
	case "issue":
		return h.Issue
	case "receive":
		return h.Receive
	case "receive-record":
		return h.ReceiveRecord
	default:
		return h.Commit
	}
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "" || path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Stock ledger operator tool

Usage:
  ledger [flags] <command> < request.json

Commands:
  issue           Issue stock from a store to a customer or other party
  receive         Receive stock into a store ("with_record": true also creates the receive document)
  receive-record  Create a receive document without touching stock
  commit          Commit a physical inventory count to the ledger

Flags:
  -config string  Path to config.toml
  -in string      Request JSON file, - for stdin (default "-")

The response is written to stdout as JSON. Exit codes:
  0 success, 1 internal error, 2 invalid request, 3 rejected (not found, closed, locked)`)
}
