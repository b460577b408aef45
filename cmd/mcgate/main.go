package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"mcgate/internal/audit"
	"mcgate/internal/config"
	"mcgate/internal/crypto"
	"mcgate/internal/db"
	"mcgate/internal/pipeline"
	"mcgate/internal/registry"
	"mcgate/internal/server"
)

// DefaultConfigPath is used when $MCGATE_CONFIG is unset.
const DefaultConfigPath = "config/mcgate.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := DefaultConfigPath
	if p := os.Getenv("MCGATE_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadServerConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))

	slog.Info("mcgate starting",
		"bind", cfg.BindAddress, "port", cfg.Port, "connection_mode", cfg.ConnectionMode)

	reg, auditSink, closeDB, err := buildStores(ctx, cfg)
	if err != nil {
		return err
	}
	if closeDB != nil {
		defer closeDB()
	}

	slog.Info("generating RSA key pair")
	keyPair, err := crypto.GenerateKeyPair()
	if err != nil {
		return fmt.Errorf("generating RSA key pair: %w", err)
	}

	res := server.NewResources(cfg, keyPair, reg, auditSink)

	addr := fmt.Sprintf("%s:%d", cfg.BindAddress, cfg.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("binding %s: %w", addr, err)
	}
	res.Listener = ln
	slog.Info("listening", "address", ln.Addr())

	go func() {
		<-ctx.Done()
		res.Exit.Set()
	}()

	sched := pipeline.NewScheduler(res, cfg.Workers, cfg.TickRate)
	if err := sched.Run(ctx); err != nil {
		return fmt.Errorf("pipeline scheduler: %w", err)
	}

	slog.Info("shutdown complete")
	return nil
}

// buildStores wires the registry/audit backends: Postgres-backed when the
// config carries a DSN, static/no-op fallback otherwise. The returned close
// function is nil when no database connection was opened.
func buildStores(ctx context.Context, cfg config.ServerConfig) (registry.Provider, audit.Sink, func(), error) {
	dsn := cfg.Database.DSN()
	if dsn == "" {
		slog.Info("no database configured, using static registry and no-op audit sink")
		return registry.NewStaticProvider(), audit.NoopSink{}, nil, nil
	}

	database, err := db.New(ctx, dsn)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := db.RunMigrations(ctx, dsn); err != nil {
		database.Close()
		return nil, nil, nil, fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database migrations applied")

	if err := registry.Seed(ctx, database.Pool()); err != nil {
		database.Close()
		return nil, nil, nil, fmt.Errorf("seeding registry: %w", err)
	}

	reg := registry.NewPostgresProvider(database.Pool())
	auditSink := audit.NewSink(database.Pool())
	return reg, auditSink, database.Close, nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
