package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"

	"gl-reconciliation-service/internal/config"
	"gl-reconciliation-service/internal/database"
	"gl-reconciliation-service/internal/handlers"
	"gl-reconciliation-service/internal/locking"
	"gl-reconciliation-service/internal/logger"
)

func main() {
	configFile := flag.String("config", ".env", "Path to the env config file")
	migrateCmd := flag.String("migrate", "", "Migration command (up/down/version)")
	steps := flag.Int("steps", 0, "Number of migration steps (0 means all)")
	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	zlog := logger.NewForEnvironment(cfg.Environment, logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	defer zlog.Sync()

	if *migrateCmd != "" {
		if err := handleMigration(cfg, zlog, *migrateCmd, *steps); err != nil {
			zlog.Fatal("migration failed", zap.String("command", *migrateCmd), zap.Error(err))
		}
		return
	}

	db, err := database.NewConnection(cfg, zlog)
	if err != nil {
		zlog.Fatal("error connecting to database", zap.Error(err))
	}
	defer db.Close()

	startCtx, cancelStart := context.WithTimeout(context.Background(), 10*time.Second)
	locker, rdb, err := locking.Connect(startCtx, cfg.Redis, zlog)
	cancelStart()
	if err != nil {
		zlog.Fatal("error connecting to redis", zap.Error(err))
	}
	if rdb != nil {
		defer rdb.Close()
	}

	router := handlers.SetupRouter(db, locker, zlog)

	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		zlog.Info("server is running", zap.String("addr", cfg.ServerAddress), zap.String("environment", cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("http server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	zlog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("server shutdown failed", zap.Error(err))
		return
	}
	zlog.Info("server exited gracefully")
}

func handleMigration(cfg *config.Config, zlog *zap.Logger, command string, steps int) error {
	// creates the database on first run
	db, err := database.NewConnection(cfg, zlog)
	if err != nil {
		return fmt.Errorf("ensure database exists: %w", err)
	}
	db.Close()

	m, err := migrate.New(
		fmt.Sprintf("file://%s", cfg.Migration.Dir),
		cfg.GetMigrationDBURL(),
	)
	if err != nil {
		return fmt.Errorf("initialize migrate: %w", err)
	}
	defer m.Close()

	switch command {
	case "up":
		if steps > 0 {
			err = m.Steps(steps)
		} else {
			err = m.Up()
		}
	case "down":
		if steps > 0 {
			err = m.Steps(-steps)
		} else {
			err = m.Down()
		}
	case "version":
		version, dirty, verErr := m.Version()
		if errors.Is(verErr, migrate.ErrNilVersion) {
			zlog.Info("no migrations have been applied yet")
			return nil
		}
		if verErr != nil {
			return fmt.Errorf("get version: %w", verErr)
		}
		zlog.Info("current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		return nil
	default:
		return fmt.Errorf("invalid migration command: %s", command)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		zlog.Info("no migration changes to apply")
		return nil
	}
	if err != nil {
		return err
	}

	zlog.Info("migration completed", zap.String("command", command), zap.Int("steps", steps))
	return nil
}
