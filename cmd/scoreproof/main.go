package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/turbo-ing/2048-scoreproof/api"
	"github.com/turbo-ing/2048-scoreproof/internal/config"
	"github.com/turbo-ing/2048-scoreproof/internal/database"
	"github.com/turbo-ing/2048-scoreproof/internal/scoreboard"
	"github.com/turbo-ing/2048-scoreproof/internal/verifier"
	"github.com/turbo-ing/2048-scoreproof/pkg/logger"
	"github.com/turbo-ing/2048-scoreproof/pkg/metrics"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	cfg := config.LoadConfig()

	zapLogger, err := logger.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := database.New(cfg.DBDriver, cfg.DBDSN, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns, cfg.DBConnMaxLife)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		zapLogger.Fatal("Failed to run migrations", zap.Error(err))
	}
	if err := database.SeedScoreLadder(db); err != nil {
		zapLogger.Fatal("Failed to seed score ladder", zap.Error(err))
	}

	groth16Verifier, err := verifier.NewGroth16Verifier(zapLogger, cfg.VerifyingKeyPath)
	if err != nil {
		zapLogger.Fatal("Failed to load verifying key", zap.Error(err))
	}

	scoreboardSvc := scoreboard.NewService(zapLogger, db, groth16Verifier)
	server := api.NewServer(zapLogger, db, scoreboardSvc, cfg.MaxProofBytes)

	// DB pool gauges every 30s
	poolTicker := time.NewTicker(30 * time.Second)
	defer poolTicker.Stop()
	go func() {
		for range poolTicker.C {
			if sqlDB, err := db.DB(); err == nil {
				stats := sqlDB.Stats()
				metrics.DBOpenConns.Set(float64(stats.OpenConnections))
				metrics.DBInUseConns.Set(float64(stats.InUse))
			}
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(cfg.ServerAddr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		zapLogger.Fatal("Server failed", zap.Error(err))
	case sig := <-quit:
		zapLogger.Info("Shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		zapLogger.Error("Graceful shutdown failed", zap.Error(err))
	}
}
