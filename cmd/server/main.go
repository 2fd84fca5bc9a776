package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/NeuralStories/cortinas-presupuesto/internal/api"
	"github.com/NeuralStories/cortinas-presupuesto/internal/config"
	"github.com/NeuralStories/cortinas-presupuesto/internal/domain/materials"
	"github.com/NeuralStories/cortinas-presupuesto/internal/domain/orders"
	"github.com/NeuralStories/cortinas-presupuesto/internal/infra/db"
	"github.com/NeuralStories/cortinas-presupuesto/internal/infra/httpx"
	"github.com/NeuralStories/cortinas-presupuesto/internal/infra/logger"
	"github.com/NeuralStories/cortinas-presupuesto/internal/infra/notify"
	"github.com/NeuralStories/cortinas-presupuesto/internal/quote"
	"github.com/NeuralStories/cortinas-presupuesto/internal/seed"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

func runMigrations(dsn string, log *slog.Logger) error {
	sqlDB, err := goose.OpenDBWithDriver("postgres", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Up(sqlDB, "migrations")
}

func main() {
	cfg, err := config.Load("config/example.yaml")
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.App.Env)

	if err := runMigrations(cfg.Postgres.DSN, log); err != nil {
		log.Error("migrations failed", "err", err)
		return
	}
	log.Info("migrations applied")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Error("db connect failed", "err", err)
		return
	}
	defer pool.Close()
	log.Info("db connected")

	materialsRepo := materials.NewRepo(pool)
	ordersRepo := orders.NewRepo(pool)

	if err := seed.Run(ctx, materialsRepo, log); err != nil {
		log.Error("catalog seed failed", "err", err)
		return
	}

	notifier, err := notify.New(cfg.Telegram.Token, cfg.Telegram.AdminChatID, log)
	if err != nil {
		log.Error("telegram connect failed", "err", err)
		return
	}

	engine := quote.NewEngine(quote.Rules{
		MinimumUnits:    cfg.Quote.MinimumUnits,
		MaxHeightCm:     cfg.Quote.MaxHeightCm,
		HidePriceUnits:  cfg.Quote.HidePriceUnits,
		HidePriceAmount: cfg.Quote.HidePriceAmount,
	})

	handler := api.NewHandler(log, engine, materialsRepo, ordersRepo, notifier)
	go handler.SweepSessions(ctx)

	srv := httpx.New(cfg.HTTP.Addr, cfg.Metrics.Enabled, handler)
	go func() {
		if err := srv.Start(); err != nil && err.Error() != "http: Server closed" {
			log.Error("http server error", "err", err)
		}
	}()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("graceful shutdown complete")
}
