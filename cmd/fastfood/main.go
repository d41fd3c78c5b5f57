// Package main запускает HTTP-сервер сервиса заказов FastFood.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mmeshcher/fastfood/internal/config"
	"github.com/mmeshcher/fastfood/internal/events"
	"github.com/mmeshcher/fastfood/internal/handler"
	"github.com/mmeshcher/fastfood/internal/idempotency"
	"github.com/mmeshcher/fastfood/internal/middleware"
	"github.com/mmeshcher/fastfood/internal/model"
	"github.com/mmeshcher/fastfood/internal/repository"
	"github.com/mmeshcher/fastfood/internal/service"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	repo, err := repository.NewPostgresRepository(cfg.DatabaseURI)
	if err != nil {
		sugar.Fatalw("database initialization error", "error", err.Error())
	}

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		sugar.Infow("publishing order events", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	svc := service.NewService(repo, publisher, service.Options{
		PrepPerOrder: cfg.PrepPerOrder(),
		Policy:       model.FeaturePolicy{Delivery: cfg.DeliveryEnabled},
		DeliveryFee: model.DeliveryFeeFunc{
			Base:  cfg.DeliveryBaseFee,
			PerKm: cfg.DeliveryCostPerKm,
			Min:   cfg.DeliveryMinFee,
		},
		Logger: logger,
	})
	defer svc.Close()

	if cfg.JWTSecret == "" {
		sugar.Warn("JWT_SECRET is empty, tokens will not survive a restart")
	}
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTSecret)

	opts := []handler.Option{handler.WithCORSOrigins(cfg.CORSOrigins)}
	if cfg.RedisAddress != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddress})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			sugar.Warnw("redis is unavailable, idempotency keys are not enforced until it recovers", "error", err.Error())
		}
		cancel()

		opts = append(opts, handler.WithIdempotency(idempotency.NewRedisStore(rdb, cfg.IdempotencyTTL)))
	}

	h := handler.NewHandler(svc, logger, authMiddleware, opts...)

	r := h.SetupRouter()

	server := &http.Server{
		Addr:              cfg.RunAddress,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// Запуск HTTP-сервера
	g.Go(func() error {
		sugar.Infow("starting fastfood server",
			"addr", cfg.RunAddress,
			"delivery", cfg.DeliveryEnabled,
			"prepPerOrder", cfg.PrepPerOrder().String(),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown при отмене контекста (сигнал или ошибка в другой горутине)
	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		sugar.Info("server stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}
