package main // Entry point package

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/iliyamo/flight-reservation/internal/app"
	"github.com/iliyamo/flight-reservation/internal/config"
	"github.com/iliyamo/flight-reservation/internal/handler"
	"github.com/iliyamo/flight-reservation/internal/middleware"
	"github.com/iliyamo/flight-reservation/internal/queue"
	"github.com/iliyamo/flight-reservation/internal/router"
	"github.com/iliyamo/flight-reservation/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err == nil {
		err = cfg.ValidateServer()
	}
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := app.NewLogger(cfg.LogDev)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("startup failed", zap.Error(err))
	}
	defer a.Close()

	if cfg.EventsEnabled {
		consumer := queue.NewConsumer(cfg.BrokerURL(), queue.NewAuditLog(cfg.AuditLogPath), logger.Named("consumer"))
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("reservation consumer stopped", zap.Error(err))
			}
		}()
	}

	sessions := session.NewRegistry(cfg.SessionTTL())
	go sweep(ctx, sessions, logger)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), a.Redis)
	router.RegisterRoutes(e, a.DB)
	router.RegisterBooking(e, handler.NewBookingHandler(a.Engine, sessions, cfg.JWTSecret, cfg.SessionTTL()), cfg.JWTSecret, limiter)

	addr := ":" + cfg.Port
	logger.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env),
		zap.String("driver", cfg.DBDriver), zap.Bool("redis", a.Redis != nil), zap.Bool("events", cfg.EventsEnabled))

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

// sweep drops idle sessions once a minute until ctx ends.
func sweep(ctx context.Context, sessions *session.Registry, logger *zap.Logger) {
	t := time.NewTicker(time.Minute)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := sessions.Sweep(); n > 0 {
				logger.Debug("expired sessions dropped", zap.Int("count", n))
			}
		}
	}
}
