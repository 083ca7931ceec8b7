// Package app assembles the booking engine and its supporting services
// from configuration.  Both the HTTP server and the command loop start
// from here.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/flight-reservation/internal/booking"
	"github.com/iliyamo/flight-reservation/internal/cache"
	"github.com/iliyamo/flight-reservation/internal/config"
	"github.com/iliyamo/flight-reservation/internal/database"
	queue_publisher "github.com/iliyamo/flight-reservation/internal/service"
	"github.com/iliyamo/flight-reservation/internal/utils"
)

// App owns the store handle, the optional redis client and the engine
// built on top of them.
type App struct {
	DB     *sql.DB
	Redis  *redis.Client // nil when redis is unreachable
	Engine *booking.Engine
}

// NewLogger builds a production JSON logger, or a colored console logger
// when dev is set.
func NewLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// OpenStore opens and bootstraps the store selected by cfg.DBDriver.
func OpenStore(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	var (
		db      *sql.DB
		dialect database.Dialect
		err     error
	)
	switch cfg.DBDriver {
	case "mysql":
		dialect = database.MySQL
		db, err = database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	default:
		dialect = database.SQLite
		if dir := filepath.Dir(cfg.DBPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create store dir: %w", err)
			}
		}
		db, err = database.OpenSQLite(cfg.DBPath)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.DBDriver, err)
	}
	if err := database.Bootstrap(ctx, db, dialect); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap schema: %w", err)
	}
	return db, nil
}

// New wires the engine for cfg: coordinator settings, password encoding,
// the redis search cache when reachable and the event publisher when
// events are enabled.
func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	db, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	coord := database.NewCoordinator(db,
		database.WithMaxAttempts(cfg.TxMaxAttempts),
		database.WithRetryBase(cfg.TxRetryBase),
		database.WithLogger(log.Named("tx")),
	)
	opts := []booking.Option{
		booking.WithPasswordEncoder(utils.NewPasswordEncoder(cfg.PasswordIter, cfg.PasswordPepper)),
		booking.WithOneBookingPerDay(cfg.OneBookingPerDay),
		booking.WithLogger(log.Named("booking")),
	}

	rdb := config.NewRedisClient()
	if sc := cache.NewSearchCache(config.LoadSearchCacheConfig(), rdb, log.Named("cache")); sc != nil {
		opts = append(opts, booking.WithSearchCache(sc))
	}
	if cfg.EventsEnabled {
		opts = append(opts, booking.WithEventPublisher(queue_publisher.New(cfg.BrokerURL(), log.Named("events"))))
	}

	return &App{DB: db, Redis: rdb, Engine: booking.New(coord, opts...)}, nil
}

// Close releases the store and redis connections.
func (a *App) Close() {
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	_ = a.DB.Close()
}
