package main

import (
	"context"
	"fmt"

	"github.com/aashikantkumar/cheifidea/config"
	"github.com/aashikantkumar/cheifidea/internal/logger"
	"github.com/aashikantkumar/cheifidea/internal/service"
	"github.com/aashikantkumar/cheifidea/internal/storage"
)

// app holds the backends shared by every command. Close releases them in
// reverse order of opening.
type app struct {
	cfg     *config.Config
	store   service.Store
	migrate func(ctx context.Context) error
	cache   *storage.RedisCache
	closers []func() error
}

func boot(serviceName string) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.Init(serviceName, cfg.AppEnv)

	a := &app{cfg: cfg}
	switch cfg.StoreDriver {
	case "postgres":
		db := config.MustInitPostgres(cfg.Database)
		store := storage.NewPostgresStore(db)
		a.store, a.migrate = store, store.EnsureSchema
		a.closers = append(a.closers, db.Close)
	case "mongo":
		client := config.MustInitMongo(cfg.Mongo)
		store := storage.NewMongoStore(client, cfg.Mongo.Database)
		a.store, a.migrate = store, store.EnsureIndexes
		a.closers = append(a.closers, func() error { return client.Disconnect(context.Background()) })
	case "memory":
		a.store = storage.NewMemoryStore()
		a.migrate = func(context.Context) error { return nil }
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}

	if cfg.Redis.Enabled {
		client := config.MustInitRedis(cfg.Redis)
		a.cache = storage.NewRedisCache(client, cfg.Redis.MarkerTTL)
		a.closers = append(a.closers, client.Close)
	}
	return a, nil
}

// The service layer checks its caches against nil, so a missing Redis
// must reach it as a nil interface rather than a nil *RedisCache.

func (a *app) reviewCache() service.ReviewCache {
	if a.cache == nil {
		return nil
	}
	return a.cache
}

func (a *app) ratingCache() service.RatingCache {
	if a.cache == nil {
		return nil
	}
	return a.cache
}

func (a *app) analyticsCache() service.AnalyticsCache {
	if a.cache == nil {
		return nil
	}
	return a.cache
}

func (a *app) aggregator() *service.RatingAggregator {
	return service.NewRatingAggregator(a.store, a.store, a.ratingCache())
}

// consumer builds the event consumer. A nil reader gives the inline
// variant used as a publisher when no broker is configured.
func (a *app) consumer(reader service.MessageReader) *service.Consumer {
	return service.NewConsumer(reader, a.aggregator(), a.analyticsCache())
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logger.FromContext(context.Background()).Warn().Err(err).Msg("error closing backend")
		}
	}
}
