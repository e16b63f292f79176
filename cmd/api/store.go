package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
	"github.com/jhoicas/inventory-tracker/internal/infrastructure/pocketbase"
	"github.com/jhoicas/inventory-tracker/internal/infrastructure/postgres"
	"github.com/jhoicas/inventory-tracker/internal/infrastructure/redisbus"
	"github.com/jhoicas/inventory-tracker/pkg/config"
	"github.com/jhoicas/inventory-tracker/pkg/logger"
)

// store agrupa los adaptadores del driver elegido.
type store struct {
	items      repository.ItemRepository
	locations  repository.StorageLocationRepository
	changes    repository.StockChangeRepository
	users      repository.UserRepository
	subscriber repository.RealtimeSubscriber
	identity   repository.IdentityProvider
	close      func()
}

func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (*store, error) {
	switch cfg.Store.Driver {
	case config.DriverPocketBase:
		return openPocketBase(cfg, log), nil
	case config.DriverPostgres:
		return openPostgres(ctx, cfg, log)
	}
	return nil, fmt.Errorf("driver desconocido %q", cfg.Store.Driver)
}

// openPocketBase: REST + SSE del backend hospedado; el token de cada petición viaja en el contexto.
func openPocketBase(cfg *config.Config, log *logger.Logger) *store {
	client := pocketbase.NewClient(pocketbase.Config{
		BaseURL:      cfg.Backend.URL,
		ServiceToken: cfg.Backend.Token,
		Timeout:      cfg.Backend.Timeout,
		EventBuffer:  cfg.Realtime.Buffer,
	}, log)
	return &store{
		items:      pocketbase.NewItemRepo(client),
		locations:  pocketbase.NewStorageLocationRepo(client),
		changes:    pocketbase.NewStockChangeRepo(client),
		users:      pocketbase.NewUserRepo(client),
		subscriber: pocketbase.NewSubscriber(client),
		identity:   pocketbase.NewIdentity(client),
		close:      func() {},
	}
}

// openPostgres: PostgreSQL para las colecciones y Redis pub/sub para los eventos realtime.
func openPostgres(ctx context.Context, cfg *config.Config, log *logger.Logger) (*store, error) {
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		pool.Close()
		_ = rdb.Close()
		return nil, fmt.Errorf("conexión a Redis: %w", err)
	}

	bus := redisbus.New(rdb, cfg.Realtime.Buffer, log)
	events := postgres.NewEmitter(bus, log)
	users := postgres.NewUserRepository(pool, events)
	return &store{
		items:      postgres.NewItemRepository(pool, events),
		locations:  postgres.NewStorageLocationRepository(pool, events),
		changes:    postgres.NewStockChangeRepository(pool, events),
		users:      users,
		subscriber: bus,
		identity:   postgres.NewIdentity(users, cfg.JWT.Secret),
		close: func() {
			_ = rdb.Close()
			pool.Close()
		},
	}, nil
}
