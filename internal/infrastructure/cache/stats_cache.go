package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const versionKey = "deposito:stats:version"

// StatsCache caché versionada: cada clave lleva el número de versión vigente
// e Invalidate incrementa la versión, dejando huérfanas las entradas anteriores (expiran por TTL).
// Un cliente nil desactiva la caché y FetchJSON llama siempre al loader.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatsCache instancia la caché.
func NewStatsCache(client *redis.Client, ttl time.Duration) *StatsCache {
	return &StatsCache{client: client, ttl: ttl}
}

// Version devuelve la versión actual, inicializándola si no existe.
func (c *StatsCache) Version(ctx context.Context) (int64, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}
	ver, err := c.client.Get(ctx, versionKey).Int64()
	if errors.Is(err, redis.Nil) {
		// SETNX: si otro proceso la creó en paralelo se respeta su valor.
		if err := c.client.SetNX(ctx, versionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return c.client.Get(ctx, versionKey).Int64()
	}
	if err != nil {
		return 0, err
	}
	return ver, nil
}

// FetchJSON devuelve el valor cacheado en dest o lo carga con loader y lo guarda.
func (c *StatsCache) FetchJSON(ctx context.Context, key string, dest any, loader func(context.Context) (any, error)) error {
	if loader == nil {
		return errors.New("cache: loader requerido")
	}
	if c == nil || c.client == nil {
		return loadInto(ctx, dest, loader, nil)
	}

	ver, err := c.Version(ctx)
	if err != nil {
		return fmt.Errorf("cache: versión: %w", err)
	}
	versioned := fmt.Sprintf("%s:%d", key, ver)

	payload, err := c.client.Get(ctx, versioned).Bytes()
	if err == nil {
		return json.Unmarshal(payload, dest)
	}
	if !errors.Is(err, redis.Nil) {
		return fmt.Errorf("cache: get: %w", err)
	}
	return loadInto(ctx, dest, loader, func(raw []byte) error {
		return c.client.Set(ctx, versioned, raw, c.ttl).Err()
	})
}

// Invalidate incrementa la versión global.
func (c *StatsCache) Invalidate(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Incr(ctx, versionKey).Err()
}

func loadInto(ctx context.Context, dest any, loader func(context.Context) (any, error), store func([]byte) error) error {
	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if store != nil {
		if err := store(raw); err != nil {
			return fmt.Errorf("cache: set: %w", err)
		}
	}
	return json.Unmarshal(raw, dest)
}
