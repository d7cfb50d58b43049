package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	rates "github.com/malusev998/privatbank-rates"
)

const DefaultRedisChannel = "privatbank_rates"

// redisStorage publishes every fetched day on a channel. Nothing is kept in redis.
type redisStorage struct {
	rdb     *redis.Client
	channel string
}

func NewRedisStorage(c RedisConfig) (rates.Storage, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     c.Addr,
		Password: c.Password,
		DB:       c.DB,
	})

	if err := client.Ping(c.context()).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	channel := c.Channel
	if channel == "" {
		channel = DefaultRedisChannel
	}

	return redisStorage{rdb: client, channel: channel}, nil
}

func (r redisStorage) Store(ctx context.Context, days []rates.DayRates) (int, error) {
	published := 0

	for _, day := range days {
		if day.Err != nil {
			continue
		}

		payload, err := json.Marshal(day)
		if err != nil {
			return published, fmt.Errorf("marshal %s: %w", day.Date, err)
		}

		if err := r.rdb.Publish(ctx, r.channel, payload).Err(); err != nil {
			return published, fmt.Errorf("publish %s: %w", day.Date, err)
		}

		published++
	}

	return published, nil
}

func (r redisStorage) Migrate(ctx context.Context) error {
	return nil
}

func (r redisStorage) Drop(ctx context.Context) error {
	return nil
}

func (r redisStorage) Close() error {
	return r.rdb.Close()
}

func (r redisStorage) GetStorageProviderName() string {
	return string(Redis)
}
