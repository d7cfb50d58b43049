package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	rates "github.com/malusev998/privatbank-rates"
)

type (
	Provider   string
	BaseConfig struct {
		Ctx     context.Context
		Migrate bool
	}
	MySQLConfig struct {
		BaseConfig
		ConnectionString string
		TableName        string
		IDGenerator      IDGenerator
	}
	MongoDBConfig struct {
		BaseConfig
		ConnectionString string
		Database         string
		Collection       string
	}
	PostgresConfig struct {
		BaseConfig
		ConnectionString string
		TableName        string
	}
	RedisConfig struct {
		BaseConfig
		Addr     string
		Password string
		DB       int
		Channel  string
	}
)

const (
	MySQL    Provider = "mysql"
	MongoDB  Provider = "mongodb"
	Postgres Provider = "postgres"
	Redis    Provider = "redis"
)

var (
	ErrStorageNotFound = errors.New("storage is not found")
	ErrInvalidConfig   = errors.New("invalid storage config")
)

func ConvertToProvidersFromStringSlice(strings []string) ([]Provider, error) {
	providers := make([]Provider, 0, len(strings))

	for _, str := range strings {
		provider, err := ConvertToProviderFromString(str)
		if err != nil {
			return nil, err
		}

		providers = append(providers, provider)
	}

	return providers, nil
}

func ConvertToProviderFromString(str string) (Provider, error) {
	switch strings.ToLower(str) {
	case "mysql":
		return MySQL, nil
	case "mongodb", "mongo":
		return MongoDB, nil
	case "postgres", "postgresql":
		return Postgres, nil
	case "redis":
		return Redis, nil
	}

	return "", fmt.Errorf("value %s is not valid Provider", str)
}

func NewStorage(provider Provider, config interface{}) (rates.Storage, error) {
	switch provider {
	case MySQL:
		c, ok := config.(MySQLConfig)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrInvalidConfig, provider)
		}
		return NewMySQLStorage(c)
	case MongoDB:
		c, ok := config.(MongoDBConfig)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrInvalidConfig, provider)
		}
		return NewMongoStorage(c)
	case Postgres:
		c, ok := config.(PostgresConfig)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrInvalidConfig, provider)
		}
		return NewPostgresStorage(c)
	case Redis:
		c, ok := config.(RedisConfig)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrInvalidConfig, provider)
		}
		return NewRedisStorage(c)
	}

	return nil, ErrStorageNotFound
}

func (c BaseConfig) context() context.Context {
	if c.Ctx == nil {
		return context.Background()
	}

	return c.Ctx
}

func records(days []rates.DayRates, createdAt time.Time) []rates.Record {
	result := make([]rates.Record, 0, len(days))

	for _, day := range days {
		result = append(result, day.Records(createdAt)...)
	}

	return result
}
