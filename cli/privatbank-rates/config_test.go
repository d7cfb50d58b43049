package main

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/malusev998/privatbank-rates/storage"
)

func TestGetConfig(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)
	v := viper.New()
	setStorageDefaults(v)

	v.Set("storage", []string{"mysql", "postgresql", "redis"})
	v.Set("migrate", true)
	v.Set("databases.mysql.user", "rates")
	v.Set("databases.mysql.password", "secret")
	v.Set("databases.mysql.db", "ratesdb")
	v.Set("databases.postgres.dsn", "postgres://rates@localhost:5432/rates")
	v.Set("redis.db", 2)

	config, err := getConfig(context.Background(), v)
	asserts.NoError(err)
	asserts.Equal([]storage.Provider{storage.MySQL, storage.Postgres, storage.Redis}, config.Storage)

	mysqlConfig := config.StorageConfig[storage.MySQL].(storage.MySQLConfig)
	asserts.True(mysqlConfig.Migrate)
	asserts.Equal("rates:secret@tcp(localhost:3306)/ratesdb?parseTime=true", mysqlConfig.ConnectionString)
	asserts.Equal("exchange_rates", mysqlConfig.TableName)

	postgresConfig := config.StorageConfig[storage.Postgres].(storage.PostgresConfig)
	asserts.Equal("postgres://rates@localhost:5432/rates", postgresConfig.ConnectionString)

	redisConfig := config.StorageConfig[storage.Redis].(storage.RedisConfig)
	asserts.Equal("localhost:6379", redisConfig.Addr)
	asserts.Equal(2, redisConfig.DB)
	asserts.Equal(storage.DefaultRedisChannel, redisConfig.Channel)

	mongoConfig := config.StorageConfig[storage.MongoDB].(storage.MongoDBConfig)
	asserts.Equal("privatbank_rates", mongoConfig.Database)
}

func TestGetConfig_UnknownStorage(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)
	v := viper.New()
	v.Set("storage", []string{"sqlite"})

	config, err := getConfig(context.Background(), v)
	asserts.Nil(config)
	asserts.Error(err)
}

func TestCreateConfig_WithoutStorage(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)

	config, err := createConfig(context.Background(), viper.New(), slog.Default())
	asserts.NoError(err)
	asserts.Empty(config.Storage)
}

func TestCreateStorages_MissingConfig(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)

	storages, err := createStorages(&Config{
		Storage:       []storage.Provider{storage.Redis},
		StorageConfig: StorageConfig{storage.MySQL: storage.MySQLConfig{}},
	}, slog.Default())

	asserts.Nil(storages)
	asserts.Error(err)
	asserts.False(errors.Is(err, storage.ErrInvalidConfig))
	asserts.Equal("storage redis does not exist", err.Error())
}
