package main

import (
	"context"

	"github.com/go-sql-driver/mysql"
	"github.com/spf13/viper"

	"github.com/malusev998/privatbank-rates/storage"
)

type (
	StorageConfig map[storage.Provider]interface{}
	Config        struct {
		Storage       []storage.Provider
		StorageConfig StorageConfig
	}
)

// Nested keys are read one by one so PRIVATBANK_RATES_DATABASES_* env vars apply.
func getMysqlDSN(v *viper.Viper) string {
	mysqlDriverConfig := mysql.NewConfig()
	mysqlDriverConfig.User = v.GetString("databases.mysql.user")
	mysqlDriverConfig.Passwd = v.GetString("databases.mysql.password")
	mysqlDriverConfig.Addr = v.GetString("databases.mysql.addr")
	mysqlDriverConfig.Net = "tcp"
	mysqlDriverConfig.DBName = v.GetString("databases.mysql.db")
	mysqlDriverConfig.ParseTime = true

	return mysqlDriverConfig.FormatDSN()
}

func getConfig(ctx context.Context, v *viper.Viper) (*Config, error) {
	storages, err := storage.ConvertToProvidersFromStringSlice(v.GetStringSlice("storage"))
	if err != nil {
		return nil, err
	}

	storageBaseConfig := storage.BaseConfig{
		Ctx:     ctx,
		Migrate: v.GetBool("migrate"),
	}

	return &Config{
		Storage: storages,
		StorageConfig: StorageConfig{
			storage.MySQL: storage.MySQLConfig{
				BaseConfig:       storageBaseConfig,
				ConnectionString: getMysqlDSN(v),
				TableName:        v.GetString("databases.mysql.table"),
			},
			storage.MongoDB: storage.MongoDBConfig{
				BaseConfig:       storageBaseConfig,
				ConnectionString: v.GetString("databases.mongodb.uri"),
				Database:         v.GetString("databases.mongodb.db"),
				Collection:       v.GetString("databases.mongodb.collection"),
			},
			storage.Postgres: storage.PostgresConfig{
				BaseConfig:       storageBaseConfig,
				ConnectionString: v.GetString("databases.postgres.dsn"),
				TableName:        v.GetString("databases.postgres.table"),
			},
			storage.Redis: storage.RedisConfig{
				BaseConfig: storageBaseConfig,
				Addr:       v.GetString("redis.addr"),
				Password:   v.GetString("redis.password"),
				DB:         v.GetInt("redis.db"),
				Channel:    v.GetString("redis.channel"),
			},
		},
	}, nil
}

func setStorageDefaults(v *viper.Viper) {
	v.SetDefault("databases.mysql.addr", "localhost:3306")
	v.SetDefault("databases.mysql.table", "exchange_rates")
	v.SetDefault("databases.mongodb.uri", "mongodb://localhost:27017")
	v.SetDefault("databases.mongodb.db", "privatbank_rates")
	v.SetDefault("databases.mongodb.collection", "exchange_rates")
	v.SetDefault("databases.postgres.table", "exchange_rates")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.channel", storage.DefaultRedisChannel)
}
