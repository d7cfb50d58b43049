package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/viper"

	rates "github.com/malusev998/privatbank-rates"
	"github.com/malusev998/privatbank-rates/cli/cmd"
	"github.com/malusev998/privatbank-rates/storage"
)

func createStorages(config *Config, logger *slog.Logger) ([]rates.Storage, error) {
	storages := make([]rates.Storage, 0, len(config.Storage))

	for _, s := range config.Storage {
		c, ok := config.StorageConfig[s]
		if !ok {
			closeAll(storages)
			return nil, fmt.Errorf("storage %s does not exist", s)
		}

		st, err := storage.NewStorage(s, c)
		if err != nil {
			closeAll(storages)
			return nil, fmt.Errorf("create %s storage: %w", s, err)
		}

		logger.Debug("storage ready", "storage", st.GetStorageProviderName())
		storages = append(storages, st)
	}

	return storages, nil
}

func closeAll(storages []rates.Storage) {
	for _, st := range storages {
		_ = st.Close()
	}
}

func createConfig(ctx context.Context, v *viper.Viper, logger *slog.Logger) (*cmd.Config, error) {
	setStorageDefaults(v)

	config, err := getConfig(ctx, v)
	if err != nil {
		return nil, err
	}

	storages, err := createStorages(config, logger)
	if err != nil {
		return nil, err
	}

	return &cmd.Config{Storage: storages}, nil
}
