package services

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	rates "github.com/malusev998/privatbank-rates"
)

type Service struct {
	Fetcher rates.Fetcher
	Storage []rates.Storage
	Logger  *slog.Logger
}

func (f Service) logger() *slog.Logger {
	if f.Logger == nil {
		return slog.Default()
	}

	return f.Logger
}

func (f Service) saveToStorage(ctx context.Context, days []rates.DayRates, storage rates.Storage) error {
	stored, err := storage.Store(ctx, days)

	if err != nil {
		return fmt.Errorf("store rates in %s: %w", storage.GetStorageProviderName(), err)
	}

	f.logger().DebugContext(ctx, "rates stored", "storage", storage.GetStorageProviderName(), "records", stored)

	return nil
}

// Save fetches rates for dates and writes them to every storage.
// The fetched days are returned in the order of dates, also when a storage
// fails. Days are nil only when fetching failed.
func (f Service) Save(ctx context.Context, dates []rates.Date, currencies []string) ([]rates.DayRates, error) {
	days, err := f.Fetcher.Fetch(ctx, dates, currencies)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)

	for _, storage := range f.Storage {
		g.Go(func() error {
			return f.saveToStorage(gctx, days, storage)
		})
	}

	if err := g.Wait(); err != nil {
		return days, err
	}

	return days, nil
}
