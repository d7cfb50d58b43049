package rates

import "context"

type (
	Fetcher interface {
		Fetch(ctx context.Context, dates []Date, currencies []string) ([]DayRates, error)
	}

	Storage interface {
		Store(ctx context.Context, days []DayRates) (int, error)
		Migrate(ctx context.Context) error
		Drop(ctx context.Context) error
		Close() error
		GetStorageProviderName() string
	}

	Service interface {
		Save(ctx context.Context, dates []Date, currencies []string) ([]DayRates, error)
	}
)
