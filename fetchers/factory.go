package fetchers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	rates "github.com/malusev998/privatbank-rates"
)

var ErrFetcherNotFound = errors.New("fetcher is not found")

type Config struct {
	URL       string
	Client    *http.Client
	Logger    *slog.Logger
	KeepGoing bool
}

// NewFetcher returns the fetcher for provider. PrivatBank and NBU rates come
// from the same endpoint and differ only in the fields that are read.
func NewFetcher(provider rates.Provider, config Config) (rates.Fetcher, error) {
	switch provider {
	case rates.PrivatBankProvider, rates.NBUProvider:
		return PrivatBankFetcher{
			URL:       config.URL,
			Provider:  provider,
			Client:    config.Client,
			Logger:    config.Logger,
			KeepGoing: config.KeepGoing,
		}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrFetcherNotFound, provider)
}
