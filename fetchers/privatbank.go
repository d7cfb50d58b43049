package fetchers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	rates "github.com/malusev998/privatbank-rates"
)

type PrivatBankFetcher struct {
	URL      string
	Provider rates.Provider
	Client   *http.Client
	Logger   *slog.Logger

	// KeepGoing records a failed date in its DayRates instead of failing the batch.
	KeepGoing bool
}

func (p PrivatBankFetcher) url() string {
	if p.URL == "" {
		return PrivatBankURL
	}

	return p.URL
}

func (p PrivatBankFetcher) provider() rates.Provider {
	if p.Provider == rates.EmptyProvider {
		return rates.PrivatBankProvider
	}

	return p.Provider
}

func (p PrivatBankFetcher) client() *http.Client {
	if p.Client == nil {
		return http.DefaultClient
	}

	return p.Client
}

func (p PrivatBankFetcher) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.Default()
	}

	return p.Logger
}

func (p PrivatBankFetcher) FetchDay(ctx context.Context, date rates.Date, currencies []string) (rates.DayRates, error) {
	req, err := getData(ctx, p.url(), date)

	if err != nil {
		return rates.DayRates{}, fmt.Errorf("new request for %s: %w", date, err)
	}

	p.logger().DebugContext(ctx, "fetching exchange rates", "date", date.String(), "url", req.URL.String())

	res, err := p.client().Do(req)

	if err != nil {
		return rates.DayRates{}, fmt.Errorf("fetch rates for %s: %w", date, err)
	}

	defer func() { _ = res.Body.Close() }()

	p.logger().DebugContext(ctx, "exchange rates response", "date", date.String(), "status", res.StatusCode)

	if err := handleHTTPStatusCodeError(res); err != nil {
		return rates.DayRates{}, fmt.Errorf("fetch rates for %s: %w", date, err)
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))

	if err != nil {
		return rates.DayRates{}, fmt.Errorf("read response for %s: %w", date, err)
	}

	var data exchangeRatesResponse

	if err := json.Unmarshal(body, &data); err != nil {
		return rates.DayRates{}, fmt.Errorf("%w for %s: %v", ErrDecode, date, err)
	}

	return data.dayRates(date, p.provider(), currencies), nil
}

// Fetch requests every date concurrently. Results keep the order of dates.
func (p PrivatBankFetcher) Fetch(ctx context.Context, dates []rates.Date, currencies []string) ([]rates.DayRates, error) {
	results := make([]rates.DayRates, len(dates))
	g, gctx := errgroup.WithContext(ctx)

	for i, date := range dates {
		g.Go(func() error {
			day, err := p.FetchDay(gctx, date, currencies)

			if err != nil {
				if !p.KeepGoing {
					return err
				}

				p.logger().WarnContext(gctx, "exchange rates unavailable", "date", date.String(), "error", err)
				day = rates.FailedDayRates(date, p.provider(), currencies, err)
			}

			results[i] = day

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
