package fetchers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"

	rates "github.com/malusev998/privatbank-rates"
)

const (
	PrivatBankURL = "https://api.privatbank.ua/p24api/exchange_rates"

	maxBodyBytes = 1 << 20
)

type (
	exchangeRatesResponse struct {
		Date            string              `json:"date,omitempty"`
		Bank            string              `json:"bank,omitempty"`
		BaseCurrency    int                 `json:"baseCurrency,omitempty"`
		BaseCurrencyLit string              `json:"baseCurrencyLit,omitempty"`
		ExchangeRate    []exchangeRateEntry `json:"exchangeRate,omitempty"`
	}

	exchangeRateEntry struct {
		BaseCurrency   *string          `json:"baseCurrency,omitempty"`
		Currency       *string          `json:"currency,omitempty"`
		SaleRateNB     *decimal.Decimal `json:"saleRateNB,omitempty"`
		PurchaseRateNB *decimal.Decimal `json:"purchaseRateNB,omitempty"`
		SaleRate       *decimal.Decimal `json:"saleRate,omitempty"`
		PurchaseRate   *decimal.Decimal `json:"purchaseRate,omitempty"`
	}
)

var (
	ErrClient  = errors.New("client error")
	ErrServer  = errors.New("server error")
	ErrUnknown = errors.New("unknown error")
	ErrDecode  = errors.New("malformed response body")
)

func getData(ctx context.Context, baseURL string, date rates.Date) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)

	if err != nil {
		return nil, err
	}

	req.Header.Add("Accept", "application/json")

	// "json" is a bare flag, url.Values would encode it as "json=".
	req.URL.RawQuery = "json&date=" + url.QueryEscape(date.String())

	return req, nil
}

func handleHTTPStatusCodeError(res *http.Response) error {
	switch {
	case res.StatusCode == http.StatusOK:
		return nil
	case res.StatusCode >= http.StatusBadRequest && res.StatusCode < http.StatusInternalServerError:
		return fmt.Errorf("%w: status %d", ErrClient, res.StatusCode)
	case res.StatusCode >= http.StatusInternalServerError:
		return fmt.Errorf("%w: status %d", ErrServer, res.StatusCode)
	}

	return fmt.Errorf("%w: status %d", ErrUnknown, res.StatusCode)
}

// rate picks the provider's pair of fields. Entries missing any of them are skipped.
func (e exchangeRateEntry) rate(provider rates.Provider) (string, rates.Rate, bool) {
	if e.Currency == nil {
		return "", rates.Rate{}, false
	}

	sale, purchase := e.SaleRate, e.PurchaseRate

	if provider == rates.NBUProvider {
		sale, purchase = e.SaleRateNB, e.PurchaseRateNB
	}

	if sale == nil || purchase == nil {
		return "", rates.Rate{}, false
	}

	return *e.Currency, rates.Rate{Sale: *sale, Purchase: *purchase}, true
}

func (r exchangeRatesResponse) dayRates(date rates.Date, provider rates.Provider, currencies []string) rates.DayRates {
	day := rates.NewDayRates(date, provider, currencies)

	for _, entry := range r.ExchangeRate {
		currency, rate, ok := entry.rate(provider)
		if !ok {
			continue
		}

		day.Set(currency, rate)
	}

	return day
}
