package rates_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	rates "github.com/malusev998/privatbank-rates"
)

func mustDate(t *testing.T, s string) rates.Date {
	date, err := rates.ParseDate(s)
	require.NoError(t, err)

	return date
}

func TestRequest_Validate(t *testing.T) {
	asserts := require.New(t)

	for _, days := range []int{1, 5, 10} {
		asserts.NoError(rates.Request{Days: days, Currencies: rates.DefaultCurrencies}.Validate())
	}

	for _, days := range []int{0, 11, -5} {
		err := rates.Request{Days: days, Currencies: rates.DefaultCurrencies}.Validate()
		asserts.True(errors.Is(err, rates.ErrDaysOutOfRange))
	}

	asserts.True(errors.Is(rates.Request{Days: 1}.Validate(), rates.ErrNoCurrencies))
}

func TestDayRates(t *testing.T) {
	t.Parallel()
	date := mustDate(t, "18.10.2026")

	t.Run("EveryRequestedCurrencyIsAKey", func(t *testing.T) {
		asserts := require.New(t)
		day := rates.NewDayRates(date, rates.PrivatBankProvider, []string{"USD", "EUR", "USD"})

		asserts.Equal([]string{"USD", "EUR"}, day.Currencies)
		asserts.Len(day.Rates, 2)
		asserts.Contains(day.Rates, "USD")
		asserts.Contains(day.Rates, "EUR")
		asserts.Nil(day.Rates["USD"])
	})

	t.Run("SetOnlyRequested", func(t *testing.T) {
		asserts := require.New(t)
		day := rates.NewDayRates(date, rates.PrivatBankProvider, []string{"USD"})

		asserts.True(day.Set("USD", rates.Rate{Sale: decimal.RequireFromString("27.5"), Purchase: decimal.RequireFromString("27.0")}))
		asserts.False(day.Set("GBP", rates.Rate{}))
		asserts.NotContains(day.Rates, "GBP")
		asserts.True(day.Rates["USD"].Sale.Equal(decimal.RequireFromString("27.5")))
	})

	t.Run("Records", func(t *testing.T) {
		asserts := require.New(t)
		createdAt := time.Now()
		day := rates.NewDayRates(date, rates.NBUProvider, []string{"USD", "EUR"})
		day.Set("EUR", rates.Rate{Sale: decimal.RequireFromString("30.1"), Purchase: decimal.RequireFromString("29.8")})

		records := day.Records(createdAt)
		asserts.Len(records, 1)
		asserts.Equal("EUR", records[0].Currency)
		asserts.Equal(rates.NBUProvider, records[0].Provider)
		asserts.Equal(createdAt, records[0].CreatedAt)

		failed := rates.FailedDayRates(date, rates.NBUProvider, []string{"EUR"}, errors.New("boom"))
		asserts.Nil(failed.Records(createdAt))
	})
}

func TestDayRates_MarshalJSON(t *testing.T) {
	t.Parallel()
	date := mustDate(t, "18.10.2026")

	t.Run("KeepsRequestOrderAndNulls", func(t *testing.T) {
		asserts := require.New(t)
		day := rates.NewDayRates(date, rates.PrivatBankProvider, []string{"USD", "EUR"})
		day.Set("USD", rates.Rate{Sale: decimal.RequireFromString("27.5"), Purchase: decimal.RequireFromString("27.0")})

		data, err := json.Marshal(day)
		asserts.NoError(err)
		asserts.Equal(`{"18.10.2026":{"USD":{"sale":27.5,"purchase":27},"EUR":null}}`, string(data))
	})

	t.Run("ExactValues", func(t *testing.T) {
		asserts := require.New(t)
		day := rates.NewDayRates(date, rates.PrivatBankProvider, []string{"EUR"})
		day.Set("EUR", rates.Rate{Sale: decimal.RequireFromString("41.12345"), Purchase: decimal.RequireFromString("40.1")})

		data, err := json.Marshal(day)
		asserts.NoError(err)

		decoded := map[string]map[string]map[string]json.Number{}
		asserts.NoError(json.Unmarshal(data, &decoded))
		asserts.Equal(json.Number("41.12345"), decoded["18.10.2026"]["EUR"]["sale"])
		asserts.Equal(json.Number("40.1"), decoded["18.10.2026"]["EUR"]["purchase"])
	})

	t.Run("Failed", func(t *testing.T) {
		asserts := require.New(t)
		day := rates.FailedDayRates(date, rates.PrivatBankProvider, []string{"USD"}, errors.New("server error"))

		data, err := json.Marshal(day)
		asserts.NoError(err)
		asserts.Equal(`{"18.10.2026":{"error":"server error"}}`, string(data))
	})
}
