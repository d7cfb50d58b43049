package rates

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

const (
	MinDays = 1
	MaxDays = 10

	DaysOutOfRangeMessage = "Error: Number of days should be between 1 and 10."
)

var (
	DefaultCurrencies = []string{"USD", "EUR"}

	ErrDaysOutOfRange = errors.New("number of days should be between 1 and 10")
	ErrNoCurrencies   = errors.New("at least one currency is required")
)

type (
	Rate struct {
		Sale     decimal.Decimal
		Purchase decimal.Decimal
	}

	// DayRates is the result for one target date. Every requested currency
	// is a key in Rates, nil when the API did not return it.
	DayRates struct {
		Date       Date
		Provider   Provider
		Currencies []string
		Rates      map[string]*Rate
		Err        error
	}

	Request struct {
		Days       int
		Currencies []string
	}

	Record struct {
		Date      Date
		Currency  string
		Provider  Provider
		Sale      decimal.Decimal
		Purchase  decimal.Decimal
		CreatedAt time.Time
	}
)

func (r Request) Validate() error {
	if r.Days < MinDays || r.Days > MaxDays {
		return ErrDaysOutOfRange
	}

	if len(r.Currencies) == 0 {
		return ErrNoCurrencies
	}

	return nil
}

func NewDayRates(date Date, provider Provider, currencies []string) DayRates {
	day := DayRates{
		Date:       date,
		Provider:   provider,
		Currencies: make([]string, 0, len(currencies)),
		Rates:      make(map[string]*Rate, len(currencies)),
	}

	for _, c := range currencies {
		if _, exists := day.Rates[c]; exists {
			continue
		}

		day.Currencies = append(day.Currencies, c)
		day.Rates[c] = nil
	}

	return day
}

func FailedDayRates(date Date, provider Provider, currencies []string, err error) DayRates {
	day := NewDayRates(date, provider, currencies)
	day.Err = err

	return day
}

// Set stores the rate when currency was requested and reports whether it did.
func (d DayRates) Set(currency string, rate Rate) bool {
	if _, requested := d.Rates[currency]; !requested {
		return false
	}

	d.Rates[currency] = &rate

	return true
}

func (d DayRates) Records(createdAt time.Time) []Record {
	if d.Err != nil {
		return nil
	}

	records := make([]Record, 0, len(d.Currencies))

	for _, c := range d.Currencies {
		rate := d.Rates[c]
		if rate == nil {
			continue
		}

		records = append(records, Record{
			Date:      d.Date,
			Currency:  c,
			Provider:  d.Provider,
			Sale:      rate.Sale,
			Purchase:  rate.Purchase,
			CreatedAt: createdAt,
		})
	}

	return records
}

func (r Rate) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Sale     json.Number `json:"sale"`
		Purchase json.Number `json:"purchase"`
	}{
		Sale:     json.Number(r.Sale.String()),
		Purchase: json.Number(r.Purchase.String()),
	})
}

// MarshalJSON encodes {"DD.MM.YYYY": {"CODE": {"sale": S, "purchase": P} | null, ...}}
// keeping currencies in request order. A failed day encodes as {"DD.MM.YYYY": {"error": "..."}}.
func (d DayRates) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	key, err := json.Marshal(d.Date.String())
	if err != nil {
		return nil, err
	}

	buf.WriteByte('{')
	buf.Write(key)
	buf.WriteByte(':')

	if d.Err != nil {
		failure, err := json.Marshal(map[string]string{"error": d.Err.Error()})
		if err != nil {
			return nil, err
		}

		buf.Write(failure)
		buf.WriteByte('}')

		return buf.Bytes(), nil
	}

	buf.WriteByte('{')

	for i, c := range d.Currencies {
		if i > 0 {
			buf.WriteByte(',')
		}

		code, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}

		buf.Write(code)
		buf.WriteByte(':')

		rate := d.Rates[c]
		if rate == nil {
			buf.WriteString("null")
			continue
		}

		value, err := json.Marshal(rate)
		if err != nil {
			return nil, err
		}

		buf.Write(value)
	}

	buf.WriteString("}}")

	return buf.Bytes(), nil
}
