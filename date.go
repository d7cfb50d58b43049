package rates

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the DD.MM.YYYY layout used by the PrivatBank API.
const DateLayout = "02.01.2006"

type Date struct{ time.Time }

// NewDate truncates t to midnight in t's location.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()

	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, t.Location())}
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}

	return Date{Time: t}, nil
}

// LastDays returns the calendar days ending with the day of now, newest first.
func LastDays(now time.Time, days int) []Date {
	today := NewDate(now)
	dates := make([]Date, 0, days)

	for day := 0; day < days; day++ {
		dates = append(dates, Date{Time: today.AddDate(0, 0, -day)})
	}

	return dates
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}

	*d = parsed

	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("parse date: %w", err)
	}

	return d.UnmarshalText([]byte(s))
}
