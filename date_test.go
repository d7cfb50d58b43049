package rates_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	rates "github.com/malusev998/privatbank-rates"
)

func TestLastDays(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, time.March, 2, 23, 59, 0, 0, time.UTC)

	t.Run("DistinctDaysNewestFirst", func(t *testing.T) {
		asserts := require.New(t)
		dates := rates.LastDays(now, 3)

		asserts.Len(dates, 3)
		asserts.Equal("02.03.2024", dates[0].String())
		asserts.Equal("01.03.2024", dates[1].String())
		asserts.Equal("29.02.2024", dates[2].String())
	})

	t.Run("EveryValidRange", func(t *testing.T) {
		asserts := require.New(t)

		for days := rates.MinDays; days <= rates.MaxDays; days++ {
			dates := rates.LastDays(now, days)
			asserts.Len(dates, days)

			seen := make(map[string]struct{}, days)
			for _, d := range dates {
				seen[d.String()] = struct{}{}
				asserts.Regexp(`^\d{2}\.\d{2}\.\d{4}$`, d.String())
			}
			asserts.Len(seen, days)
		}
	})

	t.Run("UsesLocationOfNow", func(t *testing.T) {
		asserts := require.New(t)
		kyiv := time.FixedZone("EET", 2*60*60)

		dates := rates.LastDays(time.Date(2024, time.March, 2, 23, 30, 0, 0, time.UTC).In(kyiv), 1)
		asserts.Equal("03.03.2024", dates[0].String())
	})
}

func TestDate_JSON(t *testing.T) {
	asserts := require.New(t)

	date, err := rates.ParseDate("18.10.2026")
	asserts.NoError(err)

	data, err := json.Marshal(date)
	asserts.NoError(err)
	asserts.Equal(`"18.10.2026"`, string(data))

	var decoded rates.Date
	asserts.NoError(json.Unmarshal(data, &decoded))
	asserts.True(date.Equal(decoded.Time))

	_, err = rates.ParseDate("2026-10-18")
	asserts.Error(err)
}
