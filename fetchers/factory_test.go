package fetchers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	rates "github.com/malusev998/privatbank-rates"
)

func TestNewFetcher(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)

	for _, provider := range []rates.Provider{rates.PrivatBankProvider, rates.NBUProvider} {
		fetcher, err := NewFetcher(provider, Config{URL: "http://localhost", KeepGoing: true})

		asserts.NoError(err)
		asserts.IsType(PrivatBankFetcher{}, fetcher)
		asserts.Equal(provider, fetcher.(PrivatBankFetcher).Provider)
		asserts.True(fetcher.(PrivatBankFetcher).KeepGoing)
	}

	fetcher, err := NewFetcher(rates.Provider("Monobank"), Config{})
	asserts.Nil(fetcher)
	asserts.True(errors.Is(err, ErrFetcherNotFound))
}
