package rates

import (
	"fmt"
	"strings"
)

// Provider names whose rates are taken from an exchange_rates entry.
// PrivatBank uses saleRate/purchaseRate, NBU uses saleRateNB/purchaseRateNB.
type Provider string

const (
	PrivatBankProvider Provider = "PrivatBank"
	NBUProvider        Provider = "NBU"
	EmptyProvider      Provider = ""
)

func ConvertToProvidersFromStringSlice(strings []string) ([]Provider, error) {
	providers := make([]Provider, 0, len(strings))

	for _, str := range strings {
		provider, err := ConvertToProviderFromString(str)
		if err != nil {
			return nil, err
		}

		providers = append(providers, provider)
	}

	return providers, nil
}

func ConvertToProviderFromString(str string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "privatbank":
		return PrivatBankProvider, nil
	case "nbu":
		return NBUProvider, nil
	}

	return EmptyProvider, fmt.Errorf("value %s is not valid Provider", str)
}

func (p *Provider) UnmarshalText(text []byte) error {
	provider, err := ConvertToProviderFromString(string(text))

	if err != nil {
		return err
	}

	*p = provider

	return nil
}

func (p Provider) MarshalText() ([]byte, error) {
	return []byte(p), nil
}
