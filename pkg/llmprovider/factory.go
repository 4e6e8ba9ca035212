package llmprovider

import (
	"fmt"
	"sort"

	"relationship-mediator/pkg/deepseek"
	"relationship-mediator/pkg/gemini"
)

// ProviderSpec describes one provider entry from configuration.
type ProviderSpec struct {
	Name     string
	Enabled  bool
	Priority int
	APIKey   string
	BaseURL  string
	Model    string
}

// BuildProviders constructs adapters for all enabled specs, sorted by priority
// (highest first). Unknown provider names are an error.
func BuildProviders(specs []ProviderSpec) ([]Provider, error) {
	enabled := make([]ProviderSpec, 0, len(specs))
	for _, s := range specs {
		if s.Enabled {
			enabled = append(enabled, s)
		}
	}

	sort.SliceStable(enabled, func(i, j int) bool {
		return enabled[i].Priority > enabled[j].Priority
	})

	providers := make([]Provider, 0, len(enabled))
	for _, s := range enabled {
		p, err := buildProvider(s)
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}

	if len(providers) == 0 {
		return nil, ErrNoProvidersConfigured
	}

	return providers, nil
}

func buildProvider(s ProviderSpec) (Provider, error) {
	switch s.Name {
	case "gemini":
		client, err := gemini.New(gemini.Config{
			APIKey: s.APIKey,
			Model:  s.Model,
			APIURL: s.BaseURL,
		})
		if err != nil {
			return nil, err
		}
		return NewGeminiAdapter(client), nil

	case "deepseek":
		client, err := deepseek.New(deepseek.Config{
			APIKey:  s.APIKey,
			Model:   s.Model,
			BaseURL: s.BaseURL,
		})
		if err != nil {
			return nil, err
		}
		return NewDeepSeekAdapter(client), nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, s.Name)
	}
}
