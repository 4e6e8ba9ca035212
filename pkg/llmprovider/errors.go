package llmprovider

import "errors"

var (
	// ErrNoProvidersConfigured indicates the manager has no providers to try.
	ErrNoProvidersConfigured = errors.New("no LLM providers configured")

	// ErrAllProvidersFailed indicates every provider in the fallback chain failed.
	ErrAllProvidersFailed = errors.New("all LLM providers failed")

	// ErrUnknownProvider indicates a provider name with no registered adapter.
	ErrUnknownProvider = errors.New("unknown LLM provider")
)
