package llmprovider

import (
	"context"
	"errors"
	"testing"
	"time"
)

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Debugf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Info(ctx context.Context, arg ...any)                     {}
func (m *mockLogger) Infof(ctx context.Context, template string, arg ...any)   {}
func (m *mockLogger) Warn(ctx context.Context, arg ...any)                     {}
func (m *mockLogger) Warnf(ctx context.Context, template string, arg ...any)   {}
func (m *mockLogger) Error(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Errorf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Fatal(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Fatalf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) DPanic(ctx context.Context, arg ...any)                   {}
func (m *mockLogger) DPanicf(ctx context.Context, template string, arg ...any) {}
func (m *mockLogger) Panic(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Panicf(ctx context.Context, template string, arg ...any)  {}

type fakeProvider struct {
	name  string
	calls int
	fn    func() (*Response, error)
}

func (f *fakeProvider) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	f.calls++
	return f.fn()
}

func (f *fakeProvider) Name() string  { return f.name }
func (f *fakeProvider) Model() string { return f.name + "-model" }

func okResponse(text string) *Response {
	return &Response{Text: text, Usage: &Usage{}}
}

func TestManagerGenerateContent(t *testing.T) {
	cfg := &Config{FallbackEnabled: true, RetryAttempts: 1, RetryDelay: time.Millisecond}

	t.Run("No Providers", func(t *testing.T) {
		m := NewManager(nil, cfg, &mockLogger{})
		_, err := m.GenerateContent(context.Background(), &Request{})
		if !errors.Is(err, ErrNoProvidersConfigured) {
			t.Errorf("expected ErrNoProvidersConfigured, got %v", err)
		}
	})

	t.Run("First Provider Wins", func(t *testing.T) {
		first := &fakeProvider{name: "a", fn: func() (*Response, error) { return okResponse("from-a"), nil }}
		second := &fakeProvider{name: "b", fn: func() (*Response, error) { return okResponse("from-b"), nil }}
		m := NewManager([]Provider{first, second}, cfg, &mockLogger{})

		resp, err := m.GenerateContent(context.Background(), &Request{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Text != "from-a" {
			t.Errorf("expected first provider's response, got %q", resp.Text)
		}
		if second.calls != 0 {
			t.Errorf("second provider should not be called")
		}
	})

	t.Run("Falls Back On Failure", func(t *testing.T) {
		first := &fakeProvider{name: "a", fn: func() (*Response, error) { return nil, errors.New("boom") }}
		second := &fakeProvider{name: "b", fn: func() (*Response, error) { return okResponse("from-b"), nil }}
		m := NewManager([]Provider{first, second}, cfg, &mockLogger{})

		resp, err := m.GenerateContent(context.Background(), &Request{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Text != "from-b" {
			t.Errorf("expected fallback response, got %q", resp.Text)
		}
	})

	t.Run("All Providers Fail", func(t *testing.T) {
		first := &fakeProvider{name: "a", fn: func() (*Response, error) { return nil, errors.New("boom") }}
		m := NewManager([]Provider{first}, cfg, &mockLogger{})

		_, err := m.GenerateContent(context.Background(), &Request{})
		if !errors.Is(err, ErrAllProvidersFailed) {
			t.Errorf("expected ErrAllProvidersFailed, got %v", err)
		}
	})

	t.Run("Fallback Disabled Stops Early", func(t *testing.T) {
		noFallback := &Config{FallbackEnabled: false, RetryAttempts: 1}
		first := &fakeProvider{name: "a", fn: func() (*Response, error) { return nil, errors.New("boom") }}
		second := &fakeProvider{name: "b", fn: func() (*Response, error) { return okResponse("from-b"), nil }}
		m := NewManager([]Provider{first, second}, noFallback, &mockLogger{})

		if _, err := m.GenerateContent(context.Background(), &Request{}); err == nil {
			t.Fatal("expected error")
		}
		if second.calls != 0 {
			t.Errorf("second provider should not be called when fallback is disabled")
		}
	})

	t.Run("Retries Before Fallback", func(t *testing.T) {
		retryCfg := &Config{FallbackEnabled: true, RetryAttempts: 3, RetryDelay: time.Millisecond}
		first := &fakeProvider{name: "a", fn: func() (*Response, error) { return nil, errors.New("boom") }}
		m := NewManager([]Provider{first}, retryCfg, &mockLogger{})

		_, _ = m.GenerateContent(context.Background(), &Request{})
		if first.calls != 3 {
			t.Errorf("expected 3 attempts, got %d", first.calls)
		}
	})
}

func TestBuildProviders(t *testing.T) {
	t.Run("Sorted By Priority", func(t *testing.T) {
		providers, err := BuildProviders([]ProviderSpec{
			{Name: "deepseek", Enabled: true, Priority: 1, APIKey: "k", Model: "m"},
			{Name: "gemini", Enabled: true, Priority: 2, APIKey: "k", Model: "m"},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if providers[0].Name() != "gemini" {
			t.Errorf("expected gemini first, got %s", providers[0].Name())
		}
	})

	t.Run("Disabled Skipped", func(t *testing.T) {
		_, err := BuildProviders([]ProviderSpec{
			{Name: "gemini", Enabled: false, Priority: 1, APIKey: "k"},
		})
		if !errors.Is(err, ErrNoProvidersConfigured) {
			t.Errorf("expected ErrNoProvidersConfigured, got %v", err)
		}
	})

	t.Run("Unknown Provider", func(t *testing.T) {
		_, err := BuildProviders([]ProviderSpec{
			{Name: "mystery", Enabled: true, Priority: 1, APIKey: "k"},
		})
		if !errors.Is(err, ErrUnknownProvider) {
			t.Errorf("expected ErrUnknownProvider, got %v", err)
		}
	})
}
