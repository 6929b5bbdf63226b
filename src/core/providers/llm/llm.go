package llm

import (
	"context"
	"fmt"

	"github.com/samadjamali123/FloraGuard/src/core/providers"
)

// Config holds the settings for a text-completion provider.
type Config struct {
	Type        string
	ModelName   string
	BaseURL     string
	APIKey      string
	Temperature float64
	MaxTokens   int
	TopP        float64
}

// Provider is a plain text-completion model. Chat returns the full reply or
// an error; callers that treat the call as best-effort (the explanation
// enricher) decide themselves whether to swallow the error.
type Provider interface {
	providers.Provider
	Chat(ctx context.Context, messages []providers.Message) (string, error)
}

// BaseProvider carries the config for concrete implementations.
type BaseProvider struct {
	config *Config
}

// Config returns the provider configuration.
func (p *BaseProvider) Config() *Config {
	return p.config
}

func NewBaseProvider(config *Config) *BaseProvider {
	return &BaseProvider{
		config: config,
	}
}

// Initialize is a no-op for the base provider.
func (p *BaseProvider) Initialize() error {
	return nil
}

// Cleanup is a no-op for the base provider.
func (p *BaseProvider) Cleanup() error {
	return nil
}

// Factory creates a provider from its config.
type Factory func(config *Config) (Provider, error)

var (
	factories = make(map[string]Factory)
)

// Register adds a provider factory under a type name.
func Register(name string, factory Factory) {
	factories[name] = factory
}

// Create builds and initializes the provider registered under name.
func Create(name string, config *Config) (Provider, error) {
	factory, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown LLM provider: %s", name)
	}

	provider, err := factory(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM provider: %v", err)
	}

	if err := provider.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize LLM provider: %v", err)
	}

	return provider, nil
}
