package vlllm

import (
	"fmt"

	"github.com/samadjamali123/FloraGuard/src/configs"
	"github.com/samadjamali123/FloraGuard/src/core/utils"
)

// Factory creates a vision provider from its config.
type Factory func(config *Config, logger *utils.Logger) (*Provider, error)

var (
	factories = make(map[string]Factory)
)

// Register adds a provider factory under a type name.
func Register(name string, factory Factory) {
	factories[name] = factory
}

// Create builds and initializes the provider registered under the config's
// type.
func Create(name string, vlllmConfig *configs.VLLMConfig, logger *utils.Logger) (*Provider, error) {
	factory, ok := factories[vlllmConfig.Type]
	if !ok {
		return nil, fmt.Errorf("unknown VLLLM provider type: %s", vlllmConfig.Type)
	}

	config := &Config{
		Type:        vlllmConfig.Type,
		ModelName:   vlllmConfig.ModelName,
		BaseURL:     vlllmConfig.BaseURL,
		APIKey:      vlllmConfig.APIKey,
		Temperature: vlllmConfig.Temperature,
		MaxTokens:   vlllmConfig.MaxTokens,
		TopP:        vlllmConfig.TopP,
	}

	provider, err := factory(config, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create VLLLM provider: %v", err)
	}

	if err := provider.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize VLLLM provider: %w", err)
	}

	logger.Debug("VLLLM provider created", map[string]interface{}{
		"name":       name,
		"type":       config.Type,
		"model_name": config.ModelName,
	})

	return provider, nil
}

// GetRegisteredProviders lists the registered provider type names.
func GetRegisteredProviders() []string {
	var providers []string
	for name := range factories {
		providers = append(providers, name)
	}
	return providers
}
