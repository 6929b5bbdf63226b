package openai

import (
	"github.com/samadjamali123/FloraGuard/src/core/providers/vlllm"
	"github.com/samadjamali123/FloraGuard/src/core/utils"
)

// NewProvider creates the openai-compatible vision provider. The base
// provider already carries the OpenAI code path; this wrapper only binds the
// type name for the factory.
func NewProvider(config *vlllm.Config, logger *utils.Logger) (*vlllm.Provider, error) {
	return vlllm.NewProvider(config, logger)
}

func init() {
	vlllm.Register("openai", NewProvider)
}
