package ollama

import (
	"github.com/samadjamali123/FloraGuard/src/core/providers/vlllm"
	"github.com/samadjamali123/FloraGuard/src/core/utils"
)

// NewProvider creates the local Ollama vision provider.
func NewProvider(config *vlllm.Config, logger *utils.Logger) (*vlllm.Provider, error) {
	return vlllm.NewProvider(config, logger)
}

func init() {
	vlllm.Register("ollama", NewProvider)
}
