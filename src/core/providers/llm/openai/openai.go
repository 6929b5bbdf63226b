package openai

import (
	"context"
	"fmt"

	"github.com/samadjamali123/FloraGuard/src/core/analysis"
	"github.com/samadjamali123/FloraGuard/src/core/providers"
	"github.com/samadjamali123/FloraGuard/src/core/providers/llm"

	"github.com/sashabaranov/go-openai"
)

// Provider talks to any OpenAI-compatible chat endpoint (Groq in the shipped
// config).
type Provider struct {
	*llm.BaseProvider
	client    *openai.Client
	maxTokens int
}

func init() {
	llm.Register("openai", NewProvider)
}

func NewProvider(config *llm.Config) (llm.Provider, error) {
	base := llm.NewBaseProvider(config)
	provider := &Provider{
		BaseProvider: base,
		maxTokens:    config.MaxTokens,
	}
	if provider.maxTokens <= 0 {
		provider.maxTokens = 400
	}

	return provider, nil
}

// Initialize builds the API client; requires a credential.
func (p *Provider) Initialize() error {
	config := p.Config()
	if config.APIKey == "" {
		return fmt.Errorf("%w: api_key is not set (export GROQ_API_KEY or set LLM api_key)", analysis.ErrMissingCredential)
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	p.client = openai.NewClientWithConfig(clientConfig)
	return nil
}

// Cleanup releases nothing; the client is stateless.
func (p *Provider) Cleanup() error {
	return nil
}

// Chat issues one non-streaming completion and returns the reply text.
func (p *Provider) Chat(ctx context.Context, messages []providers.Message) (string, error) {
	chatMessages := make([]openai.ChatCompletionMessage, len(messages))
	for i, msg := range messages {
		chatMessages[i] = openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}

	resp, err := p.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model:       p.Config().ModelName,
			Messages:    chatMessages,
			MaxTokens:   p.maxTokens,
			Temperature: float32(p.Config().Temperature),
		},
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", analysis.ErrUpstreamUnavailable, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: completion returned no choices", analysis.ErrUpstreamUnavailable)
	}

	return resp.Choices[0].Message.Content, nil
}
