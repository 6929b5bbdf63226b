package ollama

import (
	"context"
	"fmt"
	"strings"

	"github.com/samadjamali123/FloraGuard/src/core/analysis"
	"github.com/samadjamali123/FloraGuard/src/core/providers"
	"github.com/samadjamali123/FloraGuard/src/core/providers/llm"

	"github.com/sashabaranov/go-openai"
)

// Provider talks to a local Ollama server through its OpenAI-compatible API.
// Reasoning models wrap internal monologue in <think> tags; those spans are
// stripped so explanations stay clean.
type Provider struct {
	*llm.BaseProvider
	client    *openai.Client
	maxTokens int
}

func init() {
	llm.Register("ollama", NewProvider)
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

// Initialize builds the client; Ollama needs no real credential but the
// openai client requires a non-empty key.
func (p *Provider) Initialize() error {
	config := p.Config()
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if !strings.HasSuffix(baseURL, "/v1") {
		baseURL = strings.TrimSuffix(baseURL, "/") + "/v1"
	}

	clientConfig := openai.DefaultConfig("ollama")
	clientConfig.BaseURL = baseURL

	p.client = openai.NewClientWithConfig(clientConfig)
	return nil
}

// Cleanup releases nothing; the client is stateless.
func (p *Provider) Cleanup() error {
	return nil
}

// Chat issues one non-streaming completion and returns the reply text with
// any <think> spans removed.
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

	return strings.TrimSpace(stripThinkTags(resp.Choices[0].Message.Content)), nil
}

// stripThinkTags removes complete <think>...</think> spans and truncates an
// unterminated one.
func stripThinkTags(text string) string {
	for {
		start := strings.Index(text, "<think>")
		if start < 0 {
			return text
		}
		end := strings.Index(text[start:], "</think>")
		if end < 0 {
			return text[:start]
		}
		text = text[:start] + text[start+end+len("</think>"):]
	}
}
