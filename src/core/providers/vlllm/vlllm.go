package vlllm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/samadjamali123/FloraGuard/src/core/analysis"
	"github.com/samadjamali123/FloraGuard/src/core/image"
	"github.com/samadjamali123/FloraGuard/src/core/utils"

	"github.com/sashabaranov/go-openai"
)

// analysisPrompt is the fixed instruction template for the direct vision
// path. It demands exactly the source-shape fields of the canonical record
// and routes non-leaf photos through disease_type = "invalid_image".
const analysisPrompt = `Analyze this leaf image for diseases. Return ONLY a valid JSON object with this exact structure:
{
    "disease_detected": true or false,
    "disease_name": "name of disease or null if healthy",
    "disease_type": "fungal/bacterial/viral/pest/nutrient deficiency/healthy",
    "severity": "mild/moderate/severe/none",
    "confidence": number between 0-100,
    "symptoms": ["list", "of", "observed", "symptoms"],
    "possible_causes": ["list", "of", "causes"],
    "treatment": ["list", "of", "treatment", "recommendations"]
}

If the image is not a plant leaf, set disease_type to "invalid_image".`

// Config holds the settings for a vision model provider.
type Config struct {
	Type        string
	ModelName   string
	BaseURL     string
	APIKey      string
	Temperature float64
	MaxTokens   int
	TopP        float64
}

// Provider sends a canonical leaf image to a multimodal model and coerces the
// free-text reply into a DetectionResult. Every call issues a fresh model
// request; results are never cached by image content.
type Provider struct {
	config *Config
	logger *utils.Logger

	openaiClient *openai.Client // openai-compatible backends
	httpClient   *http.Client   // ollama backend
}

// OllamaRequest is the request shape of the Ollama chat API.
type OllamaRequest struct {
	Model    string                 `json:"model"`
	Messages []OllamaMessage        `json:"messages"`
	Stream   bool                   `json:"stream"`
	Options  map[string]interface{} `json:"options,omitempty"`
}

// OllamaMessage carries text plus raw base64 images (no data-URI prefix).
type OllamaMessage struct {
	Role    string   `json:"role"`
	Content string   `json:"content"`
	Images  []string `json:"images,omitempty"`
}

// OllamaResponse is the non-streaming response shape of the Ollama chat API.
type OllamaResponse struct {
	Model     string `json:"model"`
	CreatedAt string `json:"created_at"`
	Message   struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	Done bool `json:"done"`
}

// NewProvider creates an uninitialized provider.
func NewProvider(config *Config, logger *utils.Logger) (*Provider, error) {
	if config.MaxTokens <= 0 {
		config.MaxTokens = 1024
	}
	return &Provider{
		config:     config,
		logger:     logger,
		httpClient: &http.Client{Timeout: 90 * time.Second},
	}, nil
}

// Initialize builds the API client for the configured backend type.
func (p *Provider) Initialize() error {
	switch strings.ToLower(p.config.Type) {
	case "openai":
		if p.config.APIKey == "" {
			return fmt.Errorf("%w: api_key is not set (export GROQ_API_KEY or set VLLLM api_key)", analysis.ErrMissingCredential)
		}

		clientConfig := openai.DefaultConfig(p.config.APIKey)
		if p.config.BaseURL != "" {
			clientConfig.BaseURL = p.config.BaseURL
		}
		p.openaiClient = openai.NewClientWithConfig(clientConfig)

	case "ollama":
		// Ollama needs no credential, only a reachable base URL.
		if p.config.BaseURL == "" {
			p.config.BaseURL = "http://localhost:11434"
		}

	default:
		return fmt.Errorf("unsupported VLLLM type: %s", p.config.Type)
	}

	p.logger.Debug("VLLLM provider initialized", map[string]interface{}{
		"type":       p.config.Type,
		"model_name": p.config.ModelName,
	})

	return nil
}

// Cleanup releases nothing; the clients are stateless.
func (p *Provider) Cleanup() error {
	return nil
}

// Analyze runs the direct vision path end to end: credential precondition,
// data-URI wrapping, one multimodal request, strict JSON extraction, then
// normalization. A reply with no parseable object fails with
// ErrMalformedModelResponse and produces no result.
func (p *Provider) Analyze(ctx context.Context, img *image.CanonicalImage) (*analysis.DetectionResult, error) {
	var replyText string
	var err error

	switch strings.ToLower(p.config.Type) {
	case "openai":
		if p.config.APIKey == "" {
			return nil, fmt.Errorf("%w: api_key is not set (export GROQ_API_KEY or set VLLLM api_key)", analysis.ErrMissingCredential)
		}
		replyText, err = p.completeWithOpenAI(ctx, img)
	case "ollama":
		replyText, err = p.completeWithOllama(ctx, img)
	default:
		return nil, fmt.Errorf("unsupported VLLLM type: %s", p.config.Type)
	}
	if err != nil {
		return nil, err
	}

	raw, err := ParseModelReply(replyText)
	if err != nil {
		p.logger.Warn("model reply could not be parsed", map[string]interface{}{
			"model": p.config.ModelName,
			"reply": replyText,
		})
		return nil, err
	}

	result := raw.ToResult(analysis.SourceDirectModel)
	result.AnalysisTimestamp = time.Now().Format("2006-01-02 15:04:05")
	return analysis.Normalize(result), nil
}

// completeWithOpenAI issues one vision completion against an
// OpenAI-compatible endpoint.
func (p *Provider) completeWithOpenAI(ctx context.Context, img *image.CanonicalImage) (string, error) {
	dataURI, err := image.DataURI(img)
	if err != nil {
		return "", err
	}

	visionMessage := openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleUser,
		MultiContent: []openai.ChatMessagePart{
			{
				Type: openai.ChatMessagePartTypeText,
				Text: analysisPrompt,
			},
			{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL: dataURI,
				},
			},
		},
	}

	p.logger.Debug("calling vision model", map[string]interface{}{
		"type":       p.config.Type,
		"model_name": p.config.ModelName,
		"image_size": len(img.Data),
	})

	resp, err := p.openaiClient.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model:       p.config.ModelName,
			Messages:    []openai.ChatCompletionMessage{visionMessage},
			Temperature: float32(p.config.Temperature),
			MaxTokens:   p.config.MaxTokens,
			TopP:        float32(p.config.TopP),
		},
	)
	if err != nil {
		return "", fmt.Errorf("%w: vision API call failed: %v", analysis.ErrUpstreamUnavailable, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: vision completion returned no choices", analysis.ErrUpstreamUnavailable)
	}

	return resp.Choices[0].Message.Content, nil
}

// completeWithOllama issues one non-streaming vision request to a local
// Ollama server.
func (p *Provider) completeWithOllama(ctx context.Context, img *image.CanonicalImage) (string, error) {
	encoded, err := image.EncodeBase64(img.Data)
	if err != nil {
		return "", err
	}

	request := OllamaRequest{
		Model: p.config.ModelName,
		Messages: []OllamaMessage{
			{
				Role:    "user",
				Content: analysisPrompt,
				Images:  []string{encoded},
			},
		},
		Stream: false,
		Options: map[string]interface{}{
			"temperature": p.config.Temperature,
			"top_p":       p.config.TopP,
		},
	}

	requestBody, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to serialize ollama request: %v", err)
	}

	url := fmt.Sprintf("%s/api/chat", strings.TrimSuffix(p.config.BaseURL, "/"))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(requestBody))
	if err != nil {
		return "", fmt.Errorf("failed to build ollama request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: ollama API call failed: %v", analysis.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: ollama API returned %d %s", analysis.ErrUpstreamUnavailable, resp.StatusCode, resp.Status)
	}

	var response OllamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("%w: failed to decode ollama response: %v", analysis.ErrUpstreamUnavailable, err)
	}

	return response.Message.Content, nil
}

// GetConfig returns the provider configuration.
func (p *Provider) GetConfig() *Config {
	return p.config
}
