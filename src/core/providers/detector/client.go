package detector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/samadjamali123/FloraGuard/src/configs"
	"github.com/samadjamali123/FloraGuard/src/core/analysis"
	"github.com/samadjamali123/FloraGuard/src/core/utils"

	"github.com/go-resty/resty/v2"
)

// detectionPath is the remote backend's base64 analysis endpoint.
const detectionPath = "/disease-detection"

// analyzeRequest is the backend's request contract: a base64-encoded image
// string, nothing else.
type analyzeRequest struct {
	Base64ImageString string `json:"base64_image_string"`
}

// Client is the handle to the remote disease-classification backend.
// Construction is cheap here but the session it represents is treated as
// expensive: obtain clients through Cache so the process builds exactly one.
type Client struct {
	config *configs.DetectorConfig
	rest   *resty.Client
	logger *utils.Logger
}

// NewClient builds a client bound to the configured base URL with the fixed
// upper-bound timeout (90s by default).
func NewClient(config *configs.DetectorConfig, logger *utils.Logger) *Client {
	rest := resty.New().
		SetBaseURL(config.ResolveBaseURL()).
		SetTimeout(config.TimeoutDuration()).
		SetHeader("User-Agent", "FloraGuard/1.0")

	return &Client{
		config: config,
		rest:   rest,
		logger: logger,
	}
}

// BaseURL reports the resolved backend URL (for status surfaces).
func (c *Client) BaseURL() string {
	return c.rest.BaseURL
}

// Analyze submits an encoded image payload and returns the normalized result.
// All backend fields except the detection flag and confidence are optional;
// the coercion lives in the analysis package.
func (c *Client) Analyze(ctx context.Context, encodedImage string) (*analysis.DetectionResult, error) {
	if encodedImage == "" {
		return nil, fmt.Errorf("%w: encoded image payload is empty", analysis.ErrEmptyPayload)
	}

	resp, err := c.rest.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(analyzeRequest{Base64ImageString: encodedImage}).
		Post(detectionPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", analysis.ErrUpstreamUnavailable, err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: backend returned %d: %s",
			analysis.ErrUpstreamUnavailable, resp.StatusCode(), resp.String())
	}

	raw := &analysis.RawPayload{}
	if err := json.Unmarshal(resp.Body(), raw); err != nil {
		return nil, fmt.Errorf("%w: backend response is not valid JSON: %v",
			analysis.ErrUpstreamUnavailable, err)
	}

	c.logger.Debug("detection backend responded", map[string]interface{}{
		"status":           resp.StatusCode(),
		"disease_detected": bool(raw.DiseaseDetected),
		"confidence":       float64(raw.Confidence),
	})

	return analysis.Normalize(raw.ToResult(analysis.SourceRemoteAPI)), nil
}
