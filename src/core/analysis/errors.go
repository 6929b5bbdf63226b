package analysis

import "errors"

// Error taxonomy shared by the whole analysis pipeline. Components wrap these
// with fmt.Errorf("%w: ...") so callers can branch with errors.Is while the
// message keeps the offending constraint.
var (
	// ErrEmptyPayload: zero-length input at validation or encoding time.
	ErrEmptyPayload = errors.New("empty payload")

	// ErrPayloadTooLarge: the upload exceeds the configured maximum.
	ErrPayloadTooLarge = errors.New("payload too large")

	// ErrUnsupportedMediaType: content type outside the allow-list, or bytes
	// that do not decode as a supported image.
	ErrUnsupportedMediaType = errors.New("unsupported media type")

	// ErrMissingCredential: the direct-analysis path has no API key configured.
	// Configuration error; never retried.
	ErrMissingCredential = errors.New("missing credential")

	// ErrMalformedModelResponse: the model reply contained no parseable JSON
	// object of the expected shape. Surfaced, not retried, never defaulted.
	ErrMalformedModelResponse = errors.New("malformed model response")

	// ErrUpstreamUnavailable: network or HTTP failure reaching the detection
	// backend or the model API.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)
