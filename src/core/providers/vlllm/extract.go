package vlllm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/samadjamali123/FloraGuard/src/core/analysis"
)

// The vision models wrap their JSON in markdown fences or surrounding prose
// often enough that strict unmarshalling of the whole reply is useless. The
// extraction here is deliberately narrow: strip one leading/trailing fence,
// take the first balanced-looking {...} span greedily, and fail closed on
// anything that still does not parse. It is not a lenient JSON parser and
// must not be reused as one.
var (
	fenceOpenRe  = regexp.MustCompile("^```(?:json)?[ \t]*\r?\n?")
	fenceCloseRe = regexp.MustCompile("\r?\n?```[ \t]*$")
	jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)
)

// ExtractJSONObject returns the JSON object span embedded in a free-text
// model reply, or ErrMalformedModelResponse when there is none.
func ExtractJSONObject(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = fenceOpenRe.ReplaceAllString(trimmed, "")
		trimmed = fenceCloseRe.ReplaceAllString(trimmed, "")
	}

	span := jsonObjectRe.FindString(trimmed)
	if span == "" {
		return "", fmt.Errorf("%w: no JSON object found in model reply", analysis.ErrMalformedModelResponse)
	}
	return span, nil
}

// ParseModelReply extracts and unmarshals the reply into the loose-typed raw
// payload. A malformed object is never partially trusted.
func ParseModelReply(text string) (*analysis.RawPayload, error) {
	span, err := ExtractJSONObject(text)
	if err != nil {
		return nil, err
	}

	raw := &analysis.RawPayload{}
	if err := json.Unmarshal([]byte(span), raw); err != nil {
		return nil, fmt.Errorf("%w: %v", analysis.ErrMalformedModelResponse, err)
	}
	return raw, nil
}
