package vlllm

import (
	"errors"
	"testing"

	"github.com/samadjamali123/FloraGuard/src/core/analysis"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "bare object",
			input:    `{"disease_detected": false}`,
			expected: `{"disease_detected": false}`,
		},
		{
			name:     "fenced object",
			input:    "```\n{\"disease_detected\": false}\n```",
			expected: `{"disease_detected": false}`,
		},
		{
			name:     "json-tagged fence",
			input:    "```json\n{\"disease_detected\": true}\n```",
			expected: `{"disease_detected": true}`,
		},
		{
			name:     "prose around the object",
			input:    "Here is my analysis:\n{\"disease_detected\": true}\nLet me know if you need more.",
			expected: `{"disease_detected": true}`,
		},
		{
			name:     "multiline object",
			input:    "{\n  \"disease_detected\": true,\n  \"severity\": \"mild\"\n}",
			expected: "{\n  \"disease_detected\": true,\n  \"severity\": \"mild\"\n}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			span, err := ExtractJSONObject(tt.input)
			if err != nil {
				t.Fatalf("ExtractJSONObject failed: %v", err)
			}
			if span != tt.expected {
				t.Errorf("ExtractJSONObject() = %q, want %q", span, tt.expected)
			}
		})
	}
}

func TestExtractJSONObjectNoObject(t *testing.T) {
	inputs := []string{
		"",
		"I could not analyze this image.",
		"```\njust text\n```",
	}

	for _, input := range inputs {
		if _, err := ExtractJSONObject(input); !errors.Is(err, analysis.ErrMalformedModelResponse) {
			t.Errorf("ExtractJSONObject(%q) error = %v, want ErrMalformedModelResponse", input, err)
		}
	}
}

func TestParseModelReply(t *testing.T) {
	reply := "```json\n" + `{
		"disease_detected": false,
		"disease_name": null,
		"disease_type": "healthy",
		"severity": "none",
		"confidence": 95,
		"symptoms": [],
		"possible_causes": [],
		"treatment": []
	}` + "\n```"

	raw, err := ParseModelReply(reply)
	if err != nil {
		t.Fatalf("ParseModelReply failed: %v", err)
	}

	result := analysis.Normalize(raw.ToResult(analysis.SourceDirectModel))
	if result.Status != analysis.StatusHealthy {
		t.Errorf("Status = %q, want %q", result.Status, analysis.StatusHealthy)
	}
	if result.DiseaseName != nil {
		t.Errorf("DiseaseName = %v, want nil", *result.DiseaseName)
	}
	if result.Confidence != 95 {
		t.Errorf("Confidence = %v, want 95", result.Confidence)
	}
}

func TestParseModelReplyMalformedObject(t *testing.T) {
	_, err := ParseModelReply(`{"disease_detected": tru}`)
	if !errors.Is(err, analysis.ErrMalformedModelResponse) {
		t.Errorf("error = %v, want ErrMalformedModelResponse", err)
	}
}
