package analysis

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestFlexFloatUnmarshal(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
	}{
		{"plain number", `95.5`, 95.5},
		{"integer", `87`, 87},
		{"quoted number", `"42.5"`, 42.5},
		{"quoted with spaces", `" 12 "`, 12},
		{"null", `null`, 0},
		{"unparseable string", `"high"`, 0},
		{"boolean falls to zero", `true`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FlexFloat
			if err := json.Unmarshal([]byte(tt.input), &f); err != nil {
				t.Fatalf("Unmarshal(%s) failed: %v", tt.input, err)
			}
			if float64(f) != tt.expected {
				t.Errorf("Unmarshal(%s) = %v, want %v", tt.input, float64(f), tt.expected)
			}
		})
	}
}

func TestFlexBoolUnmarshal(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"true literal", `true`, true},
		{"false literal", `false`, false},
		{"quoted true", `"true"`, true},
		{"quoted True", `"True"`, true},
		{"quoted false", `"false"`, false},
		{"quoted garbage", `"maybe"`, false},
		{"number one", `1`, true},
		{"number zero", `0`, false},
		{"null", `null`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b FlexBool
			if err := json.Unmarshal([]byte(tt.input), &b); err != nil {
				t.Fatalf("Unmarshal(%s) failed: %v", tt.input, err)
			}
			if bool(b) != tt.expected {
				t.Errorf("Unmarshal(%s) = %v, want %v", tt.input, bool(b), tt.expected)
			}
		})
	}
}

func TestFlexStringsUnmarshal(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"string array", `["a","b"]`, []string{"a", "b"}},
		{"bare string", `"just one"`, []string{"just one"}},
		{"mixed elements", `["spots", 3, true]`, []string{"spots", "3", "true"}},
		{"null", `null`, nil},
		{"object falls to nil", `{"a":1}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var l FlexStrings
			if err := json.Unmarshal([]byte(tt.input), &l); err != nil {
				t.Fatalf("Unmarshal(%s) failed: %v", tt.input, err)
			}
			if !reflect.DeepEqual([]string(l), tt.expected) {
				t.Errorf("Unmarshal(%s) = %v, want %v", tt.input, []string(l), tt.expected)
			}
		})
	}
}

func TestRawPayloadToResult(t *testing.T) {
	payload := []byte(`{
		"disease_detected": "true",
		"disease_name": "Rust",
		"disease_type": "fungal",
		"severity": "mild",
		"confidence": "66",
		"symptoms": "orange pustules",
		"possible_causes": ["rust fungi"],
		"treatment": null
	}`)

	raw := &RawPayload{}
	if err := json.Unmarshal(payload, raw); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	result := Normalize(raw.ToResult(SourceRemoteAPI))

	if !result.DiseaseDetected {
		t.Error("DiseaseDetected should coerce from quoted true")
	}
	if result.Name() != "Rust" {
		t.Errorf("Name() = %q, want Rust", result.Name())
	}
	if result.Confidence != 66 {
		t.Errorf("Confidence = %v, want 66", result.Confidence)
	}
	if !reflect.DeepEqual(result.Symptoms, []string{"orange pustules"}) {
		t.Errorf("Symptoms = %v, want bare string wrapped", result.Symptoms)
	}
	if len(result.Treatment) != 1 || result.Treatment[0] != DefaultRemedy {
		t.Errorf("Treatment = %v, want default remedy", result.Treatment)
	}
	if result.Source != SourceRemoteAPI {
		t.Errorf("Source = %q, want %q", result.Source, SourceRemoteAPI)
	}
	if result.Status != StatusInfected {
		t.Errorf("Status = %q, want %q", result.Status, StatusInfected)
	}
}
