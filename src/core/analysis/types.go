package analysis

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Analysis sources.
const (
	SourceRemoteAPI   = "Live API"
	SourceDirectModel = "Direct AI Analysis"
)

// Derived status values; Status is always a pure function of DiseaseDetected.
const (
	StatusInfected = "Infected"
	StatusHealthy  = "Healthy"
)

// Well-known disease_type values. Free text is allowed; InvalidImage marks a
// photo that is not a plant leaf and is a finding, not an error.
const (
	TypeFungal             = "fungal"
	TypeBacterial          = "bacterial"
	TypeViral              = "viral"
	TypePest               = "pest"
	TypeNutrientDeficiency = "nutrient_deficiency"
	TypeHealthy            = "healthy"
	TypeInvalidImage       = "invalid_image"
)

// DefaultRemedy is substituted when an analysis returns no treatment list.
const DefaultRemedy = "See treatment recommendations below."

// DetectionResult is the canonical record both analysis strategies are coerced
// into. Optional upstream fields carry documented defaults: nil name, empty
// lists, zero confidence.
type DetectionResult struct {
	DiseaseDetected   bool     `json:"disease_detected"`
	DiseaseName       *string  `json:"disease_name"`
	DiseaseType       string   `json:"disease_type,omitempty"`
	Severity          string   `json:"severity,omitempty"`
	Confidence        float64  `json:"confidence"`
	Symptoms          []string `json:"symptoms"`
	PossibleCauses    []string `json:"possible_causes"`
	Treatment         []string `json:"treatment"`
	Status            string   `json:"status"`
	Source            string   `json:"source,omitempty"`
	AnalysisTimestamp string   `json:"analysis_timestamp,omitempty"`
}

// Name returns the disease name or "" when absent.
func (r *DetectionResult) Name() string {
	if r.DiseaseName == nil {
		return ""
	}
	return *r.DiseaseName
}

// FlexFloat decodes a JSON number that loose upstreams sometimes send as a
// quoted string. Anything else decodes to zero rather than failing the record.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*f = 0
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = FlexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		*f = 0
		return nil
	}
	*f = FlexFloat(v)
	return nil
}

// FlexBool decodes a JSON boolean that may arrive as a string or a number.
type FlexBool bool

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	switch s {
	case "null":
		*b = false
		return nil
	case "true", "false":
		var v bool
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*b = FlexBool(v)
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		v, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(str)))
		*b = FlexBool(err == nil && v)
		return nil
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		*b = v != 0
		return nil
	}
	*b = false
	return nil
}

// FlexStrings decodes a JSON array of strings, tolerating a bare string and
// non-string array elements (rendered with %v).
type FlexStrings []string

func (l *FlexStrings) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*l = nil
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*l = FlexStrings{str}
		return nil
	}
	var items []interface{}
	if err := json.Unmarshal(data, &items); err != nil {
		*l = nil
		return nil
	}
	out := make(FlexStrings, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case string:
			out = append(out, v)
		default:
			out = append(out, fmt.Sprintf("%v", v))
		}
	}
	*l = out
	return nil
}

// RawPayload is the loose-typed shape returned by the remote detection backend
// and by the vision model. The only hard guarantees are the detection flag and
// the confidence value; everything else is optional and defensively coerced.
type RawPayload struct {
	DiseaseDetected FlexBool    `json:"disease_detected"`
	DiseaseName     *string     `json:"disease_name"`
	DiseaseType     string      `json:"disease_type"`
	Severity        string      `json:"severity"`
	Confidence      FlexFloat   `json:"confidence"`
	Symptoms        FlexStrings `json:"symptoms"`
	PossibleCauses  FlexStrings `json:"possible_causes"`
	Treatment       FlexStrings `json:"treatment"`
}

// ToResult converts a raw upstream payload into an un-normalized canonical
// record tagged with the producing strategy.
func (p *RawPayload) ToResult(source string) *DetectionResult {
	return &DetectionResult{
		DiseaseDetected: bool(p.DiseaseDetected),
		DiseaseName:     p.DiseaseName,
		DiseaseType:     p.DiseaseType,
		Severity:        p.Severity,
		Confidence:      float64(p.Confidence),
		Symptoms:        []string(p.Symptoms),
		PossibleCauses:  []string(p.PossibleCauses),
		Treatment:       []string(p.Treatment),
		Source:          source,
	}
}
