package analysis

// Normalize applies the canonical-record invariants in place and returns the
// record. Status is derived from DiseaseDetected, an empty treatment list is
// replaced with the default remedy, confidence is clamped to [0, 100] and nil
// lists become empty ones. Idempotent: normalizing twice changes nothing.
func Normalize(r *DetectionResult) *DetectionResult {
	if r == nil {
		return nil
	}

	if r.DiseaseDetected {
		r.Status = StatusInfected
	} else {
		r.Status = StatusHealthy
	}

	if len(r.Treatment) == 0 {
		r.Treatment = []string{DefaultRemedy}
	}

	if r.Confidence < 0 {
		r.Confidence = 0
	} else if r.Confidence > 100 {
		r.Confidence = 100
	}

	if r.Symptoms == nil {
		r.Symptoms = []string{}
	}
	if r.PossibleCauses == nil {
		r.PossibleCauses = []string{}
	}

	return r
}
