package sign

import "log"

// DefaultThreshold is the minimum confidence for a decision to count as
// reliable rather than a low-confidence best guess.
const DefaultThreshold float32 = 0.6

// PredictionResult is one model's answer for one request.
type PredictionResult struct {
	Set        SymbolSet
	Label      string
	Confidence float32
}

// Decision is the single prediction the ensemble settled on. Accepted is
// false when the winning confidence fell below the acceptance threshold; the
// best guess is still returned, flagged, never discarded.
type Decision struct {
	PredictionResult
	Accepted bool
}

// Arbiter runs every available classifier on its own preprocessing of the
// image and picks the single most confident answer.
type Arbiter struct {
	registry  *Registry
	threshold float32
	logger    *log.Logger
}

func NewArbiter(registry *Registry, threshold float32, logger *log.Logger) *Arbiter {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Arbiter{registry: registry, threshold: threshold, logger: logger}
}

// Classify produces one decision for the image, consulting every loaded
// classifier. A failure scoped to one symbol set (preprocessing, inference,
// or an alphabet/output mismatch) drops that set from the candidate list and
// the request carries on; only an empty candidate list fails the request,
// with ErrNoResult.
func (a *Arbiter) Classify(imageBytes []byte) (Decision, error) {
	var candidates []PredictionResult

	for _, entry := range a.registry.Entries() {
		if !entry.Available() {
			continue
		}
		spec := entry.Spec

		input, err := Preprocess(imageBytes, spec)
		if err != nil {
			a.logger.Printf("preprocessing failed for %q: %v", spec.Set, err)
			continue
		}

		probs, err := entry.Classifier.Predict(input)
		if err != nil {
			a.logger.Printf("prediction failed for %q: %v", spec.Set, err)
			continue
		}

		idx, conf := argmax(probs)
		if idx < 0 || idx >= len(spec.Labels) {
			a.logger.Printf("predicted index %d out of bounds for %q alphabet (len=%d)",
				idx, spec.Set, len(spec.Labels))
			continue
		}

		candidates = append(candidates, PredictionResult{
			Set:        spec.Set,
			Label:      spec.Labels[idx],
			Confidence: conf,
		})
	}

	if len(candidates) == 0 {
		return Decision{}, ErrNoResult
	}

	// Strict > keeps the earliest candidate on ties, so arbitration order
	// over symbol sets is the deterministic tie-break.
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Confidence > best.Confidence {
			best = c
		}
	}

	a.logger.Printf("best result from %q: label=%q confidence=%.4f",
		best.Set, best.Label, best.Confidence)

	return Decision{
		PredictionResult: best,
		Accepted:         best.Confidence >= a.threshold,
	}, nil
}

func argmax(probs []float32) (int, float32) {
	if len(probs) == 0 {
		return -1, 0
	}
	maxIdx := 0
	maxVal := probs[0]
	for i, v := range probs {
		if v > maxVal {
			maxVal = v
			maxIdx = i
		}
	}
	return maxIdx, maxVal
}
