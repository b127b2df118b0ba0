package sign

import (
	"errors"
	"image/color"
	"io"
	"log"
	"testing"
)

// stubPredictor returns a canned probability vector or error.
type stubPredictor struct {
	probs []float32
	err   error
}

func (s *stubPredictor) Predict(input []float32) ([]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.probs, nil
}

// probsWithMax builds a probability vector of the given length with maxVal at
// maxIdx and the remaining mass spread over the other entries.
func probsWithMax(length, maxIdx int, maxVal float32) []float32 {
	probs := make([]float32, length)
	rest := (1 - maxVal) / float32(length-1)
	for i := range probs {
		probs[i] = rest
	}
	probs[maxIdx] = maxVal
	return probs
}

func testRegistry(preds map[SymbolSet]Predictor) *Registry {
	r := &Registry{}
	for _, spec := range Specs() {
		entry := &Entry{Spec: spec}
		if p, ok := preds[spec.Set]; ok {
			entry.Classifier = p
		} else {
			entry.Err = &LoadError{Set: spec.Set, Err: errors.New("not loaded")}
		}
		r.entries = append(r.entries, entry)
	}
	return r
}

func testArbiter(preds map[SymbolSet]Predictor) *Arbiter {
	return NewArbiter(testRegistry(preds), DefaultThreshold, log.New(io.Discard, "", 0))
}

func TestClassify_PicksMostConfidentModel(t *testing.T) {
	arbiter := testArbiter(map[SymbolSet]Predictor{
		SetDigit: &stubPredictor{probs: probsWithMax(10, 3, 0.70)},
		SetASL:   &stubPredictor{probs: probsWithMax(24, 0, 0.95)},
		SetISL:   &stubPredictor{probs: probsWithMax(26, 1, 0.80)},
	})
	img := encodePNG(t, color.RGBA{R: 90, G: 90, B: 90, A: 255}, 32, 32)

	got, err := arbiter.Classify(img)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Set != SetASL || got.Label != "A" {
		t.Errorf("winner: got %s/%q, want asl/A", got.Set, got.Label)
	}
	if got.Confidence != 0.95 {
		t.Errorf("confidence: got %f, want 0.95", got.Confidence)
	}
	if !got.Accepted {
		t.Error("decision above threshold should be accepted")
	}
}

func TestClassify_SingleLoadedModelAlwaysWins(t *testing.T) {
	// Even far below the threshold the lone candidate is returned.
	arbiter := testArbiter(map[SymbolSet]Predictor{
		SetISL: &stubPredictor{probs: probsWithMax(26, 25, 0.11)},
	})
	img := encodePNG(t, color.RGBA{A: 255}, 16, 16)

	got, err := arbiter.Classify(img)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Set != SetISL || got.Label != "Z" {
		t.Errorf("winner: got %s/%q, want isl/Z", got.Set, got.Label)
	}
	if got.Accepted {
		t.Error("0.11 must be flagged low-confidence")
	}
}

func TestClassify_TieBreakIsArbitrationOrder(t *testing.T) {
	// digit comes before isl in Specs, so it wins an exact tie, every time.
	preds := map[SymbolSet]Predictor{
		SetDigit: &stubPredictor{probs: probsWithMax(10, 7, 0.85)},
		SetISL:   &stubPredictor{probs: probsWithMax(26, 2, 0.85)},
	}
	img := encodePNG(t, color.RGBA{R: 50, A: 255}, 16, 16)

	for i := 0; i < 20; i++ {
		got, err := testArbiter(preds).Classify(img)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Set != SetDigit || got.Label != "7" {
			t.Fatalf("run %d: got %s/%q, want digit/7", i, got.Set, got.Label)
		}
	}
}

func TestClassify_ThresholdBoundary(t *testing.T) {
	tests := []struct {
		name       string
		confidence float32
		accepted   bool
	}{
		{"exactly-at-threshold", 0.6, true},
		{"just-below", 0.599999, false},
		{"just-above", 0.600001, true},
	}

	img := encodePNG(t, color.RGBA{B: 200, A: 255}, 16, 16)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			arbiter := testArbiter(map[SymbolSet]Predictor{
				SetDigit: &stubPredictor{probs: probsWithMax(10, 0, tt.confidence)},
			})
			got, err := arbiter.Classify(img)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Accepted != tt.accepted {
				t.Errorf("accepted: got %v, want %v", got.Accepted, tt.accepted)
			}
			if got.Confidence != tt.confidence {
				t.Errorf("confidence: got %f, want %f (below-threshold answers are still returned)",
					got.Confidence, tt.confidence)
			}
		})
	}
}

func TestClassify_SkipsOutOfRangeArgmax(t *testing.T) {
	// The digit model misbehaves: 12-wide output with the max beyond the
	// 10-label alphabet. It must be skipped, not crash, and isl wins.
	arbiter := testArbiter(map[SymbolSet]Predictor{
		SetDigit: &stubPredictor{probs: probsWithMax(12, 11, 0.99)},
		SetISL:   &stubPredictor{probs: probsWithMax(26, 0, 0.65)},
	})
	img := encodePNG(t, color.RGBA{G: 128, A: 255}, 16, 16)

	got, err := arbiter.Classify(img)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Set != SetISL {
		t.Errorf("winner: got %s, want isl", got.Set)
	}
}

func TestClassify_FailedModelIsExcluded(t *testing.T) {
	arbiter := testArbiter(map[SymbolSet]Predictor{
		SetDigit: &stubPredictor{err: &InferenceError{Set: SetDigit, Err: errors.New("boom")}},
		SetASL:   &stubPredictor{probs: probsWithMax(24, 5, 0.62)},
	})
	img := encodePNG(t, color.RGBA{R: 10, A: 255}, 16, 16)

	got, err := arbiter.Classify(img)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Set != SetASL || got.Label != "F" {
		t.Errorf("winner: got %s/%q, want asl/F", got.Set, got.Label)
	}
}

func TestClassify_NoResult(t *testing.T) {
	img := encodePNG(t, color.RGBA{A: 255}, 16, 16)

	tests := []struct {
		name  string
		preds map[SymbolSet]Predictor
		image []byte
	}{
		{"zero-models-loaded", map[SymbolSet]Predictor{}, img},
		{"all-inference-failed", map[SymbolSet]Predictor{
			SetDigit: &stubPredictor{err: errors.New("boom")},
			SetASL:   &stubPredictor{err: errors.New("boom")},
			SetISL:   &stubPredictor{err: errors.New("boom")},
		}, img},
		{"undecodable-image", map[SymbolSet]Predictor{
			SetDigit: &stubPredictor{probs: probsWithMax(10, 0, 0.9)},
		}, []byte("garbage")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := testArbiter(tt.preds).Classify(tt.image)
			if !errors.Is(err, ErrNoResult) {
				t.Errorf("got %v, want ErrNoResult", err)
			}
		})
	}
}

func TestRegistry_Loaded(t *testing.T) {
	r := testRegistry(map[SymbolSet]Predictor{
		SetASL: &stubPredictor{probs: probsWithMax(24, 0, 0.5)},
	})
	loaded := r.Loaded()
	if len(loaded) != 1 || loaded[0] != SetASL {
		t.Errorf("loaded: got %v, want [asl]", loaded)
	}
	if e := r.Get(SetDigit); e == nil || e.Available() {
		t.Error("digit slot must exist and be unavailable")
	}
	if e := r.Get(SetASL); e == nil || !e.Available() {
		t.Error("asl slot must be available")
	}
}
