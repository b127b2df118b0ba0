package sign

import (
	"fmt"
	"log"

	ort "github.com/yalue/onnxruntime_go"
)

// Entry is one symbol set's slot in the registry: either a loaded classifier
// or the reason it is unavailable. Exactly one of Classifier and Err is set.
type Entry struct {
	Spec       *SymbolSpec
	Classifier Predictor
	Err        error
}

// Available reports whether this symbol set can serve predictions.
func (e *Entry) Available() bool {
	return e.Err == nil && e.Classifier != nil
}

// Registry owns the loaded classifiers, one optional slot per symbol set.
// Models are loaded exactly once at startup and are immutable afterwards. A
// slot whose model failed to load stays unavailable for the process lifetime;
// the other slots keep serving.
type Registry struct {
	entries  []*Entry
	envReady bool
}

// NewRegistry initializes the ONNX runtime and attempts to load a model for
// every symbol set in Specs. Load failures are recorded per slot and logged,
// never fatal: the registry always comes back usable, possibly empty.
func NewRegistry(modelPaths map[SymbolSet]string, logger *log.Logger) *Registry {
	r := &Registry{}

	envErr := ort.InitializeEnvironment()
	r.envReady = envErr == nil
	if envErr != nil {
		logger.Printf("ONNX environment unavailable, all classifiers disabled: %v", envErr)
	}

	for _, spec := range Specs() {
		entry := &Entry{Spec: spec}
		switch {
		case envErr != nil:
			entry.Err = &LoadError{Set: spec.Set, Err: envErr}
		case modelPaths[spec.Set] == "":
			entry.Err = &LoadError{Set: spec.Set, Err: fmt.Errorf("no model path configured")}
		default:
			path := modelPaths[spec.Set]
			clf, err := newOnnxClassifier(path, spec)
			if err != nil {
				entry.Err = &LoadError{Set: spec.Set, Path: path, Err: err}
			} else {
				entry.Classifier = clf
			}
		}

		if entry.Err != nil {
			logger.Printf("classifier %q disabled: %v", spec.Set, entry.Err)
		} else {
			logger.Printf("classifier %q loaded from %s", spec.Set, modelPaths[spec.Set])
		}
		r.entries = append(r.entries, entry)
	}
	return r
}

// Entries returns the slots in arbitration order.
func (r *Registry) Entries() []*Entry {
	return r.entries
}

// Get returns the slot for one symbol set, or nil if the set is unknown.
func (r *Registry) Get(set SymbolSet) *Entry {
	for _, e := range r.entries {
		if e.Spec.Set == set {
			return e
		}
	}
	return nil
}

// Loaded lists the symbol sets that are available for inference.
func (r *Registry) Loaded() []SymbolSet {
	var sets []SymbolSet
	for _, e := range r.entries {
		if e.Available() {
			sets = append(sets, e.Spec.Set)
		}
	}
	return sets
}

// Close releases every loaded session and the ONNX environment.
func (r *Registry) Close() {
	for _, e := range r.entries {
		if clf, ok := e.Classifier.(*onnxClassifier); ok {
			clf.close()
		}
	}
	if r.envReady {
		ort.DestroyEnvironment()
		r.envReady = false
	}
}
