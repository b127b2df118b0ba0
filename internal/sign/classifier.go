package sign

import (
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// Predictor maps one preprocessed input tensor to a probability vector over
// a symbol set's alphabet.
type Predictor interface {
	Predict(input []float32) ([]float32, error)
}

// onnxClassifier runs one loaded ONNX session. The session reads and writes
// preallocated tensors, so concurrent Run calls on one session would race;
// mu serializes them.
type onnxClassifier struct {
	mu           sync.Mutex
	spec         *SymbolSpec
	session      *ort.AdvancedSession
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]
}

func newOnnxClassifier(modelPath string, spec *SymbolSpec) (*onnxClassifier, error) {
	inputShape := ort.NewShape(1, int64(spec.Height), int64(spec.Width), int64(spec.Channels))
	outputShape := ort.NewShape(1, int64(len(spec.Labels)))

	inputTensor, err := ort.NewEmptyTensor[float32](inputShape)
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}

	outputTensor, err := ort.NewEmptyTensor[float32](outputShape)
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(modelPath,
		[]string{"input"}, []string{"output"},
		[]ort.ArbitraryTensor{inputTensor}, []ort.ArbitraryTensor{outputTensor},
		nil)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}

	return &onnxClassifier{
		spec:         spec,
		session:      session,
		inputTensor:  inputTensor,
		outputTensor: outputTensor,
	}, nil
}

// Predict runs the model on one preprocessed image and returns a copy of the
// probability vector, one entry per alphabet label.
func (c *onnxClassifier) Predict(input []float32) ([]float32, error) {
	if len(input) != c.spec.InputLen() {
		return nil, &ShapeError{Set: c.spec.Set, Want: c.spec.InputLen(), Got: len(input)}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	copy(c.inputTensor.GetData(), input)
	if err := c.session.Run(); err != nil {
		return nil, &InferenceError{Set: c.spec.Set, Err: err}
	}

	out := c.outputTensor.GetData()
	probs := make([]float32, len(out))
	copy(probs, out)
	return probs, nil
}

func (c *onnxClassifier) close() {
	if c.inputTensor != nil {
		c.inputTensor.Destroy()
	}
	if c.outputTensor != nil {
		c.outputTensor.Destroy()
	}
	if c.session != nil {
		c.session.Destroy()
	}
}
