package hands

import (
	"fmt"
	"image"
	"sync"

	"github.com/nfnt/resize"
	ort "github.com/yalue/onnxruntime_go"
)

// onnxDetector wraps a landmark model session. The model takes one square
// RGB frame and emits, per hand slot, 21 keypoints in input-frame pixel
// coordinates plus a presence score. The session's tensors are preallocated,
// so calls are serialized by mu.
type onnxDetector struct {
	mu        sync.Mutex
	cfg       Config
	session   *ort.AdvancedSession
	input     *ort.Tensor[float32]
	landmarks *ort.Tensor[float32]
	scores    *ort.Tensor[float32]
}

// NewONNXDetector loads the landmark model from modelPath. The ONNX runtime
// environment must already be initialized.
func NewONNXDetector(modelPath string, cfg Config) (Detector, error) {
	if cfg.MaxHands <= 0 || cfg.InputSize <= 0 {
		return nil, fmt.Errorf("hands: invalid detector config: %+v", cfg)
	}

	size := int64(cfg.InputSize)
	input, err := ort.NewEmptyTensor[float32](ort.NewShape(1, size, size, 3))
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}

	landmarks, err := ort.NewEmptyTensor[float32](
		ort.NewShape(1, int64(cfg.MaxHands), int64(LandmarkCount*3)))
	if err != nil {
		input.Destroy()
		return nil, fmt.Errorf("failed to create landmark tensor: %w", err)
	}

	scores, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(cfg.MaxHands)))
	if err != nil {
		input.Destroy()
		landmarks.Destroy()
		return nil, fmt.Errorf("failed to create score tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(modelPath,
		[]string{"input"}, []string{"landmarks", "scores"},
		[]ort.ArbitraryTensor{input}, []ort.ArbitraryTensor{landmarks, scores},
		nil)
	if err != nil {
		input.Destroy()
		landmarks.Destroy()
		scores.Destroy()
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}

	return &onnxDetector{
		cfg:       cfg,
		session:   session,
		input:     input,
		landmarks: landmarks,
		scores:    scores,
	}, nil
}

func (d *onnxDetector) Detect(img image.Image) ([]Hand, error) {
	frame := frameTensor(img, d.cfg.InputSize)

	d.mu.Lock()
	defer d.mu.Unlock()

	copy(d.input.GetData(), frame)
	if err := d.session.Run(); err != nil {
		return nil, fmt.Errorf("hands: inference failed: %w", err)
	}

	scores := d.scores.GetData()
	coords := d.landmarks.GetData()
	scale := float64(d.cfg.InputSize)

	var hands []Hand
	for h := 0; h < d.cfg.MaxHands; h++ {
		if scores[h] < d.cfg.MinConfidence {
			continue
		}
		points := make([]Landmark, LandmarkCount)
		base := h * LandmarkCount * 3
		for j := 0; j < LandmarkCount; j++ {
			points[j] = Landmark{
				X: float64(coords[base+j*3]) / scale,
				Y: float64(coords[base+j*3+1]) / scale,
				Z: float64(coords[base+j*3+2]) / scale,
			}
		}
		hands = append(hands, Hand{Landmarks: points, Score: scores[h]})
	}
	return hands, nil
}

func (d *onnxDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.input != nil {
		d.input.Destroy()
	}
	if d.landmarks != nil {
		d.landmarks.Destroy()
	}
	if d.scores != nil {
		d.scores.Destroy()
	}
	if d.session != nil {
		d.session.Destroy()
	}
	return nil
}

// frameTensor resizes the image to a square RGB frame normalized to [0,1],
// laid out HWC.
func frameTensor(img image.Image, size int) []float32 {
	resized := resize.Resize(uint(size), uint(size), img, resize.Lanczos3)

	data := make([]float32, size*size*3)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			r, g, b, _ := resized.At(x, y).RGBA()
			base := (y*size + x) * 3
			data[base] = float32(r) / 65535.0
			data[base+1] = float32(g) / 65535.0
			data[base+2] = float32(b) / 65535.0
		}
	}
	return data
}
