// Package handlers exposes the HTTP surface: sign interpretation, hand
// landmark detection, text-to-speech, and health. Handlers are thin wrappers
// over the sign, hands, and speech packages.
package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"log"
	"net/http"

	"github.com/signwave/sli-api/internal/hands"
	"github.com/signwave/sli-api/internal/sign"
	"github.com/signwave/sli-api/internal/speech"
)

// SignInterpreter produces one ensemble decision per image.
type SignInterpreter interface {
	Classify(imageBytes []byte) (sign.Decision, error)
}

type Handler struct {
	interpreter SignInterpreter
	detector    hands.Detector // nil when the landmark model failed to load
	synth       speech.Synthesizer
	registry    *sign.Registry // nil in tests; reported by Health when set
	logger      *log.Logger
}

func NewHandler(interpreter SignInterpreter, detector hands.Detector,
	synth speech.Synthesizer, registry *sign.Registry, logger *log.Logger) *Handler {
	return &Handler{
		interpreter: interpreter,
		detector:    detector,
		synth:       synth,
		registry:    registry,
		logger:      logger,
	}
}

type imageRequest struct {
	Image string `json:"image"`
}

type interpretResponse struct {
	Text       string  `json:"text"`
	Confidence float32 `json:"confidence"`
	Model      string  `json:"model"`
}

type detectHandsResponse struct {
	HandsDetected  bool               `json:"handsDetected"`
	NumHands       int                `json:"numHands"`
	HandLandmarks  [][]hands.Landmark `json:"handLandmarks"`
	AnnotatedImage string             `json:"annotatedImage"`
}

type ttsRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

type ttsResponse struct {
	Audio string `json:"audio"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{"status": "healthy"}
	if h.registry != nil {
		models := map[string]bool{}
		for _, e := range h.registry.Entries() {
			models[string(e.Spec.Set)] = e.Available()
		}
		status["models"] = models
	}
	status["handDetector"] = h.detector != nil

	writeJSON(w, http.StatusOK, status)
}

// InterpretSign classifies the posted image against every loaded model and
// answers with the most confident result.
func (h *Handler) InterpretSign(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	imageBytes, ok := h.readImage(w, r)
	if !ok {
		return
	}

	decision, err := h.interpreter.Classify(imageBytes)
	if errors.Is(err, sign.ErrNoResult) {
		h.logger.Print("no model produced a valid prediction")
		writeJSON(w, http.StatusInternalServerError, interpretResponse{
			Text:       "Unable to interpret sign (Prediction failed for all models)",
			Confidence: 0,
			Model:      "none",
		})
		return
	}
	if err != nil {
		h.logger.Printf("interpret-sign error: %v", err)
		writeError(w, http.StatusInternalServerError,
			"Internal server error processing sign interpretation")
		return
	}

	resp := interpretResponse{
		Text:       decision.Label,
		Confidence: decision.Confidence,
		Model:      string(decision.Set),
	}
	if !decision.Accepted {
		resp.Text = fmt.Sprintf("Unable to interpret sign (Low Confidence: %s?)", decision.Label)
	}
	writeJSON(w, http.StatusOK, resp)
}

// DetectHands runs the landmark detector on the posted image and returns the
// keypoints plus an annotated copy.
func (h *Handler) DetectHands(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.detector == nil {
		writeError(w, http.StatusServiceUnavailable, "Hand detection is unavailable")
		return
	}

	imageBytes, ok := h.readImage(w, r)
	if !ok {
		return
	}

	img, _, err := image.Decode(bytes.NewReader(imageBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Could not decode image")
		return
	}

	detected, err := h.detector.Detect(img)
	if err != nil {
		h.logger.Printf("hand detection error: %v", err)
		writeError(w, http.StatusInternalServerError,
			"Internal server error processing hand detection")
		return
	}

	annotated := hands.Annotate(img, detected)
	var buf bytes.Buffer
	if err := png.Encode(&buf, annotated); err != nil {
		h.logger.Printf("annotated image encoding error: %v", err)
		writeError(w, http.StatusInternalServerError,
			"Internal server error processing hand detection")
		return
	}

	landmarks := make([][]hands.Landmark, 0, len(detected))
	for _, hand := range detected {
		landmarks = append(landmarks, hand.Landmarks)
	}

	writeJSON(w, http.StatusOK, detectHandsResponse{
		HandsDetected:  len(detected) > 0,
		NumHands:       len(detected),
		HandLandmarks:  landmarks,
		AnnotatedImage: dataURL("image/png", buf.Bytes()),
	})
}

// TextToSpeech converts the posted text to MP3 audio.
func (h *Handler) TextToSpeech(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ttsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Text == "" || req.Language == "" {
		writeError(w, http.StatusBadRequest, "Text and language are required")
		return
	}

	audio, err := h.synth.Synthesize(r.Context(), req.Text, req.Language)
	if err != nil {
		h.logger.Printf("text-to-speech error: %v", err)
		writeError(w, http.StatusInternalServerError,
			"Internal server error processing text-to-speech")
		return
	}

	writeJSON(w, http.StatusOK, ttsResponse{Audio: dataURL("audio/mpeg", audio)})
}

// readImage parses the JSON body and decodes its image field, writing the
// 400-class response itself on failure.
func (h *Handler) readImage(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	var req imageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return nil, false
	}
	if req.Image == "" {
		writeError(w, http.StatusBadRequest, "Image data is required")
		return nil, false
	}

	imageBytes, err := decodeImagePayload(req.Image)
	if err != nil {
		h.logger.Printf("bad image payload: %v", err)
		writeError(w, http.StatusBadRequest, "Invalid base64 data")
		return nil, false
	}
	return imageBytes, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
