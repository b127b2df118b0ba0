package main

import (
	"flag"
	"log"
	"net/http"
	"os"

	"github.com/google/uuid"

	"github.com/signwave/sli-api/internal/config"
	"github.com/signwave/sli-api/internal/handlers"
	"github.com/signwave/sli-api/internal/hands"
	"github.com/signwave/sli-api/internal/sign"
	"github.com/signwave/sli-api/internal/speech"
)

func enableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

// withRequestID tags every request with an id, echoed in the response header
// and prefixed onto its log line.
func withRequestID(logger *log.Logger, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)
		logger.Printf("[%s] %s %s", id, r.Method, r.URL.Path)
		next(w, r)
	}
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to the server config file")
	flag.Parse()

	logger := log.Default()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Printf("Config file not usable (%v), falling back to defaults", err)
		cfg = config.Default()
	}

	modelPaths := map[sign.SymbolSet]string{}
	for name, file := range cfg.Models {
		modelPaths[sign.SymbolSet(name)] = cfg.ModelPath(file)
	}

	registry := sign.NewRegistry(modelPaths, logger)
	defer registry.Close()
	arbiter := sign.NewArbiter(registry, cfg.Threshold, logger)

	var detector hands.Detector
	if cfg.Hands.Model != "" {
		detector, err = hands.NewONNXDetector(cfg.ModelPath(cfg.Hands.Model), hands.Config{
			MaxHands:      cfg.Hands.MaxHands,
			MinConfidence: cfg.Hands.MinConfidence,
			InputSize:     cfg.Hands.InputSize,
		})
		if err != nil {
			logger.Printf("Hand landmark detector disabled: %v", err)
			detector = nil
		} else {
			defer detector.Close()
		}
	}

	synth := speech.NewClient(cfg.TTS.Endpoint, nil)

	handler := handlers.NewHandler(arbiter, detector, synth, registry, logger)

	route := func(fn http.HandlerFunc) http.HandlerFunc {
		return enableCORS(withRequestID(logger, fn))
	}

	http.HandleFunc("/health", route(handler.Health))
	http.HandleFunc("/interpret-sign", route(handler.InterpretSign))
	http.HandleFunc("/detect-hands", route(handler.DetectHands))
	http.HandleFunc("/text-to-speech", route(handler.TextToSpeech))

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	logger.Printf("Server starting on port %s", port)
	logger.Printf("Classifiers loaded: %v", registry.Loaded())
	logger.Printf("Hand detection available: %v", detector != nil)
	logger.Println("Endpoints:")
	logger.Println("  GET  /health         - Health check")
	logger.Println("  POST /interpret-sign - Classify a sign image")
	logger.Println("  POST /detect-hands   - Detect and annotate hand landmarks")
	logger.Println("  POST /text-to-speech - Convert text to MP3 audio")

	if err := http.ListenAndServe(":"+port, nil); err != nil {
		logger.Fatalf("Server failed: %v", err)
	}
}
