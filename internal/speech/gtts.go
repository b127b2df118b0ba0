// Package speech converts text to MP3 audio via a Google-Translate-style TTS
// endpoint. Audio is assembled entirely in memory; nothing touches the
// filesystem, so concurrent requests cannot collide.
package speech

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"
)

// DefaultEndpoint is the public translate TTS endpoint.
const DefaultEndpoint = "https://translate.google.com/translate_tts"

// maxChunkLen is the longest text fragment the endpoint accepts per call.
const maxChunkLen = 100

// Synthesizer converts text to audio bytes.
type Synthesizer interface {
	// Synthesize returns MP3 audio for the text in the given language.
	Synthesize(ctx context.Context, text, language string) ([]byte, error)
}

// Client is a Synthesizer backed by an HTTP TTS endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient builds a client for the given endpoint; an empty endpoint means
// DefaultEndpoint.
func NewClient(endpoint string, httpClient *http.Client) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{endpoint: endpoint, httpClient: httpClient}
}

// NormalizeLanguage reduces a region-qualified code to its base language:
// "en-US" becomes "en". Already-bare codes pass through unchanged.
func NormalizeLanguage(language string) string {
	base, _, _ := strings.Cut(language, "-")
	return base
}

// Synthesize fetches MP3 audio for the text, splitting it into chunks the
// endpoint accepts and concatenating the resulting audio.
func (c *Client) Synthesize(ctx context.Context, text, language string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("speech: empty text")
	}
	lang := NormalizeLanguage(language)
	if lang == "" {
		return nil, fmt.Errorf("speech: empty language code")
	}

	var audio bytes.Buffer
	for _, chunk := range splitText(text, maxChunkLen) {
		part, err := c.fetchChunk(ctx, chunk, lang)
		if err != nil {
			return nil, err
		}
		audio.Write(part)
	}
	return audio.Bytes(), nil
}

func (c *Client) fetchChunk(ctx context.Context, text, lang string) ([]byte, error) {
	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("client", "tw-ob")
	params.Set("tl", lang)
	params.Set("q", text)
	params.Set("textlen", fmt.Sprintf("%d", utf8.RuneCountInString(text)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("speech: building request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("speech: synthesis request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("speech: synthesis endpoint returned %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// splitText breaks text into fragments of at most maxLen runes, preferring
// whitespace boundaries so words stay intact.
func splitText(text string, maxLen int) []string {
	words := strings.Fields(text)
	var chunks []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
		}
	}

	for _, word := range words {
		// A single oversized word is split hard.
		for utf8.RuneCountInString(word) > maxLen {
			flush()
			runes := []rune(word)
			chunks = append(chunks, string(runes[:maxLen]))
			word = string(runes[maxLen:])
		}
		joined := utf8.RuneCountInString(word)
		if current.Len() > 0 {
			joined += utf8.RuneCountInString(current.String()) + 1
		}
		if joined > maxLen {
			flush()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(word)
	}
	flush()
	return chunks
}
