package handlers

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// decodeImagePayload turns a request image field into raw bytes. The field
// may be a bare base64 string or a data URL; anything up to and including a
// "base64," marker is stripped first, so both forms decode identically.
func decodeImagePayload(payload string) ([]byte, error) {
	if _, rest, found := strings.Cut(payload, "base64,"); found {
		payload = rest
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 data: %w", err)
	}
	return data, nil
}

// dataURL wraps raw bytes as a base64 data URL with the given MIME type.
func dataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
