package sign

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, c color.Color, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func specFor(t *testing.T, set SymbolSet) *SymbolSpec {
	t.Helper()
	for _, s := range Specs() {
		if s.Set == set {
			return s
		}
	}
	t.Fatalf("unknown symbol set %q", set)
	return nil
}

func TestPreprocess_Shapes(t *testing.T) {
	tests := []struct {
		set      SymbolSet
		wantLen  int
		channels int
	}{
		{SetDigit, 32 * 32 * 3, 3},
		{SetASL, 28 * 28 * 1, 1},
		{SetISL, 32 * 32 * 3, 3},
	}

	imageBytes := encodePNG(t, color.RGBA{R: 120, G: 80, B: 40, A: 255}, 64, 48)

	for _, tt := range tests {
		t.Run(string(tt.set), func(t *testing.T) {
			spec := specFor(t, tt.set)
			if spec.Channels != tt.channels {
				t.Errorf("channels: got %d, want %d", spec.Channels, tt.channels)
			}
			got, err := Preprocess(imageBytes, spec)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != tt.wantLen {
				t.Errorf("tensor length: got %d, want %d", len(got), tt.wantLen)
			}
		})
	}
}

func TestPreprocess_NormalizedRange(t *testing.T) {
	imageBytes := encodePNG(t, color.RGBA{R: 200, G: 10, B: 255, A: 255}, 40, 40)
	for _, spec := range Specs() {
		got, err := Preprocess(imageBytes, spec)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", spec.Set, err)
		}
		for i, v := range got {
			if v < 0 || v > 1 {
				t.Fatalf("%s: value %f at index %d outside [0,1]", spec.Set, v, i)
			}
		}
	}
}

func TestPreprocess_ColorChannels(t *testing.T) {
	// A pure red image keeps its channels apart in the HWC layout.
	imageBytes := encodePNG(t, color.RGBA{R: 255, A: 255}, 32, 32)
	spec := specFor(t, SetDigit)

	got, err := Preprocess(imageBytes, spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < len(got); i += 3 {
		if got[i] < 0.99 {
			t.Fatalf("red channel at %d: got %f, want ~1", i, got[i])
		}
		if got[i+1] > 0.01 || got[i+2] > 0.01 {
			t.Fatalf("green/blue at %d: got %f/%f, want ~0", i, got[i+1], got[i+2])
		}
	}
}

func TestPreprocess_GrayscaleLuma(t *testing.T) {
	tests := []struct {
		name string
		c    color.Color
		want float32
	}{
		{"white", color.RGBA{R: 255, G: 255, B: 255, A: 255}, 1.0},
		{"black", color.RGBA{A: 255}, 0.0},
		{"pure-green", color.RGBA{G: 255, A: 255}, 0.587},
	}

	spec := specFor(t, SetASL)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Preprocess(encodePNG(t, tt.c, 28, 28), spec)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for i, v := range got {
				if diff := v - tt.want; diff > 0.01 || diff < -0.01 {
					t.Fatalf("value at %d: got %f, want %f", i, v, tt.want)
				}
			}
		})
	}
}

func TestPreprocess_DecodeError(t *testing.T) {
	_, err := Preprocess([]byte("not an image"), specFor(t, SetDigit))
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("got %v, want DecodeError", err)
	}
}
