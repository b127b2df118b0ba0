package sign

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/nfnt/resize"
)

// Preprocess converts raw image bytes into the flat float32 tensor the given
// symbol set's model expects: resized to the set's spatial dimensions,
// converted to grayscale or RGB per the set's channel contract, intensities
// normalized to [0, 1], laid out HWC with an implicit leading batch dimension
// of 1. Pure function of its inputs.
func Preprocess(imageBytes []byte, spec *SymbolSpec) ([]float32, error) {
	img, _, err := image.Decode(bytes.NewReader(imageBytes))
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	return preprocessDecoded(img, spec), nil
}

func preprocessDecoded(img image.Image, spec *SymbolSpec) []float32 {
	resized := resize.Resize(uint(spec.Width), uint(spec.Height), img, resize.Lanczos3)

	data := make([]float32, spec.InputLen())
	for y := 0; y < spec.Height; y++ {
		for x := 0; x < spec.Width; x++ {
			r, g, b, _ := resized.At(x, y).RGBA()

			// RGBA() is 16-bit per channel.
			rNorm := float32(r) / 65535.0
			gNorm := float32(g) / 65535.0
			bNorm := float32(b) / 65535.0

			base := (y*spec.Width + x) * spec.Channels
			if spec.Channels == 1 {
				// ITU-R 601 luma, same weights PIL uses for mode L.
				data[base] = 0.299*rNorm + 0.587*gNorm + 0.114*bNorm
			} else {
				data[base] = rNorm
				data[base+1] = gNorm
				data[base+2] = bNorm
			}
		}
	}
	return data
}
