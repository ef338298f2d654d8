package transformer

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// Per-channel normalization constants of the MNIST training distribution.
const (
	normalizeMean = 0.1307
	normalizeStd  = 0.3081
)

func decodeImage(data string) (image.Image, error) {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("error decoding base64 payload: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("error decoding image: %w", err)
	}

	return img, nil
}

// imageToTensor converts an image into a single-channel tensor in
// [channel][row][col] order, pixel values scaled to [0,1] and shifted by the
// normalization constants.
func imageToTensor(img image.Image) [][][]float32 {
	bounds := img.Bounds()
	rows := make([][]float32, bounds.Dy())

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row := make([]float32, bounds.Dx())
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			grey := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			row[x-bounds.Min.X] = (float32(grey.Y)/255 - normalizeMean) / normalizeStd
		}
		rows[y-bounds.Min.Y] = row
	}

	return [][][]float32{rows}
}
