package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	_ "image/jpeg"

	"golang.org/x/image/draw"
)

// preprocess normalizes an image before recognition: convert to
// grayscale and upscale 2x with a sharp resampling kernel. Scanned
// filings are frequently low-resolution; Tesseract does markedly better
// on the upscaled version.
func preprocess(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := src.Bounds()
	gray := image.NewGray(bounds)
	draw.Draw(gray, bounds, src, bounds.Min, draw.Src)

	scaled := image.NewGray(image.Rect(0, 0, bounds.Dx()*2, bounds.Dy()*2))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), gray, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}
