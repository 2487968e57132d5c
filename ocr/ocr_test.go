package ocr

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlatten(t *testing.T) {
	m := image.NewRGBA(image.Rect(0, 0, 2, 1))
	m.SetRGBA(0, 0, color.RGBA{0, 0, 0, 0})      // fully transparent
	m.SetRGBA(1, 0, color.RGBA{10, 20, 30, 255}) // fully opaque

	out := Flatten(m, color.RGBA{255, 255, 255, 255})

	// Transparent pixels take the background, opaque pixels survive
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, out.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{10, 20, 30, 255}, out.RGBAAt(1, 0))
}

func TestFlattenPartialAlpha(t *testing.T) {
	m := image.NewRGBA(image.Rect(0, 0, 1, 1))
	// Premultiplied half-opaque black
	m.SetRGBA(0, 0, color.RGBA{0, 0, 0, 128})

	out := Flatten(m, color.RGBA{255, 255, 255, 255})

	got := out.RGBAAt(0, 0)
	assert.Equal(t, uint8(255), got.A)
	assert.InDelta(t, 127, got.R, 1)
	assert.InDelta(t, 127, got.G, 1)
	assert.InDelta(t, 127, got.B, 1)
}

func TestNewTesseractDefaults(t *testing.T) {
	e := NewTesseract("", "")
	assert.Equal(t, "tesseract", e.binary)
	assert.Equal(t, "eng", e.language)
}
