/*
Package ocr defines the character recognition boundary used to turn decoded
subtitle bitmaps into text, along with an implementation backed by the
tesseract command line tool.
*/
package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os/exec"
	"strings"
)

// Engine recognizes the text in a subtitle bitmap.
type Engine interface {
	Recognize(ctx context.Context, m image.Image) (string, error)
}

// Tesseract runs the external tesseract binary over stdin/stdout. The zero
// value is not usable; use NewTesseract.
type Tesseract struct {
	binary   string
	language string
}

// NewTesseract returns an Engine invoking the named tesseract binary with
// the given ISO 639-2 language. Empty arguments select "tesseract" and
// "eng".
func NewTesseract(binary, language string) *Tesseract {
	if binary == "" {
		binary = "tesseract"
	}
	if language == "" {
		language = "eng"
	}
	return &Tesseract{binary: binary, language: language}
}

// Recognize renders m to PNG and pipes it through tesseract. Subtitle
// bitmaps are mostly transparent, which recognition engines handle poorly,
// so the image is first flattened onto an opaque white background.
func (t *Tesseract) Recognize(ctx context.Context, m image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, Flatten(m, color.RGBA{255, 255, 255, 255})); err != nil {
		return "", err
	}

	cmd := exec.CommandContext(ctx, t.binary, "stdin", "stdout", "-l", t.language, "--psm", "6")
	cmd.Stdin = &buf

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("ocr: %s: %w: %s", t.binary, err, strings.TrimSpace(stderr.String()))
	}

	return strings.TrimSpace(out.String()), nil
}

// Flatten alpha-blends m onto an opaque background color, discarding the
// alpha channel.
func Flatten(m image.Image, background color.RGBA) *image.RGBA {
	b := m.Bounds()
	out := image.NewRGBA(b)
	draw.Draw(out, b, image.NewUniform(background), image.Point{}, draw.Src)
	draw.Draw(out, b, m, b.Min, draw.Over)
	return out
}
