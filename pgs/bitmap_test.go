package pgs

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembleBitmap(t *testing.T) {
	obj := objectDef{width: 2, height: 1}
	lines := []scanline{{{color: 7, length: 2}}}
	pal := palette{7: color.RGBA{10, 20, 30, 255}}

	m, err := assembleBitmap(obj, lines, pal)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Rect.Dx())
	assert.Equal(t, 1, m.Rect.Dy())
	assert.Equal(t, []uint8{10, 20, 30, 255, 10, 20, 30, 255}, m.Pix)
}

func TestAssembleBitmapPaletteMiss(t *testing.T) {
	obj := objectDef{width: 2, height: 1}
	lines := []scanline{{{color: 9, length: 1}, {color: 7, length: 1}}}
	pal := palette{7: color.RGBA{10, 20, 30, 255}}

	m, err := assembleBitmap(obj, lines, pal)
	require.NoError(t, err)
	// Entry 9 is absent from the palette and falls back to transparent black
	assert.Equal(t, []uint8{0, 0, 0, 0, 10, 20, 30, 255}, m.Pix)
}

func TestAssembleBitmapNilPalette(t *testing.T) {
	obj := objectDef{width: 1, height: 1}
	lines := []scanline{{{color: 42, length: 1}}}

	m, err := assembleBitmap(obj, lines, nil)
	require.NoError(t, err)
	assert.Equal(t, []uint8{0, 0, 0, 0}, m.Pix)
}

func TestAssembleBitmapTooFewPixels(t *testing.T) {
	obj := objectDef{width: 4, height: 2}
	lines := []scanline{{{color: 1, length: 4}}}

	_, err := assembleBitmap(obj, lines, palette{1: color.RGBA{255, 255, 255, 255}})
	assert.ErrorIs(t, err, ErrBitmapSizeMismatch)
}

func TestAssembleBitmapTooManyPixels(t *testing.T) {
	obj := objectDef{width: 2, height: 1}
	lines := []scanline{{{color: 1, length: 3}}}

	_, err := assembleBitmap(obj, lines, palette{1: color.RGBA{255, 255, 255, 255}})
	assert.ErrorIs(t, err, ErrBitmapSizeMismatch)
}
