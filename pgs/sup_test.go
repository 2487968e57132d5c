package pgs

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage(w, h int) *image.Paletted {
	pm := image.NewPaletted(image.Rect(0, 0, w, h), color.Palette{
		color.RGBA{0, 0, 0, 0},
		color.RGBA{255, 255, 255, 255},
	})
	pm.SetColorIndex(0, 0, 1)
	return pm
}

func TestSupRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	err := EncodeSup(&buf, []image.Image{testImage(4, 2), testImage(2, 3)})
	require.NoError(t, err)

	bitmaps, err := DecodeSup(&buf)
	require.NoError(t, err)
	require.Len(t, bitmaps, 2)
	assert.Equal(t, 4, bitmaps[0].Rect.Dx())
	assert.Equal(t, 2, bitmaps[0].Rect.Dy())
	assert.Equal(t, 2, bitmaps[1].Rect.Dx())
	assert.Equal(t, 3, bitmaps[1].Rect.Dy())
}

func TestDecodeSupEmpty(t *testing.T) {
	bitmaps, err := DecodeSup(bytes.NewReader(nil))
	require.NoError(t, err)
	assert.Empty(t, bitmaps)
}

func TestDecodeSupBadMagic(t *testing.T) {
	data := []byte{'X', 'X', 0, 0, 0, 0, 0, 0, 0, 0, 0x80, 0x00, 0x00}

	_, err := DecodeSup(bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrBadSupMagic)
}

func TestDecodeSupTruncatedHeader(t *testing.T) {
	_, err := DecodeSup(bytes.NewReader([]byte{'P', 'G', 0, 0}))
	assert.ErrorIs(t, err, ErrEndOfBuffer)
}
