package pgs

import "image/color"

type paletteEntry struct {
	id            byte
	luminance     byte // Y
	colorDiffRed  byte // Cr
	colorDiffBlue byte // Cb
	alpha         byte
}

// palette maps palette entry ids to converted colors. Entry ids need not be
// contiguous. A nil palette is valid; every lookup then falls back to
// transparent black.
type palette map[byte]color.RGBA

// BT.601-range luma with BT.709 chroma coefficients, the transform used by
// HDMV graphics streams.
const (
	lumaScale = 1.164
	redCr     = 1.793
	greenCb   = -0.213
	greenCr   = -0.533
	blueCb    = 2.112
)

func clampChannel(v float64) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return uint8(v + 0.5)
}

// convertEntry converts one YCbCr+alpha palette entry to RGBA. Out-of-range
// results are clamped to [0, 255]; the alpha channel passes through
// untouched.
func convertEntry(e paletteEntry) color.RGBA {
	y := lumaScale * (float64(e.luminance) - 16)
	cb := float64(e.colorDiffBlue) - 128
	cr := float64(e.colorDiffRed) - 128

	return color.RGBA{
		R: clampChannel(y + redCr*cr),
		G: clampChannel(y + greenCb*cb + greenCr*cr),
		B: clampChannel(y + blueCb*cb),
		A: e.alpha,
	}
}

// decodePalette decodes a palette definition segment payload; a 2-byte
// header followed by 5-byte entries until the payload is exhausted. There is
// no entry count field in the format. A later entry with a repeated id
// overwrites the earlier one.
func decodePalette(payload []byte) (palette, error) {
	c := newCursor(payload)

	// Palette id and version, unused beyond validation
	if _, err := c.readBytes(2); err != nil {
		return nil, err
	}

	p := make(palette)
	for !c.atEnd() {
		b, err := c.readBytes(5)
		if err != nil {
			return nil, err
		}
		e := paletteEntry{
			id:            b[0],
			luminance:     b[1],
			colorDiffRed:  b[2],
			colorDiffBlue: b[3],
			alpha:         b[4],
		}
		p[e.id] = convertEntry(e)
	}

	return p, nil
}
