package pgs

import (
	"fmt"
	"image"
	"image/color"
)

// assembleBitmap expands decoded scanlines through the active palette into a
// flat RGBA image of the object's declared dimensions. Scanlines are written
// in decode order, row-major. A run referencing a palette entry id absent
// from the active palette is filled with transparent black; this is a
// deliberate fallback for malformed streams, not an error.
//
// The total pixel count must match width by height exactly, otherwise
// ErrBitmapSizeMismatch is returned and no bitmap at all.
func assembleBitmap(obj objectDef, lines []scanline, pal palette) (*image.RGBA, error) {
	width, height := int(obj.width), int(obj.height)
	want := width * height

	m := image.NewRGBA(image.Rect(0, 0, width, height))

	pixels := 0
	for _, line := range lines {
		for _, r := range line {
			c, ok := pal[r.color]
			if !ok {
				// Documented fallback for palette misses
				c = color.RGBA{}
			}
			if pixels+r.length > want {
				return nil, fmt.Errorf("%w: object %d overflows %dx%d",
					ErrBitmapSizeMismatch, obj.objectID, width, height)
			}
			for i := 0; i < r.length; i++ {
				o := (pixels + i) * 4
				m.Pix[o+0] = c.R
				m.Pix[o+1] = c.G
				m.Pix[o+2] = c.B
				m.Pix[o+3] = c.A
			}
			pixels += r.length
		}
	}

	if pixels != want {
		return nil, fmt.Errorf("%w: object %d decoded %d of %d pixels",
			ErrBitmapSizeMismatch, obj.objectID, pixels, want)
	}

	return m, nil
}
