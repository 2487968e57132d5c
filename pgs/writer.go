package pgs

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"

	"github.com/ericpauley/go-quantize/quantize"
)

const (
	maxPaletteEntries = 256
	maxRunLength      = 0x3fff // 6+8 bit length field
)

// The decoder transform inverted; BT.601-range with BT.709 coefficients.
const (
	lumaR, lumaG, lumaB = 0.183, 0.614, 0.062
	cbR, cbG, cbB       = -0.101, -0.339, 0.439
	crR, crG, crB       = 0.439, -0.399, -0.040
)

func entryFromColor(id byte, c color.Color) paletteEntry {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	r, g, b := float64(n.R), float64(n.G), float64(n.B)

	return paletteEntry{
		id:            id,
		luminance:     clampChannel(16 + lumaR*r + lumaG*g + lumaB*b),
		colorDiffRed:  clampChannel(128 + crR*r + crG*g + crB*b),
		colorDiffBlue: clampChannel(128 + cbR*r + cbG*g + cbB*b),
		alpha:         n.A,
	}
}

// writeSegment emits one whole segment per Write call so that wrapping
// writers (the .sup framing) can prefix each segment individually.
func writeSegment(w io.Writer, typ segmentType, payload []byte) error {
	if len(payload) > 0xffff {
		return fmt.Errorf("pgs: segment payload of %d bytes is too large", len(payload))
	}
	b := make([]byte, 0, 3+len(payload))
	b = append(b, byte(typ))
	b = appendUint16(b, uint16(len(payload)))
	b = append(b, payload...)
	_, err := w.Write(b)
	return err
}

func appendUint16(b []byte, v uint16) []byte {
	return append(b, byte(v>>8), byte(v))
}

func marshalComposition(pc presentationComposition) []byte {
	b := make([]byte, 0, 11+8*len(pc.objects))
	b = appendUint16(b, pc.videoWidth)
	b = appendUint16(b, pc.videoHeight)
	b = append(b, pc.frameRate)
	b = appendUint16(b, pc.compositionNumber)
	b = appendUint16(b, uint16(pc.state)<<8)
	b = append(b, pc.paletteID, byte(len(pc.objects)))
	for _, o := range pc.objects {
		b = appendUint16(b, o.objectID)
		b = append(b, o.windowID, 0x00)
		b = appendUint16(b, o.positionX)
		b = appendUint16(b, o.positionY)
	}
	return b
}

func marshalWindows(windows []window) []byte {
	b := make([]byte, 0, 1+9*len(windows))
	b = append(b, byte(len(windows)))
	for _, w := range windows {
		b = append(b, w.windowID)
		b = appendUint16(b, w.positionX)
		b = appendUint16(b, w.positionY)
		b = appendUint16(b, w.width)
		b = appendUint16(b, w.height)
	}
	return b
}

func marshalPalette(paletteID, version byte, entries []paletteEntry) []byte {
	b := make([]byte, 0, 2+5*len(entries))
	b = append(b, paletteID, version)
	for _, e := range entries {
		b = append(b, e.id, e.luminance, e.colorDiffRed, e.colorDiffBlue, e.alpha)
	}
	return b
}

func marshalObject(obj objectDef, rle []byte) []byte {
	b := make([]byte, 0, 11+len(rle))
	b = appendUint16(b, obj.objectID)
	b = append(b, obj.version, obj.lastInSequence)
	b = append(b, byte(obj.dataLength>>16), byte(obj.dataLength>>8), byte(obj.dataLength))
	b = appendUint16(b, obj.width)
	b = appendUint16(b, obj.height)
	return append(b, rle...)
}

// encodeRuns is the inverse of decodeRuns; it serializes scanlines using the
// shortest code that fits each run and terminates every line explicitly.
func encodeRuns(lines []scanline) []byte {
	var b []byte
	for _, line := range lines {
		for _, r := range line {
			length := r.length
			for length > 0 {
				n := length
				if n > maxRunLength {
					n = maxRunLength
				}
				switch {
				case r.color == 0 && n < 64:
					b = append(b, 0x00, byte(n))
				case r.color == 0:
					b = append(b, 0x00, 0x40|byte(n>>8), byte(n))
				case n == 1:
					b = append(b, r.color)
				case n < 64:
					b = append(b, 0x00, 0x80|byte(n), r.color)
				default:
					b = append(b, 0x00, 0xc0|byte(n>>8), byte(n), r.color)
				}
				length -= n
			}
		}
		b = append(b, 0x00, 0x00)
	}
	return b
}

func scanlines(pm *image.Paletted) []scanline {
	b := pm.Bounds()
	lines := make([]scanline, 0, b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		var line scanline
		for x := b.Min.X; x < b.Max.X; x++ {
			idx := pm.ColorIndexAt(x, y)
			if n := len(line); n > 0 && line[n-1].color == idx {
				line[n-1].length++
			} else {
				line = append(line, run{color: idx, length: 1})
			}
		}
		lines = append(lines, line)
	}
	return lines
}

// Encode writes the image m to w as one complete PGS display set; a
// presentation composition, a single full-size window, a palette and a
// single object, closed by an end segment. Images with more than 256 colors
// are quantized first.
func Encode(w io.Writer, m image.Image) error {
	b := m.Bounds()
	if b.Dx() < 1 || b.Dy() < 1 || b.Dx() > 0xffff || b.Dy() > 0xffff {
		return errors.New("pgs: image dimensions do not fit the format")
	}

	pm, _ := m.(*image.Paletted)
	if pm == nil || len(pm.Palette) > maxPaletteEntries {
		q := quantize.MedianCutQuantizer{}
		pm = image.NewPaletted(b, q.Quantize(make(color.Palette, 0, maxPaletteEntries), m))
		draw.Draw(pm, b, m, b.Min, draw.Src)
	}

	// Adjust image so that top-left corner is at (0, 0)
	if pm.Rect.Min != (image.Point{}) {
		dup := *pm
		dup.Rect = dup.Rect.Sub(dup.Rect.Min)
		pm = &dup
	}

	width, height := uint16(pm.Rect.Dx()), uint16(pm.Rect.Dy())

	entries := make([]paletteEntry, len(pm.Palette))
	for i, c := range pm.Palette {
		entries[i] = entryFromColor(byte(i), c)
	}

	rle := encodeRuns(scanlines(pm))

	pc := presentationComposition{
		videoWidth:        width,
		videoHeight:       height,
		frameRate:         0x10,
		compositionNumber: 0,
		state:             0x80, // epoch start
		paletteID:         0,
		objects: []compositionObject{
			{objectID: 0, windowID: 0, positionX: 0, positionY: 0},
		},
	}
	obj := objectDef{
		objectID:       0,
		version:        0,
		lastInSequence: 0xc0, // first and last in sequence
		dataLength:     uint32(4 + len(rle)),
		width:          width,
		height:         height,
	}
	windows := []window{{windowID: 0, width: width, height: height}}

	if err := writeSegment(w, segmentPresentationComposition, marshalComposition(pc)); err != nil {
		return err
	}
	if err := writeSegment(w, segmentWindowDef, marshalWindows(windows)); err != nil {
		return err
	}
	if err := writeSegment(w, segmentPaletteDef, marshalPalette(0, 0, entries)); err != nil {
		return err
	}
	if err := writeSegment(w, segmentObjectDef, marshalObject(obj, rle)); err != nil {
		return err
	}
	return writeSegment(w, segmentEndDisplaySet, nil)
}
