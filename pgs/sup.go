package pgs

import (
	"errors"
	"fmt"
	"image"
	"io"
)

// Standalone .sup files carry the same segments as a Matroska block but
// prefix each one with a 2-byte magic and presentation/decoding timestamps.
var supMagic = [2]byte{'P', 'G'}

// ErrBadSupMagic is returned when a .sup stream does not start a segment
// with the "PG" marker.
var ErrBadSupMagic = errors.New("pgs: bad sup segment magic")

// DecodeSup reads a .sup stream and returns one bitmap per display set, in
// stream order. Display sets that define no object (for example the clearing
// set at the end of every subtitle) produce no bitmap. Timestamps are
// discarded.
func DecodeSup(r io.Reader) ([]*image.RGBA, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	c := newCursor(data)

	var bitmaps []*image.RGBA
	var set []byte
	for !c.atEnd() {
		header, err := c.readBytes(10)
		if err != nil {
			return nil, err
		}
		if header[0] != supMagic[0] || header[1] != supMagic[1] {
			return nil, fmt.Errorf("%w: 0x%02x%02x", ErrBadSupMagic, header[0], header[1])
		}
		// PTS and DTS in header[2:10] are not needed for decoding

		tag, err := c.readByte()
		if err != nil {
			return nil, err
		}
		length, err := c.readUint16()
		if err != nil {
			return nil, err
		}
		payload, err := c.readBytes(int(length))
		if err != nil {
			return nil, err
		}

		set = append(set, tag)
		set = appendUint16(set, length)
		set = append(set, payload...)

		if segmentType(tag) == segmentEndDisplaySet {
			m, err := DecodeFirstBitmap(set)
			if err != nil {
				return nil, err
			}
			if m != nil {
				bitmaps = append(bitmaps, m)
			}
			set = set[:0]
		}
	}

	// A trailing display set without an end segment still decodes
	if len(set) > 0 {
		m, err := DecodeFirstBitmap(set)
		if err != nil {
			return nil, err
		}
		if m != nil {
			bitmaps = append(bitmaps, m)
		}
	}

	return bitmaps, nil
}

type supWriter struct {
	w   io.Writer
	pts uint32
}

func (s *supWriter) Write(p []byte) (int, error) {
	header := []byte{
		supMagic[0], supMagic[1],
		byte(s.pts >> 24), byte(s.pts >> 16), byte(s.pts >> 8), byte(s.pts),
		0, 0, 0, 0, // DTS
	}
	if _, err := s.w.Write(header); err != nil {
		return 0, err
	}
	return s.w.Write(p)
}

// EncodeSup writes the images to w as a .sup stream, one display set per
// image. Presentation timestamps are synthesized at fixed three second
// intervals (90 kHz clock); decoding timestamps are left at zero.
func EncodeSup(w io.Writer, images []image.Image) error {
	const interval = 3 * 90000

	for i, m := range images {
		sw := &supWriter{w: w, pts: uint32(i * interval)}
		if err := Encode(sw, m); err != nil {
			return err
		}
	}
	return nil
}
