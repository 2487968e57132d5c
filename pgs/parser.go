package pgs

import "image"

// DecodeFirstBitmap walks the segment stream in data and returns the first
// subtitle bitmap it can fully construct.
//
// Palette definition segments replace the active palette wholesale; window
// and presentation composition segments are decoded for validation and then
// discarded. The first object definition segment terminates the walk and
// its bitmap is returned, expanded through whatever palette is active at
// that point. An object seen before any palette decodes entirely to the
// transparent-black fallback.
//
// If the buffer is exhausted without an object definition the result is
// (nil, nil). Any malformed segment aborts the whole invocation; there is
// no per-segment recovery.
//
// The decoder holds no state across calls and is safe to invoke
// concurrently on independent buffers.
func DecodeFirstBitmap(data []byte) (*image.RGBA, error) {
	c := newCursor(data)

	var active palette
	for !c.atEnd() {
		header, err := readSegmentHeader(c)
		if err != nil {
			return nil, err
		}

		if header.length == 0 {
			// End of display set, nothing to consume
			continue
		}

		payload, err := c.readBytes(header.length)
		if err != nil {
			return nil, err
		}

		switch header.typ {
		case segmentPaletteDef:
			if active, err = decodePalette(payload); err != nil {
				return nil, err
			}
		case segmentPresentationComposition:
			if _, err = decodeComposition(payload); err != nil {
				return nil, err
			}
		case segmentWindowDef:
			if _, err = decodeWindows(payload); err != nil {
				return nil, err
			}
		case segmentObjectDef:
			sc := newCursor(payload)
			obj, err := decodeObjectHeader(sc)
			if err != nil {
				return nil, err
			}
			rest, err := sc.readBytes(sc.remaining())
			if err != nil {
				return nil, err
			}
			lines, err := decodeRuns(rest)
			if err != nil {
				return nil, err
			}
			return assembleBitmap(obj, lines, active)
		}
	}

	return nil, nil
}
