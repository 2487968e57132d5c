package pgs

// run is one horizontal stretch of identically colored pixels. The color is
// a palette entry id; 0 is the implicit background color.
type run struct {
	color  byte
	length int
}

// scanline is an ordered sequence of runs terminated on the wire by an
// explicit end-of-line marker.
type scanline []run

// decodeRuns decodes the run-length encoded pixel data of an object
// definition segment into scanlines. The grammar, read strictly left to
// right:
//
//	CCCCCCCC                            one pixel in color C (C > 0)
//	00000000 00000000                   end of line
//	00000000 00LLLLLL                   L pixels in color 0
//	00000000 01LLLLLL LLLLLLLL          L pixels in color 0, 12-bit L
//	00000000 10LLLLLL CCCCCCCC          L pixels in color C
//	00000000 11LLLLLL LLLLLLLL CCCCCCCC L pixels in color C, 12-bit L
//
// Decoding stops when the payload is exhausted. Runs accumulated after the
// last end-of-line marker belong to an unterminated line and are discarded.
func decodeRuns(payload []byte) ([]scanline, error) {
	c := newCursor(payload)

	var lines []scanline
	var current scanline

	for !c.atEnd() {
		b, err := c.readByte()
		if err != nil {
			return nil, err
		}

		if b != 0 {
			current = append(current, run{color: b, length: 1})
			continue
		}

		control, err := c.readByte()
		if err != nil {
			return nil, err
		}

		if control == 0 {
			lines = append(lines, current)
			current = nil
			continue
		}

		code := control >> 6
		length := int(control & 0x3f)

		var r run
		switch code {
		case 0:
			r = run{color: 0, length: length}
		case 1:
			ext, err := c.readByte()
			if err != nil {
				return nil, err
			}
			r = run{color: 0, length: length<<8 | int(ext)}
		case 2:
			color, err := c.readByte()
			if err != nil {
				return nil, err
			}
			r = run{color: color, length: length}
		case 3:
			ext, err := c.readByte()
			if err != nil {
				return nil, err
			}
			color, err := c.readByte()
			if err != nil {
				return nil, err
			}
			r = run{color: color, length: length<<8 | int(ext)}
		}
		current = append(current, r)
	}

	return lines, nil
}
