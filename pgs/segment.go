package pgs

import "fmt"

type segmentHeader struct {
	typ    segmentType
	length int
}

// readSegmentHeader reads the 1-byte type tag and 2-byte payload length at
// the current segment boundary. The length excludes the header itself and
// may only be zero for the end of a display set.
func readSegmentHeader(c *cursor) (segmentHeader, error) {
	tag, err := c.readByte()
	if err != nil {
		return segmentHeader{}, err
	}

	typ := segmentType(tag)
	switch typ {
	case segmentPaletteDef, segmentObjectDef, segmentPresentationComposition,
		segmentWindowDef, segmentEndDisplaySet:
	default:
		return segmentHeader{}, fmt.Errorf("%w: 0x%02x", ErrUnknownSegmentType, tag)
	}

	length, err := c.readUint16()
	if err != nil {
		return segmentHeader{}, err
	}

	if length == 0 && typ != segmentEndDisplaySet {
		return segmentHeader{}, fmt.Errorf("%w: zero-length 0x%02x segment", ErrInvalidSegmentLength, tag)
	}

	return segmentHeader{typ: typ, length: int(length)}, nil
}

type compositionObject struct {
	objectID  uint16
	windowID  byte
	positionX uint16
	positionY uint16
}

type presentationComposition struct {
	videoWidth        uint16
	videoHeight       uint16
	frameRate         byte
	compositionNumber uint16
	state             byte
	paletteID         byte
	objects           []compositionObject
}

// decodeComposition decodes a presentation composition segment payload. The
// composition state is carried in the top byte of a 16-bit field; only that
// byte is retained.
func decodeComposition(payload []byte) (presentationComposition, error) {
	c := newCursor(payload)
	var pc presentationComposition
	var err error

	if pc.videoWidth, err = c.readUint16(); err != nil {
		return pc, err
	}
	if pc.videoHeight, err = c.readUint16(); err != nil {
		return pc, err
	}
	if pc.frameRate, err = c.readByte(); err != nil {
		return pc, err
	}
	if pc.compositionNumber, err = c.readUint16(); err != nil {
		return pc, err
	}
	state, err := c.readUint16()
	if err != nil {
		return pc, err
	}
	pc.state = byte(state >> 8)
	if pc.paletteID, err = c.readByte(); err != nil {
		return pc, err
	}
	count, err := c.readByte()
	if err != nil {
		return pc, err
	}

	pc.objects = make([]compositionObject, 0, count)
	for i := 0; i < int(count); i++ {
		var o compositionObject
		if o.objectID, err = c.readUint16(); err != nil {
			return pc, err
		}
		if o.windowID, err = c.readByte(); err != nil {
			return pc, err
		}
		// Cropping flag, unused
		if _, err = c.readByte(); err != nil {
			return pc, err
		}
		if o.positionX, err = c.readUint16(); err != nil {
			return pc, err
		}
		if o.positionY, err = c.readUint16(); err != nil {
			return pc, err
		}
		pc.objects = append(pc.objects, o)
	}

	return pc, nil
}

type window struct {
	windowID  byte
	positionX uint16
	positionY uint16
	width     uint16
	height    uint16
}

// decodeWindows decodes a window definition segment payload; a 1-byte count
// followed by that many 9-byte window records.
func decodeWindows(payload []byte) ([]window, error) {
	c := newCursor(payload)

	count, err := c.readByte()
	if err != nil {
		return nil, err
	}

	windows := make([]window, 0, count)
	for i := 0; i < int(count); i++ {
		var w window
		if w.windowID, err = c.readByte(); err != nil {
			return nil, err
		}
		if w.positionX, err = c.readUint16(); err != nil {
			return nil, err
		}
		if w.positionY, err = c.readUint16(); err != nil {
			return nil, err
		}
		if w.width, err = c.readUint16(); err != nil {
			return nil, err
		}
		if w.height, err = c.readUint16(); err != nil {
			return nil, err
		}
		windows = append(windows, w)
	}

	return windows, nil
}

type objectDef struct {
	objectID       uint16
	version        byte
	lastInSequence byte
	dataLength     uint32
	width          uint16
	height         uint16
}

// decodeObjectHeader decodes the fixed header of an object definition
// segment, leaving the cursor at the start of the run-length encoded pixel
// data. The declared 24-bit data length is retained but not trusted; the
// pixel data is always decoded up to the end of the segment payload.
func decodeObjectHeader(c *cursor) (objectDef, error) {
	var o objectDef
	var err error

	if o.objectID, err = c.readUint16(); err != nil {
		return o, err
	}
	if o.version, err = c.readByte(); err != nil {
		return o, err
	}
	if o.lastInSequence, err = c.readByte(); err != nil {
		return o, err
	}
	if o.dataLength, err = c.readUint24(); err != nil {
		return o, err
	}
	if o.width, err = c.readUint16(); err != nil {
		return o, err
	}
	if o.height, err = c.readUint16(); err != nil {
		return o, err
	}

	return o, nil
}
