package pgs

// cursor is a sequential big-endian reader over an immutable byte slice.
// Every read is bounds-checked up front; a failed read returns
// ErrEndOfBuffer and leaves the offset untouched.
type cursor struct {
	buf []byte
	off int
}

func newCursor(b []byte) *cursor {
	return &cursor{buf: b}
}

func (c *cursor) atEnd() bool {
	return c.off >= len(c.buf)
}

func (c *cursor) remaining() int {
	return len(c.buf) - c.off
}

func (c *cursor) readByte() (byte, error) {
	if c.remaining() < 1 {
		return 0, ErrEndOfBuffer
	}
	b := c.buf[c.off]
	c.off++
	return b, nil
}

func (c *cursor) readUint16() (uint16, error) {
	if c.remaining() < 2 {
		return 0, ErrEndOfBuffer
	}
	v := uint16(c.buf[c.off])<<8 | uint16(c.buf[c.off+1])
	c.off += 2
	return v, nil
}

// readUint24 reads three bytes as the low 24 bits of a big-endian 32-bit
// value.
func (c *cursor) readUint24() (uint32, error) {
	if c.remaining() < 3 {
		return 0, ErrEndOfBuffer
	}
	v := uint32(c.buf[c.off])<<16 | uint32(c.buf[c.off+1])<<8 | uint32(c.buf[c.off+2])
	c.off += 3
	return v, nil
}

func (c *cursor) readBytes(n int) ([]byte, error) {
	if n < 0 || c.remaining() < n {
		return nil, ErrEndOfBuffer
	}
	b := c.buf[c.off : c.off+n]
	c.off += n
	return b, nil
}
