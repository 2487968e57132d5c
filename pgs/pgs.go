/*
Package pgs implements a decoder and encoder for HDMV Presentation Graphic
Stream (PGS) subtitles, the bitmap subtitle format used on Blu-ray discs and
carried inside Matroska containers.

A PGS stream is a sequence of typed, length-prefixed segments. A palette
definition segment carries up to 256 YCbCr+alpha colors, a window definition
segment carries the on-screen regions, a presentation composition segment
ties objects to windows and an object definition segment carries the
run-length encoded pixel data for one subtitle bitmap. A display set is
closed by a zero-length end segment. All multi-byte fields are big-endian.

The decoder walks one segment stream and materializes the first complete
subtitle bitmap it finds, expanding the object's pixel runs through the most
recently defined palette. Object data split across multiple object definition
segments is not supported; only the common single-segment case is handled.
*/
package pgs

import "errors"

type segmentType byte

const (
	segmentPaletteDef              segmentType = 0x14
	segmentObjectDef               segmentType = 0x15
	segmentPresentationComposition segmentType = 0x16
	segmentWindowDef               segmentType = 0x17
	segmentEndDisplaySet           segmentType = 0x80
)

var (
	// ErrEndOfBuffer is returned when a read is attempted past the end of
	// the segment stream or of a segment payload.
	ErrEndOfBuffer = errors.New("pgs: read past end of buffer")

	// ErrUnknownSegmentType is returned when a segment header carries a
	// type tag outside the five known values.
	ErrUnknownSegmentType = errors.New("pgs: unknown segment type")

	// ErrInvalidSegmentLength is returned when a segment other than the
	// end of a display set declares a zero-length payload.
	ErrInvalidSegmentLength = errors.New("pgs: invalid segment length")

	// ErrBitmapSizeMismatch is returned when the decoded pixel runs of an
	// object do not cover its declared width by height exactly.
	ErrBitmapSizeMismatch = errors.New("pgs: bitmap size mismatch")
)
