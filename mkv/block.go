package mkv

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// Matroska ContentCompAlgo values; compNone marks a track with no
// ContentCompression element at all.
const (
	compNone            int64 = -1
	compZlib            int64 = 0
	compHeaderStripping int64 = 3
)

// ErrLacingUnsupported is returned for blocks using Matroska lacing, which
// never occurs on PGS subtitle tracks.
var ErrLacingUnsupported = errors.New("mkv: block lacing is not supported")

var errBadBlock = errors.New("mkv: malformed block")

// readVint decodes one EBML variable-width integer; the count of leading
// zero bits of the first byte selects the total width.
func readVint(data []byte) (value uint64, n int, err error) {
	if len(data) == 0 || data[0] == 0 {
		return 0, 0, errBadBlock
	}

	length := 1
	for mask := byte(0x80); data[0]&mask == 0; mask >>= 1 {
		length++
	}
	if len(data) < length {
		return 0, 0, errBadBlock
	}

	value = uint64(data[0] & (0xff >> length))
	for i := 1; i < length; i++ {
		value = value<<8 | uint64(data[i])
	}
	return value, length, nil
}

// parseBlock splits a SimpleBlock or Block element into its track number
// and frame payload. The relative timecode is not needed and is discarded.
func parseBlock(data []byte) (track int64, payload []byte, err error) {
	number, n, err := readVint(data)
	if err != nil {
		return 0, nil, err
	}

	// Two timecode bytes and one flag byte follow the track number
	if len(data) < n+3 {
		return 0, nil, errBadBlock
	}
	flags := data[n+2]
	if flags&0x06 != 0 {
		return 0, nil, ErrLacingUnsupported
	}

	return int64(number), data[n+3:], nil
}

// decodeContent undoes a track's ContentEncoding on one block payload.
func decodeContent(t *Track, payload []byte) ([]byte, error) {
	switch t.compAlgo {
	case compNone:
		return payload, nil
	case compZlib:
		r, err := zlib.NewReader(bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("mkv: track %d: %w", t.Number, err)
		}
		defer r.Close()
		return io.ReadAll(r)
	case compHeaderStripping:
		out := make([]byte, 0, len(t.compSettings)+len(payload))
		out = append(out, t.compSettings...)
		return append(out, payload...), nil
	default:
		return nil, fmt.Errorf("mkv: track %d: unsupported compression algorithm %d", t.Number, t.compAlgo)
	}
}
