package pgs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRunsShortBackgroundRun(t *testing.T) {
	// Code 0: run of 3 pixels in color 0, then end of line
	lines, err := decodeRuns([]byte{0x00, 0x03, 0x00, 0x00})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, scanline{{color: 0, length: 3}}, lines[0])
}

func TestDecodeRunsLiteral(t *testing.T) {
	lines, err := decodeRuns([]byte{0x05, 0x00, 0x00})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, scanline{{color: 5, length: 1}}, lines[0])
}

func TestDecodeRunsLongBackgroundRun(t *testing.T) {
	// Code 1: 0x41 = 01_000001, extension 0x00 -> length (1<<8)|0 = 256
	lines, err := decodeRuns([]byte{0x00, 0x41, 0x00, 0x00, 0x00})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, scanline{{color: 0, length: 256}}, lines[0])
}

func TestDecodeRunsShortColorRun(t *testing.T) {
	// Code 2: 0x82 = 10_000010, color byte 0x07 -> 2 pixels of color 7
	lines, err := decodeRuns([]byte{0x00, 0x82, 0x07, 0x00, 0x00})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, scanline{{color: 7, length: 2}}, lines[0])
}

func TestDecodeRunsLongColorRun(t *testing.T) {
	// Code 3: 0xc1 = 11_000001, extension 0x2c, color 0x09 -> 300 pixels
	lines, err := decodeRuns([]byte{0x00, 0xc1, 0x2c, 0x09, 0x00, 0x00})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, scanline{{color: 9, length: 300}}, lines[0])
}

func TestDecodeRunsMultipleLines(t *testing.T) {
	lines, err := decodeRuns([]byte{
		0x01, 0x02, 0x00, 0x00,
		0x00, 0x84, 0x03, 0x00, 0x00,
	})
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, scanline{{color: 1, length: 1}, {color: 2, length: 1}}, lines[0])
	assert.Equal(t, scanline{{color: 3, length: 4}}, lines[1])
}

func TestDecodeRunsEmptyLine(t *testing.T) {
	lines, err := decodeRuns([]byte{0x00, 0x00})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Empty(t, lines[0])
}

func TestDecodeRunsDiscardsUnterminatedLine(t *testing.T) {
	// The trailing literal never sees an end-of-line marker
	lines, err := decodeRuns([]byte{0x01, 0x00, 0x00, 0x02})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, scanline{{color: 1, length: 1}}, lines[0])
}

func TestDecodeRunsTruncatedControl(t *testing.T) {
	for _, payload := range [][]byte{
		{0x00},             // control byte missing
		{0x00, 0x41},       // code 1 extension missing
		{0x00, 0x82},       // code 2 color missing
		{0x00, 0xc1, 0x2c}, // code 3 color missing
	} {
		_, err := decodeRuns(payload)
		assert.ErrorIs(t, err, ErrEndOfBuffer, "payload % x", payload)
	}
}
