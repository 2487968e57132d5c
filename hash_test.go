package showorder

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrcFile(t *testing.T) {
	dir := t.TempDir()

	a := filepath.Join(dir, "a.mkv")
	require.NoError(t, os.WriteFile(a, []byte("some video data"), 0o644))

	crc1, err := crcFile(a)
	require.NoError(t, err)
	assert.Len(t, crc1, 8)

	crc2, err := crcFile(a)
	require.NoError(t, err)
	assert.Equal(t, crc1, crc2)

	b := filepath.Join(dir, "b.mkv")
	require.NoError(t, os.WriteFile(b, []byte("other video data"), 0o644))

	crc3, err := crcFile(b)
	require.NoError(t, err)
	assert.NotEqual(t, crc1, crc3)
}

func TestCrcFileMissing(t *testing.T) {
	_, err := crcFile(filepath.Join(t.TempDir(), "nope.mkv"))
	assert.Error(t, err)
}
