package showorder

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextDB(t *testing.T) {
	db, err := NewTextDB(filepath.Join(t.TempDir(), "showorder.db"))
	require.NoError(t, err)
	defer db.Close()

	texts, err := db.FindTexts("DEADBEEF", 0, "en", 5)
	require.NoError(t, err)
	assert.Nil(t, texts)

	want := []string{"first subtitle", "second subtitle"}
	require.NoError(t, db.SetTexts("DEADBEEF", 0, "en", 5, want))

	texts, err = db.FindTexts("DEADBEEF", 0, "en", 5)
	require.NoError(t, err)
	assert.Equal(t, want, texts)

	// Different extraction parameters are separate cache entries
	texts, err = db.FindTexts("DEADBEEF", 0, "en", 10)
	require.NoError(t, err)
	assert.Nil(t, texts)

	texts, err = db.FindTexts("DEADBEEF", 3, "en", 5)
	require.NoError(t, err)
	assert.Nil(t, texts)
}

func TestTextDBEmpty(t *testing.T) {
	db, err := NewTextDB(filepath.Join(t.TempDir(), "showorder.db"))
	require.NoError(t, err)
	defer db.Close()

	// A cached empty result is distinguishable from a cache miss
	require.NoError(t, db.SetTexts("DEADBEEF", 0, "en", 5, nil))

	texts, err := db.FindTexts("DEADBEEF", 0, "en", 5)
	require.NoError(t, err)
	assert.NotNil(t, texts)
	assert.Empty(t, texts)
}

func TestTextDBReplace(t *testing.T) {
	db, err := NewTextDB(filepath.Join(t.TempDir(), "showorder.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.SetTexts("DEADBEEF", 0, "en", 5, []string{"old"}))
	require.NoError(t, db.SetTexts("DEADBEEF", 0, "en", 5, []string{"new"}))

	texts, err := db.FindTexts("DEADBEEF", 0, "en", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"new"}, texts)
}
