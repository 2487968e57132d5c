package showorder

import (
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testShowOrder() *ShowOrder {
	return New(nil, nil, DefaultConfig(), log.New(io.Discard, "", 0))
}

func TestTrimToShortest(t *testing.T) {
	a, b := trimToShortest("abcdef", "abc")
	assert.Equal(t, "abc", a)
	assert.Equal(t, "abc", b)

	// Trimming counts runes, not bytes
	a, b = trimToShortest("héllo", "hé")
	assert.Equal(t, "hé", a)
	assert.Equal(t, "hé", b)

	a, b = trimToShortest("", "anything")
	assert.Empty(t, a)
	assert.Empty(t, b)
}

func TestDistances(t *testing.T) {
	s := testShowOrder()

	inputs := []FileText{
		{Path: "a.mkv", Texts: []string{"the quick brown fox"}},
	}
	references := []FileText{
		{Path: "one.srt", Texts: []string{"the quick brown fox"}},
		{Path: "two.srt", Texts: []string{"a completely different line"}},
	}

	distances := s.Distances(inputs, references)
	require.Contains(t, distances, "a.mkv")
	list := distances["a.mkv"]
	require.Len(t, list, 2)

	// Nearest first, and the identical text is distance zero
	assert.Equal(t, "one.srt", list[0].Reference)
	assert.Zero(t, list[0].Distance)
	assert.Greater(t, list[1].Distance, 0)
}

func TestBuildResult(t *testing.T) {
	inputs := []FileText{
		{Path: "a.mkv"},
		{Path: "b.mkv"},
	}
	references := []FileText{
		{Path: "one.srt"},
		{Path: "two.srt"},
	}
	distances := map[string][]Distance{
		"a.mkv": {{Reference: "one.srt", Distance: 3}, {Reference: "two.srt", Distance: 40}},
		"b.mkv": {{Reference: "two.srt", Distance: 5}, {Reference: "one.srt", Distance: 50}},
	}

	result := BuildResult(inputs, references, distances, 0)
	require.Len(t, result.Mappings, 2)
	assert.Equal(t, Mapping{Input: "a.mkv", Reference: "one.srt", Distance: 3}, result.Mappings[0])
	assert.Equal(t, Mapping{Input: "b.mkv", Reference: "two.srt", Distance: 5}, result.Mappings[1])
	assert.Empty(t, result.Duplicates)
	assert.Empty(t, result.Unmapped)
	assert.True(t, result.HighConfidence)
}

func TestBuildResultDuplicates(t *testing.T) {
	inputs := []FileText{
		{Path: "a.mkv"},
		{Path: "b.mkv"},
	}
	references := []FileText{
		{Path: "one.srt"},
		{Path: "two.srt"},
	}
	distances := map[string][]Distance{
		"a.mkv": {{Reference: "one.srt", Distance: 3}, {Reference: "two.srt", Distance: 40}},
		"b.mkv": {{Reference: "one.srt", Distance: 5}, {Reference: "two.srt", Distance: 50}},
	}

	result := BuildResult(inputs, references, distances, 0)
	assert.Equal(t, map[string]int{"one.srt": 2}, result.Duplicates)
	assert.Equal(t, []string{"two.srt"}, result.Unmapped)
	assert.False(t, result.HighConfidence)
}

func TestBuildResultMaxDistance(t *testing.T) {
	inputs := []FileText{{Path: "a.mkv"}}
	references := []FileText{{Path: "one.srt"}}
	distances := map[string][]Distance{
		"a.mkv": {{Reference: "one.srt", Distance: 10}},
	}

	// The threshold is exclusive
	result := BuildResult(inputs, references, distances, 10)
	assert.Empty(t, result.Mappings)
	assert.Equal(t, []string{"one.srt"}, result.Unmapped)

	result = BuildResult(inputs, references, distances, 11)
	assert.Len(t, result.Mappings, 1)
}

func TestRenameScript(t *testing.T) {
	result := Result{
		Mappings: []Mapping{
			{Input: "/videos/a.mkv", Reference: "/refs/Episode 1.eng.srt"},
			{Input: "/videos/Episode 2.mkv", Reference: "/refs/Episode 2.srt"},
		},
	}

	script := result.RenameScript()
	// The second input is already named correctly
	require.Len(t, script, 1)
	assert.Equal(t, `mv "a.mkv" "Episode 1.mkv"`, script[0])
}
