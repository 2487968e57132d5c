package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "Oh Man, The Lifeboats", "oh man the lifeboats"},
		{"strips tags", "<i>let me go</i>", "let me go"},
		{"strips sound cues", "[thunder] hold on", "hold on"},
		{"strips stage directions", "(laughing) stop it", "stop it"},
		{"strips speaker prefix", "POPEYE: well blow me down", "well blow me down"},
		{"strips punctuation", "don't drop me, now!", "dont drop me now"},
		{"trims", "  spread out  ", "spread out"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.in))
		})
	}
}

func TestSanitizeBannedWords(t *testing.T) {
	assert.Empty(t, Sanitize("Subtitles by SomeGroup"))
	assert.Empty(t, Sanitize("CORRECTIONS BY someone"))
	assert.Empty(t, Sanitize("Captioned for your convenience"))
}

func TestSanitizeExtraBannedWords(t *testing.T) {
	assert.Empty(t, Sanitize("synced by ripper", "synced by"))
	assert.Equal(t, "hello there", Sanitize("hello there", "synced by"))
}

func TestSanitizeNonASCIIPreserved(t *testing.T) {
	assert.Equal(t, "café au lait", Sanitize("Café au lait!"))
}
