package showorder

import (
	"errors"
	"io/fs"
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

// Config carries the knobs shared by every command.
type Config struct {
	// Language selects the subtitle track to extract and the reference
	// files to trust; any ISO 639 code works.
	Language string `toml:"language"`
	// MaxCount caps how many subtitles are read per file. The first few
	// are nearly always enough to identify an episode.
	MaxCount int `toml:"max_count"`
	// MaxDistance rejects matches at or beyond this Levenshtein distance.
	// Zero disables the check.
	MaxDistance int `toml:"max_distance"`
	// Workers bounds the number of files decoded concurrently.
	Workers int `toml:"workers"`
	// BannedWords drops subtitles containing any of these words, on top
	// of the built-in credit markers.
	BannedWords []string `toml:"banned_words"`
	// Tesseract overrides the recognition binary name.
	Tesseract string `toml:"tesseract"`
}

func DefaultConfig() *Config {
	return &Config{
		Language: "en",
		MaxCount: 5,
		Workers:  4,
	}
}

// LoadConfig reads a TOML config file, filling in defaults for anything the
// file leaves out. A missing file is not an error and yields the defaults.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return config, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(b, config); err != nil {
		return nil, err
	}

	if config.MaxCount < 0 {
		config.MaxCount = 0
	}
	if config.Workers < 1 {
		config.Workers = 1
	}

	return config, nil
}
