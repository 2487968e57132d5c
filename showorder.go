/*
Package showorder matches mislabeled video files against reference subtitle
files. It decodes each file's image subtitles, runs them through character
recognition and compares the resulting text against reference SubRip files
to work out which file is which.
*/
package showorder

import (
	"context"
	"errors"
	"image"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/robmikh/showorder/mkv"
	"github.com/robmikh/showorder/ocr"
	"github.com/robmikh/showorder/pgs"
	"github.com/robmikh/showorder/text"
)

// ShowOrder ties together subtitle extraction, recognition, caching and
// matching.
type ShowOrder struct {
	db     *TextDB
	engine ocr.Engine
	config *Config
	logger *log.Logger
}

// New returns a ShowOrder using the given text cache, recognition engine
// and configuration. The cache may be nil to disable caching.
func New(db *TextDB, engine ocr.Engine, config *Config, logger *log.Logger) *ShowOrder {
	return &ShowOrder{
		db:     db,
		engine: engine,
		config: config,
		logger: logger,
	}
}

// FileText is the sanitized subtitle text extracted from one file.
type FileText struct {
	Path  string
	Texts []string
}

// Flattened joins the individual subtitles into one comparable string.
func (f FileText) Flattened() string {
	return strings.Join(f.Texts, " ")
}

// LoadSubtitles returns the sanitized text of the first subtitles of one
// video file, consulting the cache before doing any decoding. A file
// without a matching subtitle track yields no text rather than an error.
func (s *ShowOrder) LoadSubtitles(ctx context.Context, file string, track int64) ([]string, error) {
	crc, err := crcFile(file)
	if err != nil {
		return nil, err
	}

	if s.db != nil {
		texts, err := s.db.FindTexts(crc, track, s.config.Language, s.config.MaxCount)
		if err != nil {
			return nil, err
		}
		if texts != nil {
			s.logger.Printf("Using cached text for \"%s\"\n", file)
			return texts, nil
		}
	}

	texts, err := s.extractTexts(ctx, file, track)
	if err != nil {
		return nil, err
	}

	if s.db != nil {
		if err := s.db.SetTexts(crc, track, s.config.Language, s.config.MaxCount, texts); err != nil {
			return nil, err
		}
	}

	return texts, nil
}

func (s *ShowOrder) extractTexts(ctx context.Context, file string, track int64) ([]string, error) {
	if strings.EqualFold(filepath.Ext(file), ".sup") {
		return s.supTexts(ctx, file)
	}

	texts := []string{}
	err := mkv.WalkBlocks(file, track, s.config.Language, func(payload []byte) (bool, error) {
		m, err := pgs.DecodeFirstBitmap(payload)
		if err != nil {
			return false, err
		}
		if m == nil {
			return false, nil
		}
		clean, err := s.recognize(ctx, m)
		if err != nil {
			return false, err
		}
		if clean == "" {
			return false, nil
		}
		texts = append(texts, clean)
		return s.config.MaxCount > 0 && len(texts) >= s.config.MaxCount, nil
	})
	if errors.Is(err, mkv.ErrNoSubtitleTrack) {
		s.logger.Printf("No matching subtitle track in \"%s\"\n", file)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return texts, nil
}

func (s *ShowOrder) supTexts(ctx context.Context, file string) ([]string, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	bitmaps, err := pgs.DecodeSup(f)
	if err != nil {
		return nil, err
	}

	texts := []string{}
	for _, m := range bitmaps {
		clean, err := s.recognize(ctx, m)
		if err != nil {
			return nil, err
		}
		if clean == "" {
			continue
		}
		texts = append(texts, clean)
		if s.config.MaxCount > 0 && len(texts) >= s.config.MaxCount {
			break
		}
	}
	return texts, nil
}

func (s *ShowOrder) recognize(ctx context.Context, m image.Image) (string, error) {
	raw, err := s.engine.Recognize(ctx, m)
	if err != nil {
		return "", err
	}
	return text.Sanitize(raw, s.config.BannedWords...), nil
}
