/*
Package mkv extracts Presentation Graphic Stream subtitle data from Matroska
containers. It understands just enough of the container to enumerate
subtitle tracks and stream the block payloads of one chosen track; each
payload is a self-contained PGS segment stream.
*/
package mkv

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/remko/go-mkvparse"
	"golang.org/x/text/language"

	"github.com/robmikh/showorder/pgs"
)

// CodecPGS is the Matroska codec id for HDMV PGS subtitle tracks.
const CodecPGS = "S_HDMV/PGS"

const trackTypeSubtitle = 0x11

// ErrNoSubtitleTrack is returned when no subtitle track matches the
// requested track number or language.
var ErrNoSubtitleTrack = errors.New("mkv: no matching subtitle track")

// errStopParse aborts a parse early once the caller has what it needs.
var errStopParse = errors.New("mkv: stop parsing")

// Track describes one subtitle track of a Matroska file.
type Track struct {
	Number   int64
	CodecID  string
	Language string
	Name     string

	compAlgo     int64
	compSettings []byte
}

// IsPGS reports whether the track carries PGS subtitle data.
func (t Track) IsPGS() bool {
	return t.CodecID == CodecPGS
}

// trackCollector accumulates subtitle track entries until the end of the
// Tracks master element, then hands them to done.
type trackCollector struct {
	mkvparse.DefaultHandler

	tracks  []Track
	current *Track
	done    func([]Track) error
}

func (c *trackCollector) HandleMasterBegin(id mkvparse.ElementID, info mkvparse.ElementInfo) (bool, error) {
	switch id {
	case mkvparse.SegmentElement, mkvparse.TracksElement,
		mkvparse.ContentEncodingsElement, mkvparse.ContentEncodingElement:
		return true, nil
	case mkvparse.TrackEntryElement:
		c.current = &Track{compAlgo: compNone}
		return true, nil
	case mkvparse.ContentCompressionElement:
		// Algo defaults to zlib when the element is present but empty
		if c.current != nil {
			c.current.compAlgo = compZlib
		}
		return true, nil
	}
	return false, nil
}

func (c *trackCollector) HandleMasterEnd(id mkvparse.ElementID, info mkvparse.ElementInfo) error {
	switch id {
	case mkvparse.TrackEntryElement:
		if c.current != nil {
			c.tracks = append(c.tracks, *c.current)
			c.current = nil
		}
	case mkvparse.TracksElement:
		if c.done != nil {
			return c.done(c.tracks)
		}
	}
	return nil
}

func (c *trackCollector) HandleInteger(id mkvparse.ElementID, value int64, info mkvparse.ElementInfo) error {
	if c.current == nil {
		return nil
	}
	switch id {
	case mkvparse.TrackNumberElement:
		c.current.Number = value
	case mkvparse.TrackTypeElement:
		if value != trackTypeSubtitle {
			// Not a subtitle track; forget it
			c.current = nil
		}
	case mkvparse.ContentCompAlgoElement:
		c.current.compAlgo = value
	}
	return nil
}

func (c *trackCollector) HandleString(id mkvparse.ElementID, value string, info mkvparse.ElementInfo) error {
	if c.current == nil {
		return nil
	}
	switch id {
	case mkvparse.CodecIDElement:
		c.current.CodecID = value
	case mkvparse.LanguageElement:
		c.current.Language = value
	case mkvparse.NameElement:
		c.current.Name = value
	}
	return nil
}

func (c *trackCollector) HandleBinary(id mkvparse.ElementID, value []byte, info mkvparse.ElementInfo) error {
	if c.current != nil && id == mkvparse.ContentCompSettingsElement {
		c.current.compSettings = append([]byte(nil), value...)
	}
	return nil
}

// Tracks returns the subtitle tracks of the named Matroska file.
func Tracks(path string) ([]Track, error) {
	c := &trackCollector{done: func([]Track) error { return errStopParse }}

	if err := mkvparse.ParsePath(path, c); err != nil && !errors.Is(err, errStopParse) {
		return nil, fmt.Errorf("mkv: %s: %w", path, err)
	}

	return c.tracks, nil
}

// SelectTrack picks a subtitle track. A positive number selects that exact
// track; otherwise the first PGS track matching the wanted language wins.
// An empty language matches any track.
func SelectTrack(tracks []Track, number int64, lang string) (*Track, error) {
	for i, t := range tracks {
		if number > 0 {
			if t.Number == number {
				return &tracks[i], nil
			}
			continue
		}
		if t.IsPGS() && languageMatches(t.Language, lang) {
			return &tracks[i], nil
		}
	}
	return nil, ErrNoSubtitleTrack
}

// blockScanner streams decoded block payloads of one track, selected once
// the track list is known.
type blockScanner struct {
	trackCollector

	pick   func([]Track) (*Track, error)
	target *Track
	fn     func(payload []byte) (bool, error)
}

func (s *blockScanner) HandleMasterBegin(id mkvparse.ElementID, info mkvparse.ElementInfo) (bool, error) {
	switch id {
	case mkvparse.ClusterElement, mkvparse.BlockGroupElement:
		return true, nil
	}
	return s.trackCollector.HandleMasterBegin(id, info)
}

func (s *blockScanner) HandleBinary(id mkvparse.ElementID, value []byte, info mkvparse.ElementInfo) error {
	switch id {
	case mkvparse.SimpleBlockElement, mkvparse.BlockElement:
		if s.target == nil {
			return nil
		}
		track, payload, err := parseBlock(value)
		if err != nil {
			return err
		}
		if track != s.target.Number {
			return nil
		}
		payload, err = decodeContent(s.target, payload)
		if err != nil {
			return err
		}
		stop, err := s.fn(payload)
		if err != nil {
			return err
		}
		if stop {
			return errStopParse
		}
		return nil
	}
	return s.trackCollector.HandleBinary(id, value, info)
}

// WalkBlocks streams the block payloads of one subtitle track of the named
// file, selected by track number or language as in SelectTrack. fn may
// return stop to end the walk early.
func WalkBlocks(path string, number int64, lang string, fn func(payload []byte) (stop bool, err error)) error {
	s := &blockScanner{fn: fn}
	s.pick = func(tracks []Track) (*Track, error) {
		return SelectTrack(tracks, number, lang)
	}
	s.done = func(tracks []Track) error {
		target, err := s.pick(tracks)
		if err != nil {
			return err
		}
		s.target = target
		return nil
	}

	if err := mkvparse.ParsePath(path, s); err != nil && !errors.Is(err, errStopParse) {
		return fmt.Errorf("mkv: %s: %w", path, err)
	}
	return nil
}

// FirstBitmaps decodes up to n subtitle bitmaps from the selected track.
// Blocks that decode to no bitmap (display set clears) do not count towards
// n. n <= 0 means no limit.
func FirstBitmaps(path string, number int64, lang string, n int) ([]*image.RGBA, error) {
	var bitmaps []*image.RGBA
	err := WalkBlocks(path, number, lang, func(payload []byte) (bool, error) {
		m, err := pgs.DecodeFirstBitmap(payload)
		if err != nil {
			return false, err
		}
		if m == nil {
			return false, nil
		}
		bitmaps = append(bitmaps, m)
		return n > 0 && len(bitmaps) >= n, nil
	})
	if err != nil {
		return nil, err
	}
	return bitmaps, nil
}

// languageMatches compares a Matroska track language against the wanted
// language, tolerating any mix of ISO 639-1/639-2 codes and region
// subtags. Matroska defaults to "eng" when the track carries no language.
func languageMatches(trackLang, want string) bool {
	if want == "" {
		return true
	}
	if trackLang == "" {
		trackLang = "eng"
	}

	tb, ok1 := baseLanguage(trackLang)
	wb, ok2 := baseLanguage(want)
	if !ok1 || !ok2 {
		return strings.EqualFold(trackLang, want)
	}
	return tb == wb
}

func baseLanguage(s string) (language.Base, bool) {
	tag, err := language.Parse(s)
	if err != nil {
		return language.Base{}, false
	}
	b, conf := tag.Base()
	return b, conf > language.No
}
