/*
Package srt implements a reader for SubRip subtitle files, the reference
format that extracted subtitles are matched against. Only the pieces the
matcher needs are modelled; cue index, timing and text.
*/
package srt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robmikh/showorder/text"
)

// Cue is one subtitle with its display interval.
type Cue struct {
	Index int
	Start time.Duration
	End   time.Duration
	Text  string
}

// Parse reads SubRip cues from r. Blocks that do not follow the
// index/timing/text layout are skipped rather than failing the whole file;
// real-world SRT files are frequently sloppy.
func Parse(r io.Reader) ([]Cue, error) {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), 1024*1024)

	var cues []Cue
	var block []string
	flush := func() {
		if cue, ok := parseBlock(block); ok {
			cues = append(cues, cue)
		}
		block = block[:0]
	}

	for s.Scan() {
		line := strings.TrimRight(s.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		block = append(block, line)
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	flush()

	return cues, nil
}

// ParseFile reads SubRip cues from the named file.
func ParseFile(path string) ([]Cue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cues, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cues, nil
}

// Texts returns the sanitized text of up to n cues from the named file, in
// cue order, skipping cues that sanitize to nothing. n <= 0 means no limit.
func Texts(path string, n int, banned ...string) ([]string, error) {
	cues, err := ParseFile(path)
	if err != nil {
		return nil, err
	}

	var texts []string
	for _, cue := range cues {
		clean := text.Sanitize(cue.Text, banned...)
		if clean == "" {
			continue
		}
		texts = append(texts, clean)
		if n > 0 && len(texts) >= n {
			break
		}
	}
	return texts, nil
}

func parseBlock(lines []string) (Cue, bool) {
	// A leading BOM on the very first cue index is common
	if len(lines) > 0 {
		lines[0] = strings.TrimPrefix(lines[0], "\uFEFF")
	}
	if len(lines) < 3 {
		return Cue{}, false
	}

	index, err := strconv.Atoi(strings.TrimSpace(lines[0]))
	if err != nil {
		return Cue{}, false
	}

	start, end, err := parseTiming(lines[1])
	if err != nil {
		return Cue{}, false
	}

	return Cue{
		Index: index,
		Start: start,
		End:   end,
		Text:  strings.Join(lines[2:], " "),
	}, true
}

func parseTiming(line string) (time.Duration, time.Duration, error) {
	parts := strings.Split(line, "-->")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("srt: malformed timing line %q", line)
	}

	start, err := parseTimestamp(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, err
	}
	end, err := parseTimestamp(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// parseTimestamp parses the HH:MM:SS,mmm SubRip timestamp format. A period
// instead of a comma before the milliseconds is tolerated.
func parseTimestamp(s string) (time.Duration, error) {
	var h, m, sec, ms int
	n, err := fmt.Sscanf(strings.ReplaceAll(s, ".", ","), "%d:%d:%d,%d", &h, &m, &sec, &ms)
	if err != nil || n != 4 {
		return 0, fmt.Errorf("srt: malformed timestamp %q", s)
	}
	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(sec)*time.Second +
		time.Duration(ms)*time.Millisecond, nil
}
