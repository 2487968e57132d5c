package showorder

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/robmikh/showorder/srt"
)

// Distance pairs a reference file with its edit distance from one input
// file's subtitle text.
type Distance struct {
	Reference string
	Distance  int
}

// Mapping assigns an input file to its closest reference.
type Mapping struct {
	Input     string
	Reference string
	Distance  int
}

// Result is the outcome of matching a set of input files against a set of
// references.
type Result struct {
	Mappings []Mapping
	// Duplicates counts references claimed by more than one input.
	Duplicates map[string]int
	// Unmapped lists references no input claimed.
	Unmapped []string
	// HighConfidence is set when every mapped reference was claimed
	// exactly once.
	HighConfidence bool
}

// Report bundles everything a caller needs to present a matching run.
type Report struct {
	Inputs     []FileText
	References []FileText
	Distances  map[string][]Distance
	Result     Result
}

// ScanReference loads sanitized subtitle text from the SubRip file at path,
// or from every SubRip file below it when path is a directory.
func (s *ShowOrder) ScanReference(path string) ([]FileText, error) {
	dir, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	if info.IsDir() {
		err = filepath.Walk(dir, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.Name()[0] == '.' {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if info.Mode().IsRegular() && strings.EqualFold(filepath.Ext(file), ".srt") {
				files = append(files, file)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	} else {
		files = append(files, dir)
	}

	sort.Strings(files)

	var references []FileText
	for _, file := range files {
		texts, err := srt.Texts(file, s.config.MaxCount, s.config.BannedWords...)
		if err != nil {
			return nil, err
		}
		if len(texts) == 0 {
			s.logger.Printf("No usable subtitles in \"%s\"\n", file)
			continue
		}
		references = append(references, FileText{Path: file, Texts: texts})
	}

	return references, nil
}

// Distances computes the edit distance from every input to every reference,
// each list sorted nearest first. The two texts are trimmed to the same
// rune length before comparing so a short extraction is not penalized for
// everything the longer reference says afterwards.
func (s *ShowOrder) Distances(inputs, references []FileText) map[string][]Distance {
	distances := make(map[string][]Distance, len(inputs))
	for _, in := range inputs {
		s.logger.Printf("Inspecting \"%s\"\n", filepath.Base(in.Path))
		flat := in.Flattened()

		list := make([]Distance, 0, len(references))
		for _, ref := range references {
			a, b := trimToShortest(flat, ref.Flattened())
			list = append(list, Distance{
				Reference: ref.Path,
				Distance:  levenshtein.ComputeDistance(a, b),
			})
		}
		sort.SliceStable(list, func(i, j int) bool { return list[i].Distance < list[j].Distance })
		distances[in.Path] = list
	}
	return distances
}

func trimToShortest(a, b string) (string, string) {
	ar, br := []rune(a), []rune(b)
	n := min(len(ar), len(br))
	return string(ar[:n]), string(br[:n])
}

// BuildResult maps each input to its nearest reference, flagging references
// claimed twice and references never claimed. maxDistance <= 0 accepts any
// distance.
func BuildResult(inputs []FileText, references []FileText, distances map[string][]Distance, maxDistance int) Result {
	result := Result{
		Duplicates: make(map[string]int),
	}

	claimed := make(map[string]int, len(references))
	for _, in := range inputs {
		list := distances[in.Path]
		if len(list) == 0 {
			continue
		}
		closest := list[0]
		if maxDistance > 0 && closest.Distance >= maxDistance {
			continue
		}
		result.Mappings = append(result.Mappings, Mapping{
			Input:     in.Path,
			Reference: closest.Reference,
			Distance:  closest.Distance,
		})
		claimed[closest.Reference]++
	}

	for _, ref := range references {
		switch n := claimed[ref.Path]; {
		case n == 0:
			result.Unmapped = append(result.Unmapped, ref.Path)
		case n > 1:
			result.Duplicates[ref.Path] = n
		}
	}
	sort.Strings(result.Unmapped)

	result.HighConfidence = len(result.Duplicates) == 0

	return result
}

// RenameScript renders shell commands renaming each mapped input after its
// reference, keeping the input's extension. Language tags like ".eng" in
// the reference name are dropped. Inputs already named correctly produce no
// command.
func (r Result) RenameScript() []string {
	var script []string
	for _, m := range r.Mappings {
		input := filepath.Base(m.Input)
		stem := strings.TrimSuffix(filepath.Base(m.Reference), filepath.Ext(m.Reference))
		stem = strings.ReplaceAll(stem, ".eng", "")
		target := stem + filepath.Ext(m.Input)
		if input == target {
			continue
		}
		script = append(script, fmt.Sprintf("mv %q %q", input, target))
	}
	return script
}

// Match runs the whole matching flow: extract text from the inputs, load
// the references, compute distances and build the mapping.
func (s *ShowOrder) Match(inputPath, referencePath string, track int64) (*Report, error) {
	inputs, err := s.ScanInput(inputPath, track)
	if err != nil {
		return nil, err
	}

	references, err := s.ScanReference(referencePath)
	if err != nil {
		return nil, err
	}

	distances := s.Distances(inputs, references)

	return &Report{
		Inputs:     inputs,
		References: references,
		Distances:  distances,
		Result:     BuildResult(inputs, references, distances, s.config.MaxDistance),
	}, nil
}
