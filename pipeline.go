package showorder

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

func (s *ShowOrder) findFiles(ctx context.Context, base string, exts ...string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories, otherwise we end up fighting with things like Spotlight, etc.
			if info.Name()[0] == '.' {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			// Ignore anything that isn't a normal file
			if !info.Mode().IsRegular() {
				return nil
			}

			if !matchesExt(file, exts) {
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc, nil
}

func matchesExt(file string, exts []string) bool {
	for _, ext := range exts {
		if strings.EqualFold(filepath.Ext(file), ext) {
			return true
		}
	}
	return false
}

func (s *ShowOrder) extractWorker(ctx context.Context, in <-chan string, out chan<- FileText, track int64, wg *sync.WaitGroup) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		defer wg.Done()
		for file := range in {
			texts, err := s.LoadSubtitles(ctx, file, track)
			if err != nil {
				errc <- err
				return
			}
			if len(texts) == 0 {
				// Sometimes there's a subtitle track with nothing usable in it
				s.logger.Printf("No usable subtitles in \"%s\"\n", file)
				continue
			}

			select {
			case out <- FileText{Path: file, Texts: texts}:
			case <-ctx.Done():
				errc <- ctx.Err()
				return
			}
		}
	}()
	return errc, nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// ScanInput extracts subtitle text from the video file at path, or from
// every video file below it when path is a directory. Files yielding no
// text are skipped; results come back sorted by path.
func (s *ShowOrder) ScanInput(path string, track int64) ([]FileText, error) {
	dir, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		texts, err := s.LoadSubtitles(context.Background(), dir, track)
		if err != nil {
			return nil, err
		}
		if len(texts) == 0 {
			return nil, nil
		}
		return []FileText{{Path: dir, Texts: texts}}, nil
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	files, errc, err := s.findFiles(ctx, dir, ".mkv", ".sup")
	if err != nil {
		return nil, err
	}
	errcList = append(errcList, errc)

	out := make(chan FileText)
	var wg sync.WaitGroup
	for i := 0; i < s.config.Workers; i++ {
		wg.Add(1)
		errc, err := s.extractWorker(ctx, files, out, track, &wg)
		if err != nil {
			return nil, err
		}
		errcList = append(errcList, errc)
	}
	go func() {
		wg.Wait()
		close(out)
	}()

	var results []FileText
	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for ft := range out {
			results = append(results, ft)
		}
	}()

	if err := waitForPipeline(errcList...); err != nil {
		return nil, err
	}
	<-collected

	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })

	return results, nil
}
