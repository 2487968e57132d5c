package main

import (
	"fmt"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"
	"golang.org/x/text/language"

	"github.com/robmikh/showorder"
	"github.com/robmikh/showorder/mkv"
	"github.com/robmikh/showorder/ocr"
)

const defaultConfig = "showorder.toml"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

// tesseractLanguage maps whatever language code the config carries onto the
// three letter code tesseract expects.
func tesseractLanguage(lang string) string {
	if lang == "" {
		return ""
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return lang
	}
	if b, conf := tag.Base(); conf > language.No {
		return b.ISO3()
	}
	return lang
}

func newShowOrder(c *cli.Context) (*showorder.ShowOrder, func(), error) {
	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}

	config, err := showorder.LoadConfig(c.String("config"))
	if err != nil {
		return nil, nil, err
	}
	if c.IsSet("language") {
		config.Language = c.String("language")
	}
	if c.IsSet("max-count") {
		config.MaxCount = c.Int("max-count")
	}
	if c.IsSet("max-distance") {
		config.MaxDistance = c.Int("max-distance")
	}

	var db *showorder.TextDB
	cleanup := func() {}
	if file := c.String("db"); file != "" {
		if db, err = showorder.NewTextDB(file); err != nil {
			return nil, nil, err
		}
		cleanup = func() { db.Close() }
	}

	engine := ocr.NewTesseract(config.Tesseract, tesseractLanguage(config.Language))

	return showorder.New(db, engine, config, logger), cleanup, nil
}

func printFileTexts(files []showorder.FileText) {
	for _, f := range files {
		fmt.Println(f.Path)
		for _, t := range f.Texts {
			fmt.Printf("  \"%s\"\n", t)
		}
	}
}

func main() {
	app := cli.NewApp()

	app.Name = "showorder"
	app.Usage = "Match mislabeled episodes against reference subtitles"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			EnvVars: []string{"SHOWORDER_CONFIG"},
			Value:   filepath.Join(cwd, defaultConfig),
			Usage:   "path to config file",
		},
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"SHOWORDER_DB"},
			Usage:   "path to text cache database, caching is off when empty",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
		&cli.StringFlag{
			Name:    "language",
			Aliases: []string{"l"},
			Usage:   "subtitle language to extract",
		},
		&cli.IntFlag{
			Name:    "max-count",
			Aliases: []string{"n"},
			Usage:   "number of subtitles to read per file",
		},
		&cli.Int64Flag{
			Name:    "track",
			Aliases: []string{"t"},
			Usage:   "subtitle track number, overrides language selection",
		},
		&cli.IntFlag{
			Name:    "max-distance",
			Aliases: []string{"m"},
			Usage:   "reject matches at or beyond this edit distance",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "tracks",
			Usage:       "List the subtitle tracks of a Matroska file",
			Description: "",
			ArgsUsage:   "FILE",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				tracks, err := mkv.Tracks(c.Args().First())
				if err != nil {
					return cli.Exit(err, 1)
				}

				for _, t := range tracks {
					lang := t.Language
					if lang == "" {
						lang = "eng"
					}
					fmt.Printf("%d: %s (%s)", t.Number, lang, t.CodecID)
					if t.Name != "" {
						fmt.Printf(" %q", t.Name)
					}
					fmt.Println()
				}

				return nil
			},
		},
		{
			Name:        "list",
			Usage:       "Print extracted subtitle text",
			Description: "TYPE is either \"mkv\" for video files or \"srt\" for reference subtitles",
			ArgsUsage:   "TYPE PATH",
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				s, cleanup, err := newShowOrder(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer cleanup()

				var files []showorder.FileText
				switch c.Args().Get(0) {
				case "mkv":
					files, err = s.ScanInput(c.Args().Get(1), c.Int64("track"))
				case "srt":
					files, err = s.ScanReference(c.Args().Get(1))
				default:
					return cli.Exit(fmt.Errorf("unknown type %q", c.Args().Get(0)), 1)
				}
				if err != nil {
					return cli.Exit(err, 1)
				}

				printFileTexts(files)

				return nil
			},
		},
		{
			Name:        "dump",
			Usage:       "Dump decoded subtitles from a Matroska file",
			Description: "TYPE is \"png\" for rendered bitmaps, \"rgba\" for raw pixels or \"block\" for undecoded track payloads",
			ArgsUsage:   "TYPE FILE DIRECTORY",
			Action: func(c *cli.Context) error {
				if c.NArg() < 3 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				typ, file, dir := c.Args().Get(0), c.Args().Get(1), c.Args().Get(2)
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return cli.Exit(err, 1)
				}

				config, err := showorder.LoadConfig(c.String("config"))
				if err != nil {
					return cli.Exit(err, 1)
				}
				if c.IsSet("language") {
					config.Language = c.String("language")
				}
				n := config.MaxCount
				if c.IsSet("max-count") {
					n = c.Int("max-count")
				}

				switch typ {
				case "png", "rgba":
					bitmaps, err := mkv.FirstBitmaps(file, c.Int64("track"), config.Language, n)
					if err != nil {
						return cli.Exit(err, 1)
					}
					for i, m := range bitmaps {
						if typ == "png" {
							f, err := os.Create(filepath.Join(dir, fmt.Sprintf("%d.png", i)))
							if err != nil {
								return cli.Exit(err, 1)
							}
							err = png.Encode(f, m)
							f.Close()
							if err != nil {
								return cli.Exit(err, 1)
							}
							continue
						}
						size := m.Bounds().Size()
						name := fmt.Sprintf("%dsize%dx%d.bin", i, size.X, size.Y)
						if err := os.WriteFile(filepath.Join(dir, name), m.Pix, 0o644); err != nil {
							return cli.Exit(err, 1)
						}
					}
				case "block":
					i := 0
					err := mkv.WalkBlocks(file, c.Int64("track"), config.Language, func(payload []byte) (bool, error) {
						name := filepath.Join(dir, fmt.Sprintf("%d.bin", i))
						if err := os.WriteFile(name, payload, 0o644); err != nil {
							return false, err
						}
						i++
						return n > 0 && i >= n, nil
					})
					if err != nil {
						return cli.Exit(err, 1)
					}
				default:
					return cli.Exit(fmt.Errorf("unknown type %q", typ), 1)
				}

				return nil
			},
		},
		{
			Name:        "match",
			Usage:       "Match video files against reference subtitles",
			Description: "Prints the proposed mapping and a shell script of rename commands",
			ArgsUsage:   "INPUT REFERENCE",
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				s, cleanup, err := newShowOrder(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer cleanup()

				fmt.Println("Loading subtitles from video files...")
				report, err := s.Match(c.Args().Get(0), c.Args().Get(1), c.Int64("track"))
				if err != nil {
					return cli.Exit(err, 1)
				}

				if len(report.Inputs) == 0 {
					fmt.Println("No subtitles found!")
					return nil
				}

				if c.Bool("verbose") {
					printFileTexts(report.Inputs)
					fmt.Println("Reference subtitles:")
					printFileTexts(report.References)
				}

				for _, in := range report.Inputs {
					fmt.Printf("%s:\n", filepath.Base(in.Path))
					for _, d := range report.Distances[in.Path] {
						fmt.Printf("  %5d  %s\n", d.Distance, filepath.Base(d.Reference))
					}
				}

				result := report.Result
				fmt.Println("Mapping:")
				for _, m := range result.Mappings {
					fmt.Printf("  %s -> %s (distance %d)\n", filepath.Base(m.Input), filepath.Base(m.Reference), m.Distance)
				}
				for ref, n := range result.Duplicates {
					fmt.Printf("Duplicate match: %s claimed %d times\n", filepath.Base(ref), n)
				}
				for _, ref := range result.Unmapped {
					fmt.Printf("Unmapped reference: %s\n", filepath.Base(ref))
				}

				if !result.HighConfidence {
					fmt.Println("Low confidence mapping, not generating a rename script")
					return cli.Exit("", 1)
				}

				script := result.RenameScript()
				if len(script) == 0 {
					fmt.Println("Everything is already named correctly")
					return nil
				}
				fmt.Println("Rename script:")
				fmt.Println(strings.Join(script, "\n"))

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
