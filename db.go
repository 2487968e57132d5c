package showorder

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// TextDB caches the recognized subtitle text of each video file so repeated
// runs skip the expensive decode and recognition passes. Entries are keyed
// by content hash plus the extraction parameters that shaped the text.
type TextDB struct {
	db *sql.DB
}

func NewTextDB(file string) (*TextDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS subtitle_text (id INTEGER PRIMARY KEY NOT NULL, crc TEXT NOT NULL, track INTEGER NOT NULL, language TEXT NOT NULL, max_count INTEGER NOT NULL, text TEXT NOT NULL, UNIQUE(crc, track, language, max_count))"); err != nil {
		return nil, err
	}

	return &TextDB{
		db: db,
	}, nil
}

func (db *TextDB) Close() error {
	return db.db.Close()
}

// Subtitles never contain newlines after sanitizing, so a newline-joined
// TEXT column round-trips the slice exactly.
const textSeparator = "\n"

// FindTexts returns the cached texts for one file, or nil if nothing is
// cached. A file cached with zero subtitles comes back as an empty non-nil
// slice so callers can tell the two apart.
func (db *TextDB) FindTexts(crc string, track int64, language string, maxCount int) ([]string, error) {
	var joined string
	switch err := db.db.QueryRow("SELECT text FROM subtitle_text WHERE crc = ? AND track = ? AND language = ? AND max_count = ?", crc, track, language, maxCount).Scan(&joined); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		if joined == "" {
			return []string{}, nil
		}
		return strings.Split(joined, textSeparator), nil
	default:
		return nil, err
	}
}

func (db *TextDB) SetTexts(crc string, track int64, language string, maxCount int, texts []string) error {
	if _, err := db.db.Exec("INSERT OR REPLACE INTO subtitle_text (crc, track, language, max_count, text) VALUES (?, ?, ?, ?, ?)", crc, track, language, maxCount, strings.Join(texts, textSeparator)); err != nil {
		return err
	}
	return nil
}
