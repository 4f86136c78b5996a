package ogimage

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no render has been recorded yet.
var ErrNotFound = sql.ErrNoRows

// RenderRecord is one row of render history.
type RenderRecord struct {
	ID           int64  `json:"id"`
	SourcePath   string `json:"source_path"`
	SourceWidth  int    `json:"source_width"`
	SourceHeight int    `json:"source_height"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	LogoWidth    int    `json:"logo_width"`
	LogoHeight   int    `json:"logo_height"`
	X            int    `json:"x"`
	Y            int    `json:"y"`
	Size         int    `json:"size"`
	Checksum     string `json:"checksum"`
	CreatedAt    string `json:"created_at"`
}

// NewRenderRecord builds a history row from a render result.
func NewRenderRecord(sourcePath string, res Result) RenderRecord {
	return RenderRecord{
		SourcePath:   sourcePath,
		SourceWidth:  res.Layout.SourceWidth,
		SourceHeight: res.Layout.SourceHeight,
		Width:        res.Width,
		Height:       res.Height,
		LogoWidth:    res.Layout.Width,
		LogoHeight:   res.Layout.Height,
		X:            res.Layout.Offset.X,
		Y:            res.Layout.Offset.Y,
		Size:         len(res.PNG),
		Checksum:     res.Checksum,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}
}

// Store wraps a SQLite database holding render history.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and creates the schema.
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS renders (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    source_path TEXT NOT NULL,
    source_width INTEGER NOT NULL,
    source_height INTEGER NOT NULL,
    width INTEGER NOT NULL,
    height INTEGER NOT NULL,
    logo_width INTEGER NOT NULL,
    logo_height INTEGER NOT NULL,
    x INTEGER NOT NULL,
    y INTEGER NOT NULL,
    size INTEGER NOT NULL,
    checksum TEXT NOT NULL,
    created_at TEXT NOT NULL
);
`)
	return err
}

// SaveRender appends r to the history and returns its id.
func (s *Store) SaveRender(r RenderRecord) (int64, error) {
	res, err := s.db.Exec(`INSERT INTO renders (source_path, source_width, source_height, width, height, logo_width, logo_height, x, y, size, checksum, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.SourcePath, r.SourceWidth, r.SourceHeight, r.Width, r.Height, r.LogoWidth, r.LogoHeight, r.X, r.Y, r.Size, r.Checksum, r.CreatedAt)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const renderColumns = `id, source_path, source_width, source_height, width, height, logo_width, logo_height, x, y, size, checksum, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRender(row scanner) (RenderRecord, error) {
	var r RenderRecord
	err := row.Scan(&r.ID, &r.SourcePath, &r.SourceWidth, &r.SourceHeight, &r.Width, &r.Height,
		&r.LogoWidth, &r.LogoHeight, &r.X, &r.Y, &r.Size, &r.Checksum, &r.CreatedAt)
	return r, err
}

// ListRenders returns up to limit records, newest first.
func (s *Store) ListRenders(limit int) ([]RenderRecord, error) {
	rows, err := s.db.Query(`SELECT `+renderColumns+` FROM renders ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []RenderRecord
	for rows.Next() {
		r, err := scanRender(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// LatestRender returns the most recent record, or ErrNotFound.
func (s *Store) LatestRender() (RenderRecord, error) {
	return scanRender(s.db.QueryRow(`SELECT ` + renderColumns + ` FROM renders ORDER BY id DESC LIMIT 1`))
}
