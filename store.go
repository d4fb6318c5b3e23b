package pubcontent

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "modernc.org/sqlite"
)

// pubDateLayout keeps stored dates lexically sortable.
const pubDateLayout = "2006-01-02T15:04:05.000000000Z"

// FailureRecord is a stored validation failure.
type FailureRecord struct {
	Slug   string             `json:"slug"`
	Path   string             `json:"path"`
	Errors []FieldErrorRecord `json:"errors"`
}

// Store wraps a SQLite database holding the index of checked entries.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and creates the schema.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets the report server read while a re-sync writes.
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
CREATE TABLE IF NOT EXISTS entries (
    slug TEXT PRIMARY KEY,
    path TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    pub_date TEXT NOT NULL,
    cover_image TEXT,
    tags TEXT NOT NULL,
    body TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS failures (
    path TEXT PRIMARY KEY,
    slug TEXT NOT NULL,
    errors TEXT NOT NULL
);
`)
	return err
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func saveEntry(x execer, e Entry) error {
	tagList := e.Data.Tags
	if tagList == nil {
		tagList = []string{}
	}
	tags, err := json.Marshal(tagList)
	if err != nil {
		return err
	}
	var cover sql.NullString
	if e.Data.CoverImage != nil {
		cover = sql.NullString{String: *e.Data.CoverImage, Valid: true}
	}
	_, err = x.Exec(`INSERT OR REPLACE INTO entries (slug, path, title, description, pub_date, cover_image, tags, body) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Slug, e.Path, e.Data.Title, e.Data.Description, e.Data.PubDate.UTC().Format(pubDateLayout), cover, string(tags), e.Body)
	return err
}

// SaveEntry upserts a single validated entry.
func (s *Store) SaveEntry(e Entry) error {
	return saveEntry(s.db, e)
}

// ReplaceCollection swaps the whole index for the contents of report in a
// single transaction, so readers never see a half-written sync.
func (s *Store) ReplaceCollection(report *Report) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM entries`); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM failures`); err != nil {
		return err
	}
	for _, e := range report.Entries {
		if err := saveEntry(tx, e); err != nil {
			return fmt.Errorf("save entry %s: %w", e.Slug, err)
		}
	}
	for _, f := range report.Failures {
		errs, err := json.Marshal(f.Errors.Records())
		if err != nil {
			return err
		}
		if _, err := tx.Exec(`INSERT OR REPLACE INTO failures (path, slug, errors) VALUES (?, ?, ?)`, f.Path, f.Slug, string(errs)); err != nil {
			return fmt.Errorf("save failure %s: %w", f.Path, err)
		}
	}
	return tx.Commit()
}

const entryColumns = `slug, path, title, description, pub_date, cover_image, tags, body`

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (Entry, error) {
	var e Entry
	var pubDate, tags string
	var cover sql.NullString
	if err := row.Scan(&e.Slug, &e.Path, &e.Data.Title, &e.Data.Description, &pubDate, &cover, &tags, &e.Body); err != nil {
		return Entry{}, err
	}
	t, err := time.Parse(pubDateLayout, pubDate)
	if err != nil {
		return Entry{}, fmt.Errorf("entry %s: bad pub_date %q: %w", e.Slug, pubDate, err)
	}
	e.Data.PubDate = t
	if cover.Valid {
		c := cover.String
		e.Data.CoverImage = &c
	}
	e.Data.Tags = []string{}
	if err := json.Unmarshal([]byte(tags), &e.Data.Tags); err != nil {
		return Entry{}, fmt.Errorf("entry %s: bad tags: %w", e.Slug, err)
	}
	return e, nil
}

// ListEntries returns indexed entries ordered by publish date, newest first.
// If tag is non-empty, results are limited to entries carrying that tag,
// compared without regard to case.
func (s *Store) ListEntries(tag string) ([]Entry, error) {
	rows, err := s.db.Query(`SELECT ` + entryColumns + ` FROM entries ORDER BY pub_date DESC, slug`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		if tag != "" && !HasTag(e.Data.Tags, tag) {
			continue
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// GetEntry returns a single entry by slug, or ErrNotFound.
func (s *Store) GetEntry(slug string) (Entry, error) {
	row := s.db.QueryRow(`SELECT `+entryColumns+` FROM entries WHERE slug = ?`, slug)
	return scanEntry(row)
}

// DeleteEntry removes an entry by slug.
func (s *Store) DeleteEntry(slug string) error {
	_, err := s.db.Exec(`DELETE FROM entries WHERE slug = ?`, slug)
	return err
}

// ListTags returns a sorted, case-insensitively deduplicated slice of every
// tag in the index. The first spelling seen wins.
func (s *Store) ListTags() ([]string, error) {
	rows, err := s.db.Query(`SELECT tags FROM entries ORDER BY pub_date DESC, slug`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seen := make(map[string]string)
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var tags []string
		if err := json.Unmarshal([]byte(raw), &tags); err != nil {
			return nil, err
		}
		for _, t := range tags {
			key := normalizeTag(t)
			if _, ok := seen[key]; !ok && key != "" {
				seen[key] = t
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	result := make([]string, 0, len(seen))
	for _, t := range seen {
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool {
		return normalizeTag(result[i]) < normalizeTag(result[j])
	})
	return result, nil
}

// ListFailures returns every stored validation failure ordered by path.
func (s *Store) ListFailures() ([]FailureRecord, error) {
	rows, err := s.db.Query(`SELECT path, slug, errors FROM failures ORDER BY path`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	failures := []FailureRecord{}
	for rows.Next() {
		var f FailureRecord
		var raw string
		if err := rows.Scan(&f.Path, &f.Slug, &raw); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(raw), &f.Errors); err != nil {
			return nil, fmt.Errorf("failure %s: bad errors: %w", f.Path, err)
		}
		failures = append(failures, f)
	}
	return failures, rows.Err()
}
