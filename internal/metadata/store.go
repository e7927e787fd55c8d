// Package metadata persists per-file tags and notes in a single-table SQLite
// database, independently of the filesystem. Rows are keyed by absolute path
// and never garbage-collected when the underlying file disappears.
package metadata

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"ferret/internal/logging"
)

// Record is the stored metadata for one file.
type Record struct {
	Path        string
	Tags        []string
	Notes       string
	LastUpdated time.Time
}

// Store is the tags/notes database. A nil *Store is tolerated by all methods
// so callers can keep running when database initialization failed.
type Store struct {
	db     *sql.DB
	mu     sync.Mutex
	dbPath string
}

// Open initializes the SQLite database at the given path.
func Open(path string) (*Store, error) {
	timer := logging.StartTimer(logging.CategoryStore, "metadata.Open")
	defer timer.Stop()

	logging.Store("Opening metadata store at %s", path)

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			logging.Get(logging.CategoryStore).Error("Failed to create directory for %s: %v", path, err)
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		logging.Get(logging.CategoryStore).Error("Failed to open database at %s: %v", path, err)
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logging.StoreDebug("Failed to set sqlite busy_timeout: %v", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logging.StoreDebug("Failed to set sqlite journal_mode=WAL: %v", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL"); err != nil {
		logging.StoreDebug("Failed to set sqlite synchronous=NORMAL: %v", err)
	}

	s := &Store{db: db, dbPath: path}
	if err := s.initialize(); err != nil {
		logging.Get(logging.CategoryStore).Error("Failed to initialize schema: %v", err)
		db.Close()
		return nil, err
	}
	logging.StoreDebug("Metadata schema ensured")
	return s, nil
}

func (s *Store) initialize() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS file_metadata (
			file_path    TEXT PRIMARY KEY,
			tags         TEXT,
			notes        TEXT,
			last_updated TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create file_metadata table: %w", err)
	}
	return nil
}

// Get returns the record for the given path, or (nil, nil) when no row
// exists. The path is normalized to absolute form first.
func (s *Store) Get(path string) (*Record, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	abs := absPath(path)

	s.mu.Lock()
	defer s.mu.Unlock()

	var tags, notes sql.NullString
	var updated sql.NullTime
	err := s.db.QueryRow(
		"SELECT tags, notes, last_updated FROM file_metadata WHERE file_path = ?", abs,
	).Scan(&tags, &notes, &updated)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		logging.Get(logging.CategoryStore).Error("Error retrieving metadata for '%s': %v", abs, err)
		return nil, fmt.Errorf("failed to load metadata: %w", err)
	}

	rec := &Record{Path: abs, Notes: notes.String}
	if tags.String != "" {
		rec.Tags = strings.Split(tags.String, ",")
	}
	if updated.Valid {
		rec.LastUpdated = updated.Time
	}
	return rec, nil
}

// Save inserts or updates tags and notes for the given path. Only changed
// columns are written; when both values match the stored row the call
// performs no database write at all.
func (s *Store) Save(path string, tags []string, notes string) error {
	if s == nil || s.db == nil {
		return nil
	}
	abs := absPath(path)
	tagsStr := joinTags(tags)

	existing, err := s.Get(abs)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing == nil {
		_, err := s.db.Exec(`
			INSERT INTO file_metadata (file_path, tags, notes, last_updated)
			VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		`, abs, tagsStr, notes)
		if err != nil {
			logging.Get(logging.CategoryStore).Error("Error saving metadata for '%s': %v", abs, err)
			return fmt.Errorf("failed to insert metadata: %w", err)
		}
		logging.Store("Inserted new metadata for '%s'", abs)
		return nil
	}

	var clauses []string
	var params []interface{}

	if tagsStr != joinTags(existing.Tags) {
		clauses = append(clauses, "tags = ?")
		params = append(params, tagsStr)
	}
	if notes != existing.Notes {
		clauses = append(clauses, "notes = ?")
		params = append(params, notes)
	}
	if len(clauses) == 0 {
		logging.StoreDebug("No metadata values changed for '%s', update skipped", abs)
		return nil
	}

	clauses = append(clauses, "last_updated = CURRENT_TIMESTAMP")
	params = append(params, abs)
	query := fmt.Sprintf("UPDATE file_metadata SET %s WHERE file_path = ?", strings.Join(clauses, ", "))
	if _, err := s.db.Exec(query, params...); err != nil {
		logging.Get(logging.CategoryStore).Error("Error updating metadata for '%s': %v", abs, err)
		return fmt.Errorf("failed to update metadata: %w", err)
	}
	logging.Store("Updated metadata for '%s'", abs)
	return nil
}

// SearchTag returns record paths whose tag list contains the given tag.
func (s *Store) SearchTag(tag string) ([]string, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query("SELECT file_path, tags FROM file_metadata WHERE tags != ''")
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var path, tags string
		if err := rows.Scan(&path, &tags); err != nil {
			return nil, err
		}
		for _, t := range strings.Split(tags, ",") {
			if strings.EqualFold(strings.TrimSpace(t), tag) {
				paths = append(paths, path)
				break
			}
		}
	}
	return paths, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	logging.Store("Metadata store closed")
	return s.db.Close()
}

// joinTags serializes a tag list comma-joined, dropping empty entries.
func joinTags(tags []string) string {
	var kept []string
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t != "" {
			kept = append(kept, t)
		}
	}
	return strings.Join(kept, ",")
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
