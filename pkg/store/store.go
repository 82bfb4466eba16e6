// Package store implements the memory artifact store (spec component C6):
// a single embedded SQLite database under the user's cache directory,
// opened in WAL journal mode with a busy-timeout, holding artifacts,
// the import-edge graph, and an append-only cache-event log.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// ArtifactVersion is the current on-disk artifact schema version. load_artifact
// returns nil when a stored row's version differs from this.
const ArtifactVersion = 1

// DefaultProjectCap bounds the number of distinct projects retained by
// PruneCache; oldest-by-updated_at rows beyond this cap are deleted.
const DefaultProjectCap = 64

// Store wraps the artifact database connection. All mutating access is
// serialised through a single *sql.DB with MaxOpenConns(1), matching the
// spec's "single process-wide mutable state" policy (spec.md §5).
type Store struct {
	db   *sql.DB
	mu   sync.Mutex
	path string
}

// Open opens (creating if necessary) the SQLite database at path, enabling
// WAL journaling, a busy_timeout, and NORMAL synchronous mode.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("store: create dir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("store: pragma %q: %w", pragma, err)
		}
	}

	s := &Store{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS artifacts (
			project_id   TEXT PRIMARY KEY,
			project_root TEXT NOT NULL,
			json_blob    TEXT NOT NULL,
			version      INTEGER NOT NULL,
			updated_at   INTEGER NOT NULL,
			total_bytes  INTEGER NOT NULL,
			file_count   INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS artifact_edges (
			project_id TEXT NOT NULL,
			src        TEXT NOT NULL,
			dst        TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_artifact_edges_project ON artifact_edges(project_id)`,
		`CREATE TABLE IF NOT EXISTS cache_events (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			project_id TEXT NOT NULL,
			event      TEXT NOT NULL,
			ts         INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_cache_events_project ON cache_events(project_id, ts)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("store: migrate: %w", err)
		}
	}
	return nil
}

// isLocked reports whether err is SQLite's "database is locked" error.
func isLocked(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "database is locked")
}

// withRetry runs op up to n+1 times total, retrying only on a "database is
// locked" error with a short linear back-off. Other errors propagate
// immediately (spec.md §4.6 with_retry contract).
func withRetry(n int, op func() error) error {
	var err error
	for attempt := 0; attempt <= n; attempt++ {
		err = op()
		if err == nil || !isLocked(err) {
			return err
		}
		time.Sleep(time.Duration(attempt+1) * 20 * time.Millisecond)
	}
	return err
}

// StoreArtifact upserts the JSON-serialised artifact for projectID. Idempotent:
// writing the same blob twice simply overwrites the row.
func (s *Store) StoreArtifact(projectID, projectRoot string, blob []byte, totalBytes int64, fileCount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UnixNano()
	return withRetry(3, func() error {
		_, err := s.db.Exec(`
			INSERT INTO artifacts (project_id, project_root, json_blob, version, updated_at, total_bytes, file_count)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(project_id) DO UPDATE SET
				project_root=excluded.project_root,
				json_blob=excluded.json_blob,
				version=excluded.version,
				updated_at=excluded.updated_at,
				total_bytes=excluded.total_bytes,
				file_count=excluded.file_count
		`, projectID, projectRoot, string(blob), ArtifactVersion, now, totalBytes, fileCount)
		return err
	})
}

// ArtifactRow is the raw stored form of an artifact.
type ArtifactRow struct {
	ProjectID   string
	ProjectRoot string
	Blob        []byte
	Version     int
	UpdatedAt   time.Time
	TotalBytes  int64
	FileCount   int
}

// LoadArtifact returns the stored row for projectID, or nil if absent or if
// its version differs from ArtifactVersion (spec.md §4.6 load_artifact).
func (s *Store) LoadArtifact(projectID string) (*ArtifactRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		root      string
		blob      string
		version   int
		updatedAt int64
		total     int64
		count     int
	)
	err := withRetry(3, func() error {
		row := s.db.QueryRow(`
			SELECT project_root, json_blob, version, updated_at, total_bytes, file_count
			FROM artifacts WHERE project_id = ?`, projectID)
		return row.Scan(&root, &blob, &version, &updatedAt, &total, &count)
	})
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: load artifact %s: %w", projectID, err)
	}
	if version != ArtifactVersion {
		return nil, nil
	}
	return &ArtifactRow{
		ProjectID:   projectID,
		ProjectRoot: root,
		Blob:        []byte(blob),
		Version:     version,
		UpdatedAt:   time.Unix(0, updatedAt),
		TotalBytes:  total,
		FileCount:   count,
	}, nil
}

// DeleteArtifact removes the row for one project and reports whether
// anything was removed.
func (s *Store) DeleteArtifact(projectID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var affected int64
	err := withRetry(3, func() error {
		res, err := s.db.Exec(`DELETE FROM artifacts WHERE project_id = ?`, projectID)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return false, err
	}
	_, _ = s.db.Exec(`DELETE FROM artifact_edges WHERE project_id = ?`, projectID)
	return affected > 0, nil
}

// ReplaceEdges atomically replaces the import-edge rows for projectID.
func (s *Store) ReplaceEdges(projectID string, edges [][2]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return withRetry(3, func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return err
		}
		defer tx.Rollback()

		if _, err := tx.Exec(`DELETE FROM artifact_edges WHERE project_id = ?`, projectID); err != nil {
			return err
		}
		stmt, err := tx.Prepare(`INSERT INTO artifact_edges (project_id, src, dst) VALUES (?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, e := range edges {
			if _, err := stmt.Exec(projectID, e[0], e[1]); err != nil {
				return err
			}
		}
		return tx.Commit()
	})
}

// Edges returns the (src, dst) import-edge pairs for projectID.
func (s *Store) Edges(projectID string) ([][2]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT src, dst FROM artifact_edges WHERE project_id = ?`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out [][2]string
	for rows.Next() {
		var src, dst string
		if err := rows.Scan(&src, &dst); err != nil {
			return nil, err
		}
		out = append(out, [2]string{src, dst})
	}
	return out, rows.Err()
}

// RecordCacheEvent appends an entry to the cache-event log.
func (s *Store) RecordCacheEvent(projectID, event string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return withRetry(3, func() error {
		_, err := s.db.Exec(`INSERT INTO cache_events (project_id, event, ts) VALUES (?, ?, ?)`,
			projectID, event, time.Now().UnixNano())
		return err
	})
}

// PruneCache enforces a project cap by deleting the oldest-by-updated_at
// artifact rows (and their edges) beyond cap.
func (s *Store) PruneCache(cap int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cap <= 0 {
		cap = DefaultProjectCap
	}

	var removed int
	err := withRetry(3, func() error {
		rows, err := s.db.Query(`
			SELECT project_id FROM artifacts
			ORDER BY updated_at DESC
			LIMIT -1 OFFSET ?`, cap)
		if err != nil {
			return err
		}
		var ids []string
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return err
			}
			ids = append(ids, id)
		}
		rows.Close()

		for _, id := range ids {
			if _, err := s.db.Exec(`DELETE FROM artifacts WHERE project_id = ?`, id); err != nil {
				return err
			}
			if _, err := s.db.Exec(`DELETE FROM artifact_edges WHERE project_id = ?`, id); err != nil {
				return err
			}
			removed++
		}
		return nil
	})
	return removed, err
}

// CacheEventCounts returns counts grouped by event name for projectID.
func (s *Store) CacheEventCounts(projectID string) (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`
		SELECT event, COUNT(*) FROM cache_events WHERE project_id = ? GROUP BY event`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var event string
		var n int
		if err := rows.Scan(&event, &n); err != nil {
			return nil, err
		}
		out[event] = n
	}
	return out, rows.Err()
}

// MarshalArtifact is a small helper so callers in cmd/rtk and internal/testing don't need to
// import encoding/json directly for this one call site.
func MarshalArtifact(v any) ([]byte, error) {
	return json.Marshal(v)
}
