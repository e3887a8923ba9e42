// Package sqlite persists the device-local note cache: the last known title
// and serialized content per (user, note), plus the last-opened pointer per
// user. Everything here is best-effort; a miss is a normal answer and write
// failures are logged, never surfaced.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/Hotate516/kiga-workspace/internal/domain"
	"github.com/Hotate516/kiga-workspace/internal/observability"
)

type Cache struct {
	db *sql.DB
}

var _ domain.NoteCache = (*Cache)(nil)

// Open creates or opens the cache database at path. ":memory:" is accepted
// for tests.
func Open(path string) (*Cache, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	// WAL mode keeps readers out of the writers' way
	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;
		PRAGMA busy_timeout = 5000;

		CREATE TABLE IF NOT EXISTS note_cache (
			uid     TEXT NOT NULL,
			note_id TEXT NOT NULL,
			title   TEXT,
			content TEXT,
			PRIMARY KEY (uid, note_id)
		);
		CREATE TABLE IF NOT EXISTS last_opened (
			uid     TEXT PRIMARY KEY,
			note_id TEXT NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to setup cache database: %w", err)
	}

	return &Cache{db: db}, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

func (c *Cache) Title(uid domain.UserID, id domain.NoteID) (string, bool) {
	var title sql.NullString
	err := c.db.QueryRow(
		`SELECT title FROM note_cache WHERE uid = ? AND note_id = ?`,
		string(uid), string(id),
	).Scan(&title)
	if err != nil || !title.Valid {
		return "", false
	}
	return title.String, true
}

func (c *Cache) SetTitle(uid domain.UserID, id domain.NoteID, title string) {
	_, err := c.db.Exec(`
		INSERT INTO note_cache (uid, note_id, title) VALUES (?, ?, ?)
		ON CONFLICT (uid, note_id) DO UPDATE SET title = excluded.title
	`, string(uid), string(id), title)
	if err != nil {
		observability.Logger().Warn("cache title write failed", "note_id", id, "error", err)
	}
}

func (c *Cache) Content(uid domain.UserID, id domain.NoteID) (domain.Document, bool) {
	var raw sql.NullString
	err := c.db.QueryRow(
		`SELECT content FROM note_cache WHERE uid = ? AND note_id = ?`,
		string(uid), string(id),
	).Scan(&raw)
	if err != nil || !raw.Valid {
		return domain.Document{}, false
	}

	var doc domain.Document
	if err := json.Unmarshal([]byte(raw.String), &doc); err != nil {
		observability.Logger().Warn("cached content is not valid JSON", "note_id", id, "error", err)
		return domain.Document{}, false
	}
	return doc, true
}

func (c *Cache) SetContent(uid domain.UserID, id domain.NoteID, doc domain.Document) {
	raw, err := json.Marshal(doc)
	if err != nil {
		observability.Logger().Warn("cache content encode failed", "note_id", id, "error", err)
		return
	}
	_, err = c.db.Exec(`
		INSERT INTO note_cache (uid, note_id, content) VALUES (?, ?, ?)
		ON CONFLICT (uid, note_id) DO UPDATE SET content = excluded.content
	`, string(uid), string(id), string(raw))
	if err != nil {
		observability.Logger().Warn("cache content write failed", "note_id", id, "error", err)
	}
}

func (c *Cache) Remove(uid domain.UserID, id domain.NoteID) {
	_, err := c.db.Exec(
		`DELETE FROM note_cache WHERE uid = ? AND note_id = ?`,
		string(uid), string(id),
	)
	if err != nil {
		observability.Logger().Warn("cache remove failed", "note_id", id, "error", err)
	}
}

func (c *Cache) LastOpened(uid domain.UserID) (domain.NoteID, bool) {
	var id string
	err := c.db.QueryRow(
		`SELECT note_id FROM last_opened WHERE uid = ?`,
		string(uid),
	).Scan(&id)
	if err != nil {
		return "", false
	}
	return domain.NoteID(id), true
}

func (c *Cache) SetLastOpened(uid domain.UserID, id domain.NoteID) {
	_, err := c.db.Exec(`
		INSERT INTO last_opened (uid, note_id) VALUES (?, ?)
		ON CONFLICT (uid) DO UPDATE SET note_id = excluded.note_id
	`, string(uid), string(id))
	if err != nil {
		observability.Logger().Warn("last-opened write failed", "note_id", id, "error", err)
	}
}
