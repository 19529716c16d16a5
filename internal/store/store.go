// Package store provides SQLite persistence for reel: a local cache of feed
// items and watch state so a restarted session can resume and render
// instantly while the first page loads.
package store

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/finchley/reel/internal/feed"
)

// Store handles SQLite persistence. NOT an interface - concrete type.
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type Store struct {
	db *sql.DB
	mu sync.RWMutex // Protects all database operations
}

// Open creates a new Store with the given database path.
// Creates tables if they don't exist.
// Uses WAL mode for better concurrent read performance (file-based DBs only).
func Open(dbPath string) (*Store, error) {
	connStr := dbPath
	if dbPath == ":memory:" {
		// Shared cache so all pooled connections see the same database
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &Store{db: db}

	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return s, nil
}

// createTables creates the required tables and indexes if they don't exist.
func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS videos (
		id TEXT PRIMARY KEY,
		media_uri TEXT NOT NULL,
		caption TEXT,
		owner_id TEXT NOT NULL,
		owner_name TEXT,
		is_liked INTEGER DEFAULT 0,
		like_count INTEGER DEFAULT 0,
		comment_count INTEGER DEFAULT 0,
		share_count INTEGER DEFAULT 0,
		duration_ms INTEGER DEFAULT 0,
		posted_at DATETIME NOT NULL,
		fetched_at DATETIME NOT NULL,
		seen INTEGER DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_videos_posted ON videos(posted_at DESC);
	CREATE INDEX IF NOT EXISTS idx_videos_owner ON videos(owner_id);

	CREATE TABLE IF NOT EXISTS session (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
// Thread-safe: acquires write lock to prevent closing during in-flight operations.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// SaveItems caches feed items, returning the count of new rows inserted.
// Duplicates (by id) are silently ignored via INSERT OR IGNORE.
// Thread-safe: acquires write lock.
func (s *Store) SaveItems(items []feed.Item) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(items) == 0 {
		return 0, nil
	}

	stmt, err := s.db.Prepare(`
		INSERT OR IGNORE INTO videos (
			id, media_uri, caption, owner_id, owner_name,
			is_liked, like_count, comment_count, share_count,
			duration_ms, posted_at, fetched_at, seen
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0)
	`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	now := time.Now()
	newCount := 0
	for _, item := range items {
		result, err := stmt.Exec(
			item.ID,
			item.MediaURI,
			item.Caption,
			item.OwnerID,
			item.OwnerName,
			boolToInt(item.IsLiked),
			item.LikeCount,
			item.CommentCount,
			item.ShareCount,
			item.Duration.Milliseconds(),
			item.Posted,
			now,
		)
		if err != nil {
			return newCount, err
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return newCount, err
		}
		if affected > 0 {
			newCount++
		}
	}

	return newCount, nil
}

// RecentItems returns the most recently fetched cached items, newest first.
// Thread-safe: acquires read lock.
func (s *Store) RecentItems(limit int) ([]feed.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, media_uri, caption, owner_id, owner_name,
			is_liked, like_count, comment_count, share_count,
			duration_ms, posted_at
		FROM videos
		ORDER BY fetched_at DESC, posted_at DESC
		LIMIT ?
	`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []feed.Item
	for rows.Next() {
		var item feed.Item
		var likedInt int
		var durationMs int64
		err := rows.Scan(
			&item.ID,
			&item.MediaURI,
			&item.Caption,
			&item.OwnerID,
			&item.OwnerName,
			&likedInt,
			&item.LikeCount,
			&item.CommentCount,
			&item.ShareCount,
			&durationMs,
			&item.Posted,
		)
		if err != nil {
			return nil, err
		}
		item.IsLiked = likedInt != 0
		item.Duration = time.Duration(durationMs) * time.Millisecond
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// MarkSeen records that an item was activated at least once.
// Thread-safe: acquires write lock.
func (s *Store) MarkSeen(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("UPDATE videos SET seen = 1 WHERE id = ?", id)
	return err
}

// UpdateEngagement persists reconciled like state so a resumed session
// starts from the last confirmed values.
// Thread-safe: acquires write lock.
func (s *Store) UpdateEngagement(id string, isLiked bool, likeCount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		"UPDATE videos SET is_liked = ?, like_count = ? WHERE id = ?",
		boolToInt(isLiked), likeCount, id,
	)
	return err
}

// SaveCursor persists the feed cursor for session resume.
// Thread-safe: acquires write lock.
func (s *Store) SaveCursor(cursor string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		"INSERT INTO session (key, value) VALUES ('cursor', ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		cursor,
	)
	return err
}

// LoadCursor returns the persisted feed cursor, or "" if none.
// Thread-safe: acquires read lock.
func (s *Store) LoadCursor() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var cursor string
	err := s.db.QueryRow("SELECT value FROM session WHERE key = 'cursor'").Scan(&cursor)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return cursor, nil
}

// boolToInt converts a bool to an int for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
