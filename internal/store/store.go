package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ibeckermayer/lunchbot/internal/types"
)

// Store handles all database operations
type Store struct {
	db *sql.DB
}

// New creates a new Store with SQLite backend
func New(dbPath string) (*Store, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate %s: %w", dbPath, err)
	}

	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS posts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_time DATETIME NOT NULL,
		message TEXT NOT NULL,
		kind TEXT NOT NULL DEFAULT '',
		fetched_at DATETIME NOT NULL,
		UNIQUE(created_time, message)
	);

	CREATE TABLE IF NOT EXISTS deliveries (
		date TEXT PRIMARY KEY,
		messages INTEGER NOT NULL,
		delivered_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS rating (
		id INTEGER PRIMARY KEY,
		rating INTEGER
	) WITHOUT ROWID;

	CREATE INDEX IF NOT EXISTS idx_posts_created_time ON posts(created_time);
	CREATE INDEX IF NOT EXISTS idx_posts_kind ON posts(kind);
	`

	_, err := s.db.Exec(schema)
	return err
}

// ArchivedPost is a fetched post as kept in the archive
type ArchivedPost struct {
	ID        int64
	Post      types.Post
	Kind      string
	FetchedAt time.Time
}

// ArchivePost inserts a post, or updates the classification of a post that
// was archived before.
func (s *Store) ArchivePost(ctx context.Context, p types.Post, kind string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO posts (created_time, message, kind, fetched_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(created_time, message) DO UPDATE SET
			kind = excluded.kind
	`, p.CreatedTime.UTC(), p.Message, kind, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to archive post: %w", err)
	}
	return nil
}

// ArchivedPosts returns archived posts, most recent first. With kinds given,
// only posts of those kinds are returned.
func (s *Store) ArchivedPosts(ctx context.Context, kinds ...string) ([]ArchivedPost, error) {
	query := `SELECT id, created_time, message, kind, fetched_at FROM posts`
	var args []any
	if len(kinds) > 0 {
		query += ` WHERE kind IN (?` + strings.Repeat(`, ?`, len(kinds)-1) + `)`
		for _, k := range kinds {
			args = append(args, k)
		}
	}
	query += ` ORDER BY created_time DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []ArchivedPost
	for rows.Next() {
		var p ArchivedPost
		if err := rows.Scan(&p.ID, &p.Post.CreatedTime, &p.Post.Message, &p.Kind, &p.FetchedAt); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// Delivered reports whether the announcement for date has gone out
func (s *Store) Delivered(ctx context.Context, date string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM deliveries WHERE date = ?)`, date).Scan(&exists)
	return exists, err
}

// MarkDelivered records that messages were announced for date
func (s *Store) MarkDelivered(ctx context.Context, date string, messages int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO deliveries (date, messages, delivered_at)
		VALUES (?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			messages = excluded.messages,
			delivered_at = excluded.delivered_at
	`, date, messages, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to record delivery: %w", err)
	}
	return nil
}

// Rating returns the stored rating for key. ok is false when unrated.
func (s *Store) Rating(ctx context.Context, key int64) (rating int, ok bool, err error) {
	err = s.db.QueryRowContext(ctx, `SELECT rating FROM rating WHERE id = ? LIMIT 1`, key).Scan(&rating)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return rating, true, nil
}

// SaveRating stores rating for key, replacing any earlier answer
func (s *Store) SaveRating(ctx context.Context, key int64, rating int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO rating (id, rating) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET rating = excluded.rating
	`, key, rating)
	if err != nil {
		return fmt.Errorf("failed to save rating: %w", err)
	}
	return nil
}
