package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/princekumarofficial/tubely-service/internal/storage"
	"github.com/princekumarofficial/tubely-service/internal/types/video"
)

// ErrDuplicate is returned by CreateVideo when the ID is taken.
var ErrDuplicate = errors.New("video ID already exists")

type SQLite struct {
	db *sql.DB
}

var _ storage.Storage = (*SQLite)(nil)

func New(dbPath string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS videos (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			thumbnail_url TEXT,
			video_url TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create videos table: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) GetVideo(ctx context.Context, id string) (video.Video, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, user_id, title, thumbnail_url, video_url, created_at, updated_at FROM videos WHERE id = ?",
		id,
	)

	var (
		v            video.Video
		thumbnailURL sql.NullString
		videoURL     sql.NullString
	)
	if err := row.Scan(&v.ID, &v.UserID, &v.Title, &thumbnailURL, &videoURL, &v.CreatedAt, &v.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return video.Video{}, storage.ErrNotFound
		}
		return video.Video{}, fmt.Errorf("failed to read video %s: %w", id, err)
	}

	if thumbnailURL.Valid {
		v.ThumbnailURL = &thumbnailURL.String
	}
	if videoURL.Valid {
		v.VideoURL = &videoURL.String
	}

	return v, nil
}

func (s *SQLite) UpdateVideo(ctx context.Context, v video.Video) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE videos SET title = ?, thumbnail_url = ?, video_url = ?, updated_at = ? WHERE id = ?",
		v.Title, v.ThumbnailURL, v.VideoURL, time.Now().UTC(), v.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update video %s: %w", v.ID, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}

	return nil
}

func (s *SQLite) CreateVideo(ctx context.Context, v video.Video) error {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO videos (id, user_id, title, thumbnail_url, video_url, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		v.ID, v.UserID, v.Title, v.ThumbnailURL, v.VideoURL, now, now,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert video %s: %w", v.ID, err)
	}

	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
