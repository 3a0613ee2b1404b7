package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"
	"github.com/princekumarofficial/tubely-service/internal/config"
	"github.com/princekumarofficial/tubely-service/internal/storage"
	"github.com/princekumarofficial/tubely-service/internal/types/video"
)

type Postgres struct {
	Db *sql.DB
}

var _ storage.Storage = (*Postgres)(nil)

func NewPostgres(cfg *config.Config) (*Postgres, error) {
	pg := cfg.Database.PGSQL
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		pg.Host, pg.Port, pg.User, pg.Password, pg.DBName, pg.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("Connected to Postgres database", slog.String("host", pg.Host), slog.String("dbname", pg.DBName))

	p := &Postgres{Db: db}
	if err := p.CreateTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return p, nil
}

func (p *Postgres) CreateTables() error {
	queries := []string{
		`
		CREATE TABLE IF NOT EXISTS videos (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			thumbnail_url TEXT,
			video_url TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		`,
		`CREATE INDEX IF NOT EXISTS idx_videos_user_id ON videos(user_id);`,
	}

	for _, q := range queries {
		if _, err := p.Db.Exec(q); err != nil {
			return err
		}
	}

	return nil
}

func (p *Postgres) GetVideo(ctx context.Context, id string) (video.Video, error) {
	query := `
	SELECT id, user_id, title, thumbnail_url, video_url, created_at, updated_at
	FROM videos WHERE id = $1
	`

	var (
		v            video.Video
		thumbnailURL sql.NullString
		videoURL     sql.NullString
	)
	err := p.Db.QueryRowContext(ctx, query, id).Scan(
		&v.ID, &v.UserID, &v.Title, &thumbnailURL, &videoURL, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
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

func (p *Postgres) UpdateVideo(ctx context.Context, v video.Video) error {
	query := `
	UPDATE videos
	SET title = $1, thumbnail_url = $2, video_url = $3, updated_at = $4
	WHERE id = $5
	`

	result, err := p.Db.ExecContext(ctx, query, v.Title, v.ThumbnailURL, v.VideoURL, time.Now().UTC(), v.ID)
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

func (p *Postgres) CreateVideo(ctx context.Context, v video.Video) error {
	query := `
	INSERT INTO videos (id, user_id, title, thumbnail_url, video_url)
	VALUES ($1, $2, $3, $4, $5)
	`

	if _, err := p.Db.ExecContext(ctx, query, v.ID, v.UserID, v.Title, v.ThumbnailURL, v.VideoURL); err != nil {
		return fmt.Errorf("failed to insert video %s: %w", v.ID, err)
	}

	return nil
}

func (p *Postgres) Close() error {
	return p.Db.Close()
}
