package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/princekumarofficial/tubely-service/internal/storage"
	"github.com/princekumarofficial/tubely-service/internal/types/video"
)

var videoColumns = []string{"id", "user_id", "title", "thumbnail_url", "video_url", "created_at", "updated_at"}

func newMockStore(t *testing.T) (*Postgres, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return &Postgres{Db: db}, mock
}

func TestGetVideo(t *testing.T) {
	p, mock := newMockStore(t)
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT (.+) FROM videos WHERE id = \$1`).
		WithArgs("v1").
		WillReturnRows(sqlmock.NewRows(videoColumns).
			AddRow("v1", "owner", "clip", "https://cdn.example.com/t.png", nil, created, created))

	v, err := p.GetVideo(context.Background(), "v1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if v.UserID != "owner" || v.ThumbnailURL == nil || *v.ThumbnailURL != "https://cdn.example.com/t.png" {
		t.Fatalf("Unexpected video: %+v", v)
	}
	if v.VideoURL != nil {
		t.Fatalf("Expected NULL video_url to stay nil, got %q", *v.VideoURL)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("Unmet expectations: %v", err)
	}
}

func TestGetVideo_NotFound(t *testing.T) {
	p, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT (.+) FROM videos WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	if _, err := p.GetVideo(context.Background(), "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected storage.ErrNotFound, got %v", err)
	}
}

func TestGetVideo_QueryError(t *testing.T) {
	p, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT (.+) FROM videos`).WillReturnError(errors.New("connection reset"))

	_, err := p.GetVideo(context.Background(), "v1")
	if err == nil || errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected a non not-found error, got %v", err)
	}
}

func TestUpdateVideo(t *testing.T) {
	p, mock := newMockStore(t)
	url := "https://cdn.example.com/landscape/abc.mp4"

	mock.ExpectExec(`UPDATE videos SET (.+) WHERE id = \$5`).
		WithArgs("clip", nil, url, sqlmock.AnyArg(), "v1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := p.UpdateVideo(context.Background(), video.Video{ID: "v1", Title: "clip", VideoURL: &url})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("Unmet expectations: %v", err)
	}
}

func TestUpdateVideo_NotFound(t *testing.T) {
	p, mock := newMockStore(t)

	mock.ExpectExec(`UPDATE videos`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := p.UpdateVideo(context.Background(), video.Video{ID: "missing"})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected storage.ErrNotFound, got %v", err)
	}
}
