package storage

import (
	"context"
	"errors"

	"github.com/princekumarofficial/tubely-service/internal/types/video"
)

// ErrNotFound is returned when no video record has the requested ID.
var ErrNotFound = errors.New("video not found")

type Storage interface {
	GetVideo(ctx context.Context, id string) (video.Video, error)
	// UpdateVideo overwrites the URL fields of an existing record.
	UpdateVideo(ctx context.Context, v video.Video) error
	CreateVideo(ctx context.Context, v video.Video) error
	Close() error
}
