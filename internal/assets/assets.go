// Package assets stores uploaded thumbnails and videos and computes the
// URLs clients use to fetch them.
package assets

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
)

type Kind string

const (
	KindThumbnail Kind = "thumbnail"
	KindVideo     Kind = "video"
)

// ErrNotFound is returned by readable sinks for unknown objects.
var ErrNotFound = errors.New("asset not found")

// Object describes an asset being stored. Key is the generated name
// (with any orientation prefix); sinks that address by video instead use
// VideoID and Kind.
type Object struct {
	VideoID     string
	Kind        Kind
	Key         string
	ContentType string
	Size        int64
}

// Sink is where uploaded bytes end up. Exactly one implementation is
// active per process.
type Sink interface {
	Put(ctx context.Context, obj Object, body io.Reader) error
	URL(obj Object) string
}

// Reader is implemented by sinks that can serve stored bytes back
// themselves. Only the memory sink does; the others are fetched by URL.
type Reader interface {
	Get(kind Kind, videoID string) (Asset, error)
}

// Extension returns the file extension for a media type, taken from its
// subtype ("image/png" -> "png").
func Extension(mediaType string) string {
	_, subtype, ok := strings.Cut(mediaType, "/")
	if !ok || subtype == "" {
		return "bin"
	}
	return subtype
}

// NewKey returns a random URL-safe name for an asset of mediaType.
func NewKey(mediaType string) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate asset key: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b) + "." + Extension(mediaType), nil
}
