package assets

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Asset is a stored payload held by the memory sink.
type Asset struct {
	Data      []byte
	MediaType string
}

type memoryKey struct {
	kind    Kind
	videoID string
}

// Memory keeps assets in process memory, one per (kind, video ID). A
// newer upload for the same video replaces the previous one.
type Memory struct {
	baseURL string

	mu     sync.RWMutex
	assets map[memoryKey]Asset
}

var (
	_ Sink   = (*Memory)(nil)
	_ Reader = (*Memory)(nil)
)

func NewMemory(baseURL string) *Memory {
	return &Memory{
		baseURL: strings.TrimRight(baseURL, "/"),
		assets:  make(map[memoryKey]Asset),
	}
}

func (m *Memory) Put(ctx context.Context, obj Object, body io.Reader) error {
	var buf bytes.Buffer
	if obj.Size > 0 {
		buf.Grow(int(obj.Size))
	}
	if _, err := io.Copy(&buf, body); err != nil {
		return fmt.Errorf("failed to read asset body: %w", err)
	}

	m.mu.Lock()
	m.assets[memoryKey{obj.Kind, obj.VideoID}] = Asset{Data: buf.Bytes(), MediaType: obj.ContentType}
	m.mu.Unlock()

	return nil
}

func (m *Memory) URL(obj Object) string {
	if obj.Kind == KindVideo {
		return fmt.Sprintf("%s/api/videos/%s/content", m.baseURL, obj.VideoID)
	}
	return fmt.Sprintf("%s/api/thumbnails/%s", m.baseURL, obj.VideoID)
}

func (m *Memory) Get(kind Kind, videoID string) (Asset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.assets[memoryKey{kind, videoID}]
	if !ok {
		return Asset{}, ErrNotFound
	}
	return a, nil
}
