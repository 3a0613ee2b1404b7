package assets

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FS writes assets below a root directory that the HTTP server exposes
// at /assets/.
type FS struct {
	root    string
	baseURL string
}

var _ Sink = (*FS)(nil)

func NewFS(root, baseURL string) (*FS, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create assets root: %w", err)
	}
	return &FS{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (fs *FS) Root() string {
	return fs.root
}

// Path returns the on-disk location of key, rejecting keys that escape root.
func (fs *FS) Path(key string) (string, error) {
	p := filepath.Join(fs.root, filepath.FromSlash(key))
	rel, err := filepath.Rel(fs.root, p)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("invalid asset key %q", key)
	}
	return p, nil
}

func (fs *FS) Put(ctx context.Context, obj Object, body io.Reader) error {
	path, err := fs.Path(obj.Key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create asset file: %w", err)
	}

	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("failed to write asset file: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to close asset file: %w", err)
	}

	return nil
}

func (fs *FS) URL(obj Object) string {
	return fmt.Sprintf("%s/assets/%s", fs.baseURL, obj.Key)
}
