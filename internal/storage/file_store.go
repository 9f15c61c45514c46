package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FileStore saves uploaded images to disk under a base directory. Files are
// served statically under publicPath by the HTTP server.
type FileStore struct {
	basePath   string
	publicPath string
}

// NewFileStore creates the base directory if missing.
func NewFileStore(basePath, publicPath string) (*FileStore, error) {
	if strings.TrimSpace(basePath) == "" {
		return nil, fmt.Errorf("storage base path is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	publicPath = "/" + strings.Trim(publicPath, "/")
	return &FileStore{basePath: basePath, publicPath: publicPath}, nil
}

// Dir returns the directory files are written to, for static serving.
func (f *FileStore) Dir() string {
	return f.basePath
}

// PublicPath returns the URL path prefix files are served under.
func (f *FileStore) PublicPath() string {
	return f.publicPath
}

// Save writes the upload under a generated collision-free name.
func (f *FileStore) Save(_ context.Context, filename string, r io.Reader, _ int64, _ string) (StoredImage, error) {
	name := storedName(filename)
	target := filepath.Join(f.basePath, name)

	out, err := os.Create(target)
	if err != nil {
		return StoredImage{}, fmt.Errorf("create file: %w", err)
	}
	defer out.Close()
	if _, err := io.Copy(out, r); err != nil {
		// best effort: do not leave a partial file behind
		_ = os.Remove(target)
		return StoredImage{}, fmt.Errorf("write file: %w", err)
	}
	return StoredImage{Key: name, URL: f.publicPath + "/" + name}, nil
}

// Delete removes a stored image by key.
func (f *FileStore) Delete(_ context.Context, key string) error {
	key = filepath.Base(strings.TrimSpace(key))
	if key == "" || key == "." {
		return nil
	}
	err := os.Remove(filepath.Join(f.basePath, key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func storedName(original string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(original)))
	return "image-" + uuid.NewString() + ext
}
