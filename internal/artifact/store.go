package artifact

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/punkouter26/PoSeeReview-sub001/internal/retry"
)

// Store is durable object storage for generated images, addressed by
// artifact id.
type Store interface {
	Put(ctx context.Context, id string, data []byte) (url string, err error)
	Delete(ctx context.Context, id string) error
}

// FileStore keeps artifacts as PNG files under a root directory and serves
// them from a static base URL.
type FileStore struct {
	Root    string
	BaseURL string
}

func NewFileStore(root, baseURL string) (*FileStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("ensure artifact dir: %w", err)
	}
	return &FileStore{
		Root:    root,
		BaseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (s *FileStore) Put(ctx context.Context, id string, data []byte) (string, error) {
	const op = "artifact.put"

	if id == "" {
		return "", retry.Validation(op, errors.New("artifact id required"))
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := filepath.Join(s.Root, id+".png")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", retry.Storage(op, err)
	}
	return s.BaseURL + "/" + id + ".png", nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	const op = "artifact.delete"

	if err := ctx.Err(); err != nil {
		return err
	}

	err := os.Remove(filepath.Join(s.Root, id+".png"))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return retry.Storage(op, err)
	}
	return nil
}
