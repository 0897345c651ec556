package yamlfile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"fullscope-site-backend/internal/domain"

	"gopkg.in/yaml.v3"
)

// catalogFile is the on-disk document
type catalogFile struct {
	Photos []domain.PhotoItem `yaml:"photos"`
}

type portfolioRepo struct {
	path string
	mu   sync.RWMutex
}

func NewPortfolioRepository(path string) domain.PortfolioRepository {
	return &portfolioRepo{path: path}
}

// List reads the catalog. A missing file is an empty catalog.
func (r *portfolioRepo) List(ctx context.Context) ([]domain.PhotoItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	raw, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []domain.PhotoItem{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read portfolio: %w", err)
	}

	var doc catalogFile
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse portfolio %s: %w", r.path, err)
	}
	if doc.Photos == nil {
		doc.Photos = []domain.PhotoItem{}
	}
	return doc.Photos, nil
}

// Save replaces the catalog through a temp file and rename
func (r *portfolioRepo) Save(ctx context.Context, items []domain.PhotoItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(catalogFile{Photos: items}); err != nil {
		return fmt.Errorf("encode portfolio: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode portfolio: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create portfolio dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".portfolio-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("write portfolio: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync portfolio: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close portfolio: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod portfolio: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("replace portfolio: %w", err)
	}
	return nil
}
