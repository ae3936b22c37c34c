package docgen

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/swiftcargo/movers-portal/internal/core/domain"
)

// TemplateStore loads <kind>.docx from a directory tree.
type TemplateStore struct {
	fsys fs.FS
}

func NewTemplateStore(fsys fs.FS) *TemplateStore {
	return &TemplateStore{fsys: fsys}
}

// NewDirTemplateStore serves templates from dir on disk.
func NewDirTemplateStore(dir string) *TemplateStore {
	return NewTemplateStore(os.DirFS(dir))
}

func (s *TemplateStore) Load(_ context.Context, kind domain.DocumentKind) ([]byte, error) {
	name := string(kind) + ".docx"
	data, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrTemplateNotFound, name)
		}
		return nil, fmt.Errorf("load template %s: %w", name, err)
	}
	return data, nil
}

// Missing lists the document kinds that have no template, for startup checks.
func (s *TemplateStore) Missing(kinds ...domain.DocumentKind) []domain.DocumentKind {
	var out []domain.DocumentKind
	for _, k := range kinds {
		if _, err := fs.Stat(s.fsys, string(k)+".docx"); err != nil {
			out = append(out, k)
		}
	}
	return out
}
