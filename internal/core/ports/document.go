package ports

import (
	"context"

	"github.com/swiftcargo/movers-portal/internal/core/domain"
)

// DocumentRepository is CRUD plus paged listing over one document kind.
type DocumentRepository[T any] interface {
	Create(ctx context.Context, doc *T) error
	FindByID(ctx context.Context, id string) (*T, error)
	Update(ctx context.Context, doc *T) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, page, limit int) ([]*T, int64, error)
}

// SequenceRepository hands out monotonically increasing numbers per name.
type SequenceRepository interface {
	Next(ctx context.Context, name string) (int64, error)
}

// TemplateStore loads the binary template for a document kind.
type TemplateStore interface {
	Load(ctx context.Context, kind domain.DocumentKind) ([]byte, error)
}

// DocumentRenderer fills named placeholders in a binary template.
type DocumentRenderer interface {
	Render(template []byte, values map[string]string) ([]byte, error)
}

// RenderedDocument is a filled template ready to be downloaded.
type RenderedDocument struct {
	Filename    string
	ContentType string
	Content     []byte
}

// DocumentService is the use-case surface for one document kind.
type DocumentService[T any] interface {
	Create(ctx context.Context, doc *T) (*T, error)
	Get(ctx context.Context, id string) (*T, error)
	Update(ctx context.Context, id string, doc *T) (*T, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, page, limit int) (*domain.Page[*T], error)
	Render(ctx context.Context, id string) (*RenderedDocument, error)
}
