package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/swiftcargo/movers-portal/internal/core/domain"
	"github.com/swiftcargo/movers-portal/internal/core/ports"
	"github.com/swiftcargo/movers-portal/pkg/metrics"
)

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// DocumentService implements CRUD and rendering for one document kind
// (bills, bilties, quotations or receipts).
type DocumentService[T any, PT domain.DocumentPtr[T]] struct {
	repo      ports.DocumentRepository[T]
	seq       ports.SequenceRepository
	templates ports.TemplateStore
	renderer  ports.DocumentRenderer
	log       zerolog.Logger
	now       func() time.Time
}

func NewDocumentService[T any, PT domain.DocumentPtr[T]](
	repo ports.DocumentRepository[T],
	seq ports.SequenceRepository,
	templates ports.TemplateStore,
	renderer ports.DocumentRenderer,
	log zerolog.Logger,
) *DocumentService[T, PT] {
	return &DocumentService[T, PT]{
		repo:      repo,
		seq:       seq,
		templates: templates,
		renderer:  renderer,
		log:       log,
		now:       time.Now,
	}
}

func (s *DocumentService[T, PT]) kind() domain.DocumentKind {
	var zero T
	return PT(&zero).Kind()
}

// Create stores a new document. A number is allocated from the per-kind
// sequence unless the caller supplied one.
func (s *DocumentService[T, PT]) Create(ctx context.Context, doc *T) (*T, error) {
	d := PT(doc)
	meta := d.Meta()
	kind := d.Kind()

	if meta.Number == "" {
		n, err := s.seq.Next(ctx, string(kind))
		if err != nil {
			return nil, fmt.Errorf("create %s: allocate number: %w", kind, err)
		}
		meta.Number = fmt.Sprintf("%s-%06d", kind.Prefix(), n)
	}

	now := s.now().UTC()
	meta.ID = ""
	meta.CreatedAt = now
	meta.UpdatedAt = now

	if err := s.repo.Create(ctx, doc); err != nil {
		s.log.Error().Err(err).Str("document_kind", string(kind)).Msg("failed to create document")
		return nil, fmt.Errorf("create %s: %w", kind, err)
	}

	metrics.DocumentsCreatedTotal.WithLabelValues(string(kind)).Inc()
	s.log.Info().Str("document_kind", string(kind)).Str("number", meta.Number).Str("id", meta.ID).Msg("document created")
	return doc, nil
}

func (s *DocumentService[T, PT]) Get(ctx context.Context, id string) (*T, error) {
	return s.repo.FindByID(ctx, id)
}

// Update replaces the document body. The identifier, number and creation
// time of the stored document are kept.
func (s *DocumentService[T, PT]) Update(ctx context.Context, id string, doc *T) (*T, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	old := PT(current).Meta()

	meta := PT(doc).Meta()
	meta.ID = old.ID
	meta.Number = old.Number
	meta.CreatedAt = old.CreatedAt
	meta.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, doc); err != nil {
		return nil, fmt.Errorf("update %s: %w", s.kind(), err)
	}

	s.log.Info().Str("document_kind", string(s.kind())).Str("number", meta.Number).Msg("document updated")
	return doc, nil
}

func (s *DocumentService[T, PT]) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("document_kind", string(s.kind())).Str("id", id).Msg("document deleted")
	return nil
}

func (s *DocumentService[T, PT]) List(ctx context.Context, page, limit int) (*domain.Page[*T], error) {
	page, limit = domain.NormalizePage(page, limit)

	items, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.kind(), err)
	}

	p := domain.NewPage(items, total, page, limit)
	return &p, nil
}

// Render fills the kind's template with the document's placeholders.
func (s *DocumentService[T, PT]) Render(ctx context.Context, id string) (*ports.RenderedDocument, error) {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	d := PT(doc)

	tpl, err := s.templates.Load(ctx, d.Kind())
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", d.Kind(), err)
	}

	out, err := s.renderer.Render(tpl, d.Placeholders())
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", d.Kind(), err)
	}

	metrics.DocumentsRenderedTotal.WithLabelValues(string(d.Kind())).Inc()

	name := d.Meta().Number
	if name == "" {
		name = d.Meta().ID
	}
	return &ports.RenderedDocument{
		Filename:    name + ".docx",
		ContentType: docxContentType,
		Content:     out,
	}, nil
}
