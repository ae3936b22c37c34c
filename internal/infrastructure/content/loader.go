// Package content loads the public site content (services, branches and
// testimonials) from a YAML file.
package content

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"gopkg.in/yaml.v3"

	"github.com/swiftcargo/movers-portal/internal/core/domain"
)

var ErrInvalidContent = errors.New("invalid site content")

// Parse decodes and validates site content. Unknown keys are rejected so a
// typo in the file does not silently drop a section.
func Parse(r io.Reader) (*domain.SiteContent, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var c domain.SiteContent
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidContent, err)
	}
	if err := validate(&c); err != nil {
		return nil, err
	}
	if c.Services == nil {
		c.Services = []domain.Service{}
	}
	if c.Branches == nil {
		c.Branches = []domain.Branch{}
	}
	if c.Testimonials == nil {
		c.Testimonials = []domain.Testimonial{}
	}
	return &c, nil
}

func validate(c *domain.SiteContent) error {
	seen := make(map[string]struct{}, len(c.Services))
	for i, s := range c.Services {
		slug := strings.TrimSpace(s.Slug)
		if slug == "" {
			return fmt.Errorf("%w: services[%d]: slug is required", ErrInvalidContent, i)
		}
		if _, dup := seen[slug]; dup {
			return fmt.Errorf("%w: services[%d]: duplicate slug %q", ErrInvalidContent, i, slug)
		}
		seen[slug] = struct{}{}
	}
	for i, t := range c.Testimonials {
		if t.Rating < 1 || t.Rating > 5 {
			return fmt.Errorf("%w: testimonials[%d]: rating %d outside 1..5", ErrInvalidContent, i, t.Rating)
		}
	}
	return nil
}

// LoadFile reads and parses the content file at path.
func LoadFile(path string) (*domain.SiteContent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read site content: %w", err)
	}
	return Parse(bytes.NewReader(data))
}

// Store serves the current content and can swap in a fresh copy from disk.
type Store struct {
	path    string
	current atomic.Pointer[domain.SiteContent]
}

// NewStore loads path once. An empty path yields empty content.
func NewStore(path string) (*Store, error) {
	s := &Store{path: path}
	if path == "" {
		s.current.Store(&domain.SiteContent{
			Services:     []domain.Service{},
			Branches:     []domain.Branch{},
			Testimonials: []domain.Testimonial{},
		})
		return s, nil
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewStaticStore wraps already parsed content.
func NewStaticStore(c *domain.SiteContent) *Store {
	s := &Store{}
	s.current.Store(c)
	return s
}

func (s *Store) Content() *domain.SiteContent {
	return s.current.Load()
}

// Reload re-reads the file. On error the previous content stays active.
func (s *Store) Reload() error {
	if s.path == "" {
		return nil
	}
	c, err := LoadFile(s.path)
	if err != nil {
		return err
	}
	s.current.Store(c)
	return nil
}
