package project

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ideaspark/wireframe/internal/document"
	"github.com/ideaspark/wireframe/internal/editor"
	"github.com/ideaspark/wireframe/internal/scene"
	"github.com/ideaspark/wireframe/internal/sitemap"
	"github.com/ideaspark/wireframe/internal/store"
	"github.com/ideaspark/wireframe/internal/templates"
)

var (
	ErrNotFound        = errors.New("document not found")
	ErrInvalidDocument = errors.New("invalid document")
	ErrNameRequired    = errors.New("name is required")
)

type Service struct {
	db         *store.DB
	background string
}

func NewService(db *store.DB, background string) *Service {
	return &Service{db: db, background: background}
}

// CreateOptions control the first snapshot of a new document.
type CreateOptions struct {
	Name     string `json:"name"`
	Device   string `json:"device,omitempty"`
	Template string `json:"template,omitempty"`
}

// SeededPage reports a document created from a sitemap page.
type SeededPage struct {
	DocumentID string `json:"documentId"`
	Name       string `json:"name"`
	Path       string `json:"path"`
}

// Create stores a new document and seeds its first snapshot with an empty
// canvas for the device, optionally holding one template block.
func (s *Service) Create(ctx context.Context, opts CreateOptions) (*store.Document, error) {
	name := strings.TrimSpace(opts.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	device := opts.Device
	if device == "" {
		device = editor.DefaultDevice
	}
	size, err := editor.DeviceSize(device)
	if err != nil {
		return nil, err
	}

	sc := scene.New(size, s.background)
	if opts.Template != "" {
		el, err := templates.Build(opts.Template, size)
		if err != nil {
			return nil, err
		}
		if sc, _, err = sc.Insert(el, -1); err != nil {
			return nil, fmt.Errorf("seed template: %w", err)
		}
	}

	doc, err := s.db.CreateDocument(ctx, name)
	if err != nil {
		return nil, err
	}
	if _, err := s.db.SaveSnapshot(ctx, doc.ID, document.Serialize(sc)); err != nil {
		return nil, fmt.Errorf("seed snapshot: %w", err)
	}
	return doc, nil
}

func (s *Service) Get(ctx context.Context, id string) (*store.Document, error) {
	doc, err := s.db.GetDocument(ctx, id)
	return doc, notFound(err)
}

func (s *Service) List(ctx context.Context) ([]store.Document, error) {
	return s.db.ListDocuments(ctx)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return notFound(s.db.DeleteDocument(ctx, id))
}

// GetLatestSnapshot returns the newest serialized scene of a document.
func (s *Service) GetLatestSnapshot(ctx context.Context, id string) ([]byte, error) {
	snap, err := s.db.LatestSnapshot(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return snap.Data, nil
}

func (s *Service) ListSnapshots(ctx context.Context, id string) ([]store.Snapshot, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.db.ListSnapshots(ctx, id)
}

// SaveSnapshot validates data and stores it in canonical form.
func (s *Service) SaveSnapshot(ctx context.Context, id string, data []byte) (*store.Snapshot, error) {
	sc, err := document.Deserialize(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	snap, err := s.db.SaveSnapshot(ctx, id, document.Serialize(sc))
	if err != nil {
		return nil, notFound(err)
	}
	snap.Data = nil
	return snap, nil
}

// SeedSitemap creates one document per page of the tree.
func (s *Service) SeedSitemap(ctx context.Context, data []byte) ([]SeededPage, error) {
	roots, err := sitemap.Parse(data)
	if err != nil {
		return nil, err
	}
	p := sitemap.ToProject(roots[0].Name, roots)

	pages := make([]SeededPage, 0, len(p.Pages))
	for _, page := range p.Pages {
		doc, err := s.db.CreateDocument(ctx, page.Name)
		if err != nil {
			return nil, err
		}
		if _, err := s.db.SaveSnapshot(ctx, doc.ID, document.Serialize(page.Scene)); err != nil {
			return nil, fmt.Errorf("seed page %s: %w", page.Path, err)
		}
		pages = append(pages, SeededPage{DocumentID: doc.ID, Name: page.Name, Path: page.Path})
	}
	return pages, nil
}

func notFound(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}
