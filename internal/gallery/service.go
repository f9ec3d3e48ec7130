package gallery

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/brightfolio/media-service/internal/storage"
	"github.com/brightfolio/media-service/internal/uploads"
)

// Name length bounds for gallery photos.
const (
	MinNameLen = 8
	MaxNameLen = 100
)

// Default and maximum page sizes for List.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// photoRepo is the slice of Repository the service needs. Narrowed to an
// interface so tests can run against an in-memory fake.
type photoRepo interface {
	Create(ctx context.Context, id, name, key string, size int64, mimeType string) (*Photo, error)
	GetByID(ctx context.Context, id string) (*Photo, error)
	List(ctx context.Context, params ListParams) ([]Photo, int, error)
	UpdateName(ctx context.Context, id, newName string) (*Photo, error)
	Delete(ctx context.Context, id string) error
	NameExists(ctx context.Context, name, excludeID string) (bool, error)
}

// Page is one page of gallery photos plus the full filtered count.
type Page struct {
	Photos   []Photo `json:"photos"`
	Total    int     `json:"total"`
	Page     int     `json:"page"`
	PageSize int     `json:"pageSize"`
}

// Service contains business logic for the gallery metadata registry.
type Service struct {
	repo  photoRepo
	store storage.ObjectStore
}

// NewService creates a new gallery Service.
func NewService(repo photoRepo, store storage.ObjectStore) *Service {
	return &Service{repo: repo, store: store}
}

// ConfirmUpload turns a completed client upload into a durable photo record.
// The broker never wrote metadata, so this is the moment the photo starts to
// exist. photoID is single-use: a second confirm with the same id fails with
// ErrPhotoIDUsed regardless of the other fields.
func (s *Service) ConfirmUpload(ctx context.Context, photoID, name, key string, size int64, mimeType string) (*Photo, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if !uploads.IsAllowedImageMIME(mimeType) {
		return nil, &uploads.PolicyError{Reason: fmt.Sprintf("mime type %q is not allowed for gallery photos", mimeType)}
	}
	if size < 1 {
		return nil, &uploads.PolicyError{Reason: "size must be at least 1 byte"}
	}

	p, err := s.repo.Create(ctx, photoID, name, key, size, mimeType)
	if err != nil {
		return nil, err
	}

	s.materialize(p)
	return p, nil
}

// CheckNameAvailable reports whether name is free. excludeID lets a rename
// treat the record's current name as available. Advisory only: the unique
// constraint at write time is the authoritative check.
func (s *Service) CheckNameAvailable(ctx context.Context, name, excludeID string) (bool, error) {
	exists, err := s.repo.NameExists(ctx, name, excludeID)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

// List returns one page of photos. Out-of-range paging and sort inputs are
// normalized rather than rejected: page floors at 1, limit is clamped to
// MaxPageSize, unknown sort fields fall back to the default ordering.
func (s *Service) List(ctx context.Context, params ListParams) (*Page, error) {
	params = normalizeListParams(params)

	photos, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	for i := range photos {
		s.materialize(&photos[i])
	}

	if photos == nil {
		photos = []Photo{}
	}
	return &Page{
		Photos:   photos,
		Total:    total,
		Page:     params.Page,
		PageSize: params.Limit,
	}, nil
}

// Rename changes a photo's name. Renaming to the current name is a no-op
// that succeeds.
func (s *Service) Rename(ctx context.Context, id, newName string) (*Photo, error) {
	if err := validateName(newName); err != nil {
		return nil, err
	}

	p, err := s.repo.UpdateName(ctx, id, newName)
	if err != nil {
		return nil, err
	}

	s.materialize(p)
	return p, nil
}

// Delete removes the backing object first, then the metadata row. A
// failing object delete aborts before the row is touched, so the photo
// stays listed and the delete can be retried. The reverse failure leaves an
// orphaned row, which is logged for out-of-band cleanup.
func (s *Service) Delete(ctx context.Context, id string) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, p.Key); err != nil {
		return fmt.Errorf("delete object %q: %w", p.Key, err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Printf("gallery: orphaned metadata row %s after object %q was deleted: %v", id, p.Key, err)
		}
		return err
	}
	return nil
}

// BulkDelete deletes each id best-effort and returns the number of photos
// fully removed. Failures are logged and skipped; the batch never aborts.
// Callers re-query to see what remains.
func (s *Service) BulkDelete(ctx context.Context, ids []string) (int, error) {
	deleted := 0
	for _, id := range ids {
		if err := s.Delete(ctx, id); err != nil {
			log.Printf("gallery: bulk delete skipped %s: %v", id, err)
			continue
		}
		deleted++
	}
	return deleted, nil
}

// materialize fills the derived public URL. URLs are never stored; they are
// a pure function of the asset base and the key.
func (s *Service) materialize(p *Photo) {
	p.URL = s.store.PublicURL(p.Key)
}

func validateName(name string) error {
	if len(name) < MinNameLen || len(name) > MaxNameLen {
		return &uploads.PolicyError{Reason: fmt.Sprintf("name must be %d-%d characters", MinNameLen, MaxNameLen)}
	}
	return nil
}

func normalizeListParams(params ListParams) ListParams {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 {
		params.Limit = DefaultPageSize
	}
	if params.Limit > MaxPageSize {
		params.Limit = MaxPageSize
	}
	switch params.SortBy {
	case "name", "updated_at":
	default:
		params.SortBy = "updated_at"
	}
	switch params.SortOrder {
	case "asc", "desc":
	default:
		if params.SortBy == "updated_at" {
			params.SortOrder = "desc"
		} else {
			params.SortOrder = "asc"
		}
	}
	return params
}
