package slots

import (
	"context"
	"fmt"
	"log"

	"github.com/brightfolio/media-service/internal/storage"
	"github.com/brightfolio/media-service/internal/uploads"
)

// Service contains business logic for curated slots.
type Service struct {
	store   *Store
	objects storage.ObjectStore
}

// NewService creates a new slots Service.
func NewService(store *Store, objects storage.ObjectStore) *Service {
	return &Service{store: store, objects: objects}
}

// GetSlot returns the slot's entries in stored order, with public URLs
// derived for object-backed entries.
func (s *Service) GetSlot(ctx context.Context, slot string) ([]Entry, error) {
	def, err := Lookup(slot)
	if err != nil {
		return nil, err
	}

	entries, err := s.store.Get(ctx, slot)
	if err != nil {
		return nil, err
	}

	if !def.External {
		for i := range entries {
			entries[i].URL = s.objects.PublicURL(entries[i].Key)
		}
	}
	return entries, nil
}

// SaveSlot replaces the slot's value with entries in the submitted order.
// Reordering and membership changes both go through here: the caller fetches
// the list, mutates it locally, and resubmits the whole thing. Concurrent
// saves are last-writer-wins.
func (s *Service) SaveSlot(ctx context.Context, slot string, entries []Entry) error {
	def, err := Lookup(slot)
	if err != nil {
		return err
	}
	if err := validateEntries(def, entries); err != nil {
		return err
	}

	// Derived URLs are never persisted for object-backed slots.
	if !def.External {
		for i := range entries {
			entries[i].URL = ""
		}
	}

	return s.store.Save(ctx, slot, entries)
}

// DeleteEntry removes the entry identified by id (object key, or video id
// for external slots), compacting the remaining order. For object-backed
// slots the backing object is deleted afterwards; the list update wins on
// partial failure so the public site never references a missing object, and
// the leaked object is logged for out-of-band cleanup.
func (s *Service) DeleteEntry(ctx context.Context, slot, id string) error {
	def, err := Lookup(slot)
	if err != nil {
		return err
	}

	entries, err := s.store.Get(ctx, slot)
	if err != nil {
		return err
	}

	idx := -1
	for i, e := range entries {
		if identity(def, e) == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrEntryNotFound
	}

	removed := entries[idx]
	compacted := append(entries[:idx:idx], entries[idx+1:]...)
	if err := s.store.Save(ctx, slot, compacted); err != nil {
		return err
	}

	if !def.External && removed.Key != "" {
		if err := s.objects.Delete(ctx, removed.Key); err != nil {
			log.Printf("slots: orphaned object %q after removal from slot %q: %v", removed.Key, slot, err)
		}
	}
	return nil
}

func validateEntries(def Definition, entries []Entry) error {
	if def.Singleton && len(entries) > 1 {
		return &uploads.PolicyError{Reason: fmt.Sprintf("slot %q holds at most one entry", def.Name)}
	}
	for i, e := range entries {
		if def.External {
			if e.URL == "" || e.VideoID == "" {
				return &uploads.PolicyError{Reason: fmt.Sprintf("entry %d needs url and videoId", i)}
			}
		} else if e.Key == "" {
			return &uploads.PolicyError{Reason: fmt.Sprintf("entry %d needs an object key", i)}
		}
	}
	return nil
}
