package slots

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/brightfolio/media-service/internal/kv"
)

// Store persists slot values as JSON arrays in the key-value configuration
// store, one entry per slot name. Every save is a full replacement of the
// previous value; order in the array is the only ordering signal.
type Store struct {
	kv kv.Store
}

// NewStore creates a slot Store over the given key-value backend.
func NewStore(kvStore kv.Store) *Store {
	return &Store{kv: kvStore}
}

// Get returns the stored entries for slot in order. A slot that was never
// saved is an empty list, not an error.
func (s *Store) Get(ctx context.Context, slot string) ([]Entry, error) {
	raw, err := s.kv.Get(ctx, slotKey(slot))
	if errors.Is(err, kv.ErrNotFound) {
		return []Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load slot %q: %w", slot, err)
	}

	var entries []Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("decode slot %q: %w", slot, err)
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

// Save overwrites the slot with entries in the given order.
func (s *Store) Save(ctx context.Context, slot string, entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode slot %q: %w", slot, err)
	}
	if err := s.kv.Put(ctx, slotKey(slot), string(raw)); err != nil {
		return fmt.Errorf("save slot %q: %w", slot, err)
	}
	return nil
}

func slotKey(slot string) string {
	return "slot:" + slot
}
