// Package kv defines the interface for the key-value configuration store.
// Curated slot values live here rather than in the relational store —
// each slot is one entry holding a serialized list.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no value exists under the requested key.
var ErrNotFound = errors.New("kv: key not found")

// Store is the interface for the configuration key-value store.
type Store interface {
	// Get returns the raw value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Put stores value under key, overwriting any previous value.
	Put(ctx context.Context, key, value string) error
}
