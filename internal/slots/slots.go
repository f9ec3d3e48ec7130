// Package slots manages curated, ordered media lists for fixed sections of
// the marketing site. Each slot lives as one serialized entry in the
// key-value configuration store; the relational store is not involved.
package slots

import "errors"

// Entry is one member of a curated slot. Object-backed entries carry the
// object-store key (URL is derived, never stored); external entries, such as
// a reel, carry the video URL and its platform id instead.
type Entry struct {
	Key     string `json:"key,omitempty"`
	URL     string `json:"url,omitempty"`
	VideoID string `json:"videoId,omitempty"`
}

// Definition describes a slot's shape. Singleton slots hold at most one
// entry; External slots reference media outside the object store.
type Definition struct {
	Name      string
	Singleton bool
	External  bool
}

// The fixed slot registry. Adding a section to the site means adding a row
// here; slots are never created dynamically.
var definitions = map[string]Definition{
	"home_carousel_photo": {Name: "home_carousel_photo"},
	"reels":               {Name: "reels", External: true},
	"factory_photo":       {Name: "factory_photo", Singleton: true},
	"about_photo":         {Name: "about_photo", Singleton: true},
}

// ErrUnknownSlot is returned for slot names outside the registry.
var ErrUnknownSlot = errors.New("unknown slot")

// ErrEntryNotFound is returned when deleteEntry matches nothing.
var ErrEntryNotFound = errors.New("slot entry not found")

// Lookup returns the definition for name.
func Lookup(name string) (Definition, error) {
	def, ok := definitions[name]
	if !ok {
		return Definition{}, ErrUnknownSlot
	}
	return def, nil
}

// identity returns the value that identifies e within a slot of the given
// definition: the object key for object-backed slots, the video id for
// external ones.
func identity(def Definition, e Entry) string {
	if def.External {
		return e.VideoID
	}
	return e.Key
}
