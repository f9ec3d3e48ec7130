package uploads

import "github.com/rs/xid"

// KeyPrefix is a logical namespace for object keys. Each prefix maps to one
// section of the site's media.
type KeyPrefix string

// Known key prefixes.
const (
	PrefixGallery   KeyPrefix = "gallery"
	PrefixCarousel  KeyPrefix = "carousel"
	PrefixFactory   KeyPrefix = "factory"
	PrefixAbout     KeyPrefix = "about"
	PrefixDocuments KeyPrefix = "documents"
)

var knownPrefixes = map[KeyPrefix]bool{
	PrefixGallery:   true,
	PrefixCarousel:  true,
	PrefixFactory:   true,
	PrefixAbout:     true,
	PrefixDocuments: true,
}

// IsKnownPrefix reports whether p is one of the enumerated key prefixes.
func IsKnownPrefix(p KeyPrefix) bool {
	return knownPrefixes[p]
}

// NewObjectKey generates a collision-resistant object key under the given
// prefix, carrying the canonical extension for the MIME type. The generated
// id is never checked for collisions; xid's construction makes them
// vanishingly unlikely.
func NewObjectKey(prefix KeyPrefix, mimeType string) string {
	return string(prefix) + "/" + xid.New().String() + extensionFor(mimeType)
}
