// Package uploads implements the upload broker: it validates upload requests
// against policy and issues presigned, time-limited upload URLs. It moves no
// bytes itself — clients PUT directly to the object store.
package uploads

import "fmt"

// MaxImageSize is the upper bound for image uploads.
const MaxImageSize = 10 << 20 // 10 MiB

// MaxDocumentSize is the upper bound for PDF-class assets.
const MaxDocumentSize = 50 << 20 // 50 MiB

// imageMIMEs is the allow-list for image uploads. Anything else image-like
// (tiff, bmp, ...) is rejected on purpose.
var imageMIMEs = map[string]string{
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
}

// documentMIMEs is the allow-list for document uploads, with the larger size bound.
var documentMIMEs = map[string]string{
	"application/pdf": ".pdf",
}

// PolicyError is a non-retryable input rejection. Retrying with the same
// request will fail identically.
type PolicyError struct {
	Reason string
}

func (e *PolicyError) Error() string {
	return "policy violation: " + e.Reason
}

// IsAllowedImageMIME reports whether mimeType is on the image allow-list.
func IsAllowedImageMIME(mimeType string) bool {
	_, ok := imageMIMEs[mimeType]
	return ok
}

// ValidateUpload checks mimeType against the allow-lists and size against the
// bound for that class of asset. It returns a PolicyError on rejection.
func ValidateUpload(mimeType string, size int64) error {
	var limit int64
	switch {
	case IsAllowedImageMIME(mimeType):
		limit = MaxImageSize
	case documentMIMEs[mimeType] != "":
		limit = MaxDocumentSize
	default:
		return &PolicyError{Reason: fmt.Sprintf("mime type %q is not allowed", mimeType)}
	}

	if size < 1 {
		return &PolicyError{Reason: "size must be at least 1 byte"}
	}
	if size > limit {
		return &PolicyError{Reason: fmt.Sprintf("size %d exceeds the %d byte limit for %s", size, limit, mimeType)}
	}
	return nil
}

// extensionFor returns the canonical file extension for an allow-listed MIME
// type, or "" for types outside the allow-lists.
func extensionFor(mimeType string) string {
	if ext, ok := imageMIMEs[mimeType]; ok {
		return ext
	}
	return documentMIMEs[mimeType]
}
