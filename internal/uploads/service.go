package uploads

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/brightfolio/media-service/internal/storage"
)

// NameChecker answers whether a gallery name is free to use. Implemented by
// the gallery service.
type NameChecker interface {
	CheckNameAvailable(ctx context.Context, name, excludeID string) (bool, error)
}

// ErrNameTaken is returned when the candidate gallery name is already in use.
// The broker surfaces it before minting a photo id or key.
var ErrNameTaken = errors.New("uploads: name already taken")

// IssueRequest describes a presign request after transport validation.
type IssueRequest struct {
	// Name is the candidate gallery name. Required for the gallery prefix,
	// ignored otherwise.
	Name     string
	MIMEType string
	Size     int64
	Prefix   KeyPrefix
}

// Issued is the broker's answer: where to PUT the bytes and under which key.
// PhotoID is set only for gallery uploads and must be echoed back on confirm.
type Issued struct {
	UploadURL string    `json:"uploadUrl"`
	Key       string    `json:"key"`
	PhotoID   string    `json:"photoId,omitempty"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Service is the upload broker.
type Service struct {
	store  storage.ObjectStore
	names  NameChecker
	expiry time.Duration
}

// NewService creates a broker issuing URLs valid for the given expiry.
func NewService(store storage.ObjectStore, names NameChecker, expiry time.Duration) *Service {
	return &Service{store: store, names: names, expiry: expiry}
}

// IssueUploadURL validates req against policy, generates a key (and, for
// gallery uploads, a photo id), and asks the object store for a presigned PUT
// URL. No metadata is written; a gallery record exists only after confirm.
func (s *Service) IssueUploadURL(ctx context.Context, req IssueRequest) (*Issued, error) {
	if !IsKnownPrefix(req.Prefix) {
		return nil, &PolicyError{Reason: fmt.Sprintf("unknown prefix %q", req.Prefix)}
	}
	if err := ValidateUpload(req.MIMEType, req.Size); err != nil {
		return nil, err
	}

	issued := &Issued{}

	if req.Prefix == PrefixGallery {
		if req.Name == "" {
			return nil, &PolicyError{Reason: "gallery uploads require a name"}
		}
		available, err := s.names.CheckNameAvailable(ctx, req.Name, "")
		if err != nil {
			return nil, fmt.Errorf("check name availability: %w", err)
		}
		if !available {
			return nil, ErrNameTaken
		}
		issued.PhotoID = uuid.NewString()
	}

	issued.Key = NewObjectKey(req.Prefix, req.MIMEType)

	url, err := s.store.PresignPut(ctx, issued.Key, req.MIMEType, s.expiry)
	if err != nil {
		return nil, fmt.Errorf("presign upload url: %w", err)
	}

	issued.UploadURL = url
	issued.ExpiresAt = time.Now().Add(s.expiry).UTC()
	return issued, nil
}
