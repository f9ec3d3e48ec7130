package gallery

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/brightfolio/media-service/internal/response"
	"github.com/brightfolio/media-service/internal/uploads"
)

// ConfirmRequest reports a completed upload for registration.
type ConfirmRequest struct {
	PhotoID  string `json:"photoId" validate:"required,uuid4"`
	Name     string `json:"name" validate:"required,min=8,max=100"`
	Key      string `json:"key" validate:"required,min=1,max=500"`
	Size     int64  `json:"size" validate:"required,min=1"`
	MIMEType string `json:"mimeType" validate:"required,min=1,max=100"`
}

// RenameRequest carries the new name for a photo.
type RenameRequest struct {
	Name string `json:"name" validate:"required,min=8,max=100"`
}

// BulkDeleteRequest lists the photo ids to delete.
type BulkDeleteRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,max=100,dive,uuid4"`
}

// BulkDeleteResult reports how many photos were actually removed.
type BulkDeleteResult struct {
	DeletedCount int `json:"deletedCount"`
}

// AvailabilityResult is the name-check answer.
type AvailabilityResult struct {
	Available bool `json:"available"`
}

// Handler holds HTTP handlers for gallery endpoints.
type Handler struct {
	svc      *Service
	validate *validator.Validate
}

// NewHandler creates a new gallery Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc, validate: validator.New()}
}

// Confirm godoc
//
//	@Summary		Confirm a completed upload
//	@Description	Creates the photo record for bytes the client already PUT to the presigned URL. Fails with 409 if the name was taken since issuance or the photo id was already confirmed.
//	@Tags			gallery
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		ConfirmRequest	true	"confirmed upload"
//	@Success		201		{object}	response.Envelope{data=Photo}
//	@Failure		400		{object}	response.Envelope
//	@Failure		409		{object}	response.Envelope
//	@Router			/gallery/photos [post]
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req ConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	p, err := h.svc.ConfirmUpload(r.Context(), req.PhotoID, req.Name, req.Key, req.Size, req.MIMEType)
	if err != nil {
		writeGalleryError(w, err)
		return
	}

	response.Created(w, p)
}

// List godoc
//
//	@Summary		List gallery photos
//	@Description	Case-insensitive substring search over names with offset pagination. Default order is most recently touched first.
//	@Tags			gallery
//	@Produce		json
//	@Security		BearerAuth
//	@Param			search		query		string	false	"substring to match against names"
//	@Param			page		query		int		false	"page number, starting at 1"
//	@Param			limit		query		int		false	"page size, max 100"
//	@Param			sortBy		query		string	false	"name or updated_at"
//	@Param			sortOrder	query		string	false	"asc or desc"
//	@Success		200			{object}	response.Envelope{data=Page}
//	@Router			/gallery/photos [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	result, err := h.svc.List(r.Context(), ListParams{
		Search:    q.Get("search"),
		Page:      page,
		Limit:     limit,
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	})
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, result)
}

// CheckName godoc
//
//	@Summary		Check name availability
//	@Description	Advisory pre-flight before confirm or rename; the unique constraint at write time stays authoritative.
//	@Tags			gallery
//	@Produce		json
//	@Security		BearerAuth
//	@Param			name		query		string	true	"candidate name"
//	@Param			excludeId	query		string	false	"photo id whose current name should not count as a conflict"
//	@Success		200			{object}	response.Envelope{data=AvailabilityResult}
//	@Failure		400			{object}	response.Envelope
//	@Router			/gallery/name-check [get]
func (h *Handler) CheckName(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if len(name) < MinNameLen || len(name) > MaxNameLen {
		response.BadRequest(w, "name must be 8-100 characters")
		return
	}

	available, err := h.svc.CheckNameAvailable(r.Context(), name, r.URL.Query().Get("excludeId"))
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, AvailabilityResult{Available: available})
}

// Rename godoc
//
//	@Summary		Rename a photo
//	@Tags			gallery
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string			true	"photo id"
//	@Param			request	body		RenameRequest	true	"new name"
//	@Success		200		{object}	response.Envelope{data=Photo}
//	@Failure		400		{object}	response.Envelope
//	@Failure		404		{object}	response.Envelope
//	@Failure		409		{object}	response.Envelope
//	@Router			/gallery/photos/{id} [patch]
func (h *Handler) Rename(w http.ResponseWriter, r *http.Request) {
	var req RenameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	p, err := h.svc.Rename(r.Context(), chi.URLParam(r, "id"), req.Name)
	if err != nil {
		writeGalleryError(w, err)
		return
	}

	response.OK(w, p)
}

// Delete godoc
//
//	@Summary		Delete a photo
//	@Description	Deletes the backing object first, then the metadata row.
//	@Tags			gallery
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"photo id"
//	@Success		200	{object}	response.Envelope
//	@Failure		404	{object}	response.Envelope
//	@Failure		502	{object}	response.Envelope
//	@Router			/gallery/photos/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "photo not found")
			return
		}
		response.BadGateway(w, "delete failed, retry later")
		return
	}

	response.OK(w, nil)
}

// BulkDelete godoc
//
//	@Summary		Delete up to 100 photos
//	@Description	Best-effort per id; partial success is reported through deletedCount, not an error. Re-query to see what remains.
//	@Tags			gallery
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		BulkDeleteRequest	true	"photo ids"
//	@Success		200		{object}	response.Envelope{data=BulkDeleteResult}
//	@Failure		400		{object}	response.Envelope
//	@Router			/gallery/photos/bulk-delete [post]
func (h *Handler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	var req BulkDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	deleted, err := h.svc.BulkDelete(r.Context(), req.IDs)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, BulkDeleteResult{DeletedCount: deleted})
}

// writeGalleryError maps service errors onto envelope responses.
func writeGalleryError(w http.ResponseWriter, err error) {
	var policyErr *uploads.PolicyError
	switch {
	case errors.As(err, &policyErr):
		response.BadRequest(w, policyErr.Reason)
	case errors.Is(err, ErrNameTaken):
		response.Conflict(w, "name already taken")
	case errors.Is(err, ErrPhotoIDUsed):
		response.Conflict(w, "photo id already confirmed")
	case errors.Is(err, ErrNotFound):
		response.NotFound(w, "photo not found")
	default:
		response.InternalError(w)
	}
}
