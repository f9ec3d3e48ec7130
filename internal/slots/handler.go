package slots

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/brightfolio/media-service/internal/response"
	"github.com/brightfolio/media-service/internal/uploads"
)

// SaveRequest is the full desired slot value, in order.
type SaveRequest struct {
	// Entries may be empty: saving an empty list clears the slot.
	Entries []Entry `json:"entries" validate:"omitempty,max=50"`
}

// Handler holds HTTP handlers for curated slot endpoints.
type Handler struct {
	svc      *Service
	validate *validator.Validate
}

// NewHandler creates a new slots Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc, validate: validator.New()}
}

// Get godoc
//
//	@Summary		Get a curated slot
//	@Description	Returns the slot's entries in display order.
//	@Tags			slots
//	@Produce		json
//	@Security		BearerAuth
//	@Param			slot	path		string	true	"slot name"
//	@Success		200		{object}	response.Envelope{data=[]Entry}
//	@Failure		404		{object}	response.Envelope
//	@Router			/slots/{slot} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.GetSlot(r.Context(), chi.URLParam(r, "slot"))
	if err != nil {
		writeSlotError(w, err)
		return
	}

	response.OK(w, entries)
}

// Save godoc
//
//	@Summary		Replace a curated slot
//	@Description	Full replacement of the slot's membership and order; submit the complete list on every reorder. Concurrent saves are last-writer-wins.
//	@Tags			slots
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			slot	path		string		true	"slot name"
//	@Param			request	body		SaveRequest	true	"complete ordered entry list"
//	@Success		200		{object}	response.Envelope
//	@Failure		400		{object}	response.Envelope
//	@Failure		404		{object}	response.Envelope
//	@Router			/slots/{slot} [put]
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	var req SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	if err := h.svc.SaveSlot(r.Context(), chi.URLParam(r, "slot"), req.Entries); err != nil {
		writeSlotError(w, err)
		return
	}

	response.OK(w, nil)
}

// DeleteEntry godoc
//
//	@Summary		Remove one entry from a curated slot
//	@Description	Removes the entry matching key (object key, or video id for external slots), compacts the order, and deletes the backing object for object-backed slots.
//	@Tags			slots
//	@Produce		json
//	@Security		BearerAuth
//	@Param			slot	path		string	true	"slot name"
//	@Param			key		query		string	true	"entry identity"
//	@Success		200		{object}	response.Envelope
//	@Failure		400		{object}	response.Envelope
//	@Failure		404		{object}	response.Envelope
//	@Router			/slots/{slot}/entries [delete]
func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		response.BadRequest(w, "key query parameter required")
		return
	}

	if err := h.svc.DeleteEntry(r.Context(), chi.URLParam(r, "slot"), key); err != nil {
		writeSlotError(w, err)
		return
	}

	response.OK(w, nil)
}

// writeSlotError maps service errors onto envelope responses.
func writeSlotError(w http.ResponseWriter, err error) {
	var policyErr *uploads.PolicyError
	switch {
	case errors.As(err, &policyErr):
		response.BadRequest(w, policyErr.Reason)
	case errors.Is(err, ErrUnknownSlot):
		response.NotFound(w, "unknown slot")
	case errors.Is(err, ErrEntryNotFound):
		response.NotFound(w, "slot entry not found")
	default:
		response.InternalError(w)
	}
}
