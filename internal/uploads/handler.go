package uploads

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/brightfolio/media-service/internal/response"
)

// PresignRequest is the transport shape of an upload-URL request.
type PresignRequest struct {
	Name     string `json:"name" validate:"omitempty,min=8,max=100"`
	MIMEType string `json:"mimeType" validate:"required,min=1,max=100"`
	Size     int64  `json:"size" validate:"required,min=1"`
	Prefix   string `json:"prefix" validate:"required,min=1,max=50"`
}

// Handler holds HTTP handlers for the upload broker.
type Handler struct {
	svc      *Service
	validate *validator.Validate
}

// NewHandler creates a new uploads Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc, validate: validator.New()}
}

// Presign godoc
//
//	@Summary		Issue a presigned upload URL
//	@Description	Validates MIME type and size against policy and returns a time-limited URL the client PUTs the bytes to. Gallery uploads also reserve a photo id after a name availability pre-check.
//	@Tags			uploads
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		PresignRequest	true	"upload descriptor"
//	@Success		200		{object}	response.Envelope{data=Issued}
//	@Failure		400		{object}	response.Envelope
//	@Failure		409		{object}	response.Envelope
//	@Failure		502		{object}	response.Envelope
//	@Router			/uploads/presign [post]
func (h *Handler) Presign(w http.ResponseWriter, r *http.Request) {
	var req PresignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	issued, err := h.svc.IssueUploadURL(r.Context(), IssueRequest{
		Name:     req.Name,
		MIMEType: req.MIMEType,
		Size:     req.Size,
		Prefix:   KeyPrefix(req.Prefix),
	})
	if err != nil {
		var policyErr *PolicyError
		switch {
		case errors.As(err, &policyErr):
			response.BadRequest(w, policyErr.Reason)
		case errors.Is(err, ErrNameTaken):
			response.Conflict(w, "name already taken")
		default:
			response.BadGateway(w, "object storage unavailable, retry later")
		}
		return
	}

	response.OK(w, issued)
}
