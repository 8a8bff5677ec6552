package upload

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/s3drop/service/internal/response"
	"github.com/s3drop/service/internal/storage"
)

const (
	// FileField is the multipart form field the browser submits the file under.
	FileField = "file"

	// MaxUploadSize caps the uploaded file at 16 MiB.
	MaxUploadSize = 16 << 20

	// envelopeOverhead is extra body allowance for the multipart boundary
	// and part headers, so a file of exactly MaxUploadSize still fits.
	envelopeOverhead = 16 << 10

	// parseMemoryLimit is how much of the form is held in memory before
	// spilling to temp files.
	parseMemoryLimit = 4 << 20
)

// Handler holds HTTP handlers for upload endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new upload Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Upload godoc
//
//	@Summary		Upload a file
//	@Description	Accepts a single multipart file (max 16 MiB) and stores it in the configured S3 bucket under a timestamped key.
//	@Tags			uploads
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file	true	"file to upload"
//	@Success		200		{object}	response.Envelope{data=Result}
//	@Failure		400		{object}	response.Envelope
//	@Failure		403		{object}	response.Envelope
//	@Failure		413		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/upload [post]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize+envelopeOverhead)

	if err := r.ParseMultipartForm(parseMemoryLimit); err != nil {
		if isTooLarge(err) {
			response.PayloadTooLarge(w, "file exceeds the 16 MiB limit")
			return
		}
		response.BadRequest(w, "request is not a valid multipart form")
		return
	}

	file, header, err := r.FormFile(FileField)
	if err != nil {
		h.writeError(w, ErrNoFile)
		return
	}
	defer file.Close()

	if header.Size > MaxUploadSize {
		response.PayloadTooLarge(w, "file exceeds the 16 MiB limit")
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		if isTooLarge(err) {
			response.PayloadTooLarge(w, "file exceeds the 16 MiB limit")
			return
		}
		slog.Error("reading upload body failed", "error", err)
		response.InternalError(w)
		return
	}

	result, err := h.svc.Process(r.Context(), Request{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     content,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, result)
}

// writeError maps service and storage failures to status codes. Provider
// detail is logged here and never echoed to the client.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNoFile):
		response.BadRequest(w, "no file provided")
	case errors.Is(err, ErrEmptyFilename):
		response.BadRequest(w, "no usable filename provided")
	case errors.Is(err, storage.ErrAccessDenied):
		slog.Error("storage rejected credentials", "error", err)
		response.Forbidden(w, "upload not authorized")
	case errors.Is(err, storage.ErrBucketNotFound):
		slog.Error("storage misconfigured", "error", err)
		response.InternalError(w)
	default:
		slog.Error("upload failed", "error", err)
		response.InternalError(w)
	}
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr) || errors.Is(err, multipart.ErrMessageTooLarge)
}
