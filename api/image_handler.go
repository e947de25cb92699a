package api

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/rpupo63/intern-hub-backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const maxImageSize = 5 << 20

var allowedImageTypes = []string{"image/png", "image/jpeg", "image/gif", "image/webp"}

type imageHandler struct {
	responder Responder
	logger    zerolog.Logger
	images    ImageUploader
}

func newImageHandler(images ImageUploader, responder func(zerolog.Logger) Responder) imageHandler {
	logger := log.With().Str("handlerName", "imageHandler").Logger()

	return imageHandler{
		responder: responder(logger),
		logger:    logger,
		images:    images,
	}
}

// uploadProjectImage stores an image for use as a project's imageUrl
// @Summary Upload project image
// @Tags Projects
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param image formData file true "Image file, at most 5MB"
// @Success 201 {object} ImageUploadResponse "Public URL of the image"
// @Failure 413 {object} ErrorResponse "Image too large"
// @Failure 415 {object} ErrorResponse "Not an image"
// @Router /admin/project-images [post]
func (h imageHandler) uploadProjectImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.images == nil {
			h.responder.WriteError(w, errs.NewServiceUnavailableError("image storage", nil))
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxImageSize+(64<<10))
		file, header, err := r.FormFile("image")
		if err != nil {
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				h.responder.WriteError(w, errs.NewMaxBodySizeExceededError(maxImageSize))
				return
			}
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("image"))
			return
		}
		defer file.Close()

		if header.Size > maxImageSize {
			h.responder.WriteError(w, errs.NewMaxBodySizeExceededError(maxImageSize))
			return
		}

		sniff := make([]byte, 512)
		n, err := io.ReadFull(file, sniff)
		if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("image", err))
			return
		}
		contentType := http.DetectContentType(sniff[:n])
		if !isAllowedImage(contentType) {
			h.responder.WriteError(w, errs.NewUnsupportedMediaTypeError(contentType, allowedImageTypes))
			return
		}
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("could not read image", err))
			return
		}

		url, err := h.images.Upload(r.Context(), header.Filename, contentType, file)
		if err != nil {
			h.responder.WriteError(w, errs.NewServiceUnavailableError("image storage", err))
			return
		}

		h.logger.Info().Str("admin", ctxGetAdmin(r.Context())).Str("url", url).Msg("project image uploaded")
		h.responder.WriteJSONStatus(w, http.StatusCreated, ImageUploadResponse{ImageURL: url})
	}
}

func isAllowedImage(contentType string) bool {
	mediaType, _, _ := strings.Cut(contentType, ";")
	for _, allowed := range allowedImageTypes {
		if mediaType == allowed {
			return true
		}
	}
	return false
}
