package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/rpupo63/intern-hub-backend/errs"
	"github.com/rs/zerolog"
)

const maxJSONBodySize = 1 << 20

type Responder struct {
	logger          zerolog.Logger
	errorWebhookURL string
}

func NewResponder(logger zerolog.Logger) Responder {
	return Responder{logger: logger}
}

// WithErrorWebhook returns a copy of r that reports unexpected errors to url.
func (r Responder) WithErrorWebhook(url string) Responder {
	r.errorWebhookURL = url
	return r
}

func (r Responder) WriteJSON(w http.ResponseWriter, data any) {
	r.WriteJSONStatus(w, http.StatusOK, data)
}

// WriteJSONStatus writes data with the given status code
func (r Responder) WriteJSONStatus(w http.ResponseWriter, status int, data any) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	// Check if response is too large (e.g., > 10MB)
	const maxResponseSize = 10 * 1024 * 1024 // 10MB
	if len(jsonData) > maxResponseSize {
		r.logger.Error().
			Int("responseSize", len(jsonData)).
			Int("maxSize", maxResponseSize).
			Msg("response too large, truncating")

		status = http.StatusRequestEntityTooLarge
		jsonData, _ = json.Marshal(map[string]any{
			"error":        "Response too large",
			"status":       "error",
			"maxSizeMB":    maxResponseSize / (1024 * 1024),
			"actualSizeMB": len(jsonData) / (1024 * 1024),
		})
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

// SendErrorNotification posts errMsg to the configured error webhook, if any
func (r Responder) SendErrorNotification(errMsg string) {
	if r.errorWebhookURL == "" {
		return
	}

	jsonData, err := json.Marshal(map[string]string{"errorMessage": errMsg})
	if err != nil {
		r.logger.Error().Err(err).Msg("Error marshaling error notification request")
		return
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Post(r.errorWebhookURL, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		r.logger.Error().Err(err).Msg("Error sending error notification")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		r.logger.Error().Msgf("Error notification webhook returned status %d", resp.StatusCode)
	}
}

func (r Responder) WriteError(w http.ResponseWriter, err error) {
	var apiErr *errs.ApiErr

	// For unexpected errors, log and return generic internal error
	if !errors.As(err, &apiErr) {
		r.logger.Error().Err(err).Msg("unexpected error")
		go r.SendErrorNotification(err.Error())
		r.WriteJSONStatus(w, http.StatusInternalServerError, ErrorResponse{
			Error:  "Internal Server Error",
			Status: "error",
		})
		return
	}

	response := ErrorResponse{
		Error:   apiErr.Message(),
		Status:  "error",
		Field:   apiErr.Field,
		Fields:  apiErr.Fields,
		Details: apiErr.Details,
	}
	if apiErr.StatusCode >= http.StatusInternalServerError {
		r.logger.Error().Str("error", apiErr.GetFullError()).Int("status", apiErr.StatusCode).Msg("request failed")
	} else if apiErr.Cause != nil {
		response.Cause = apiErr.GetFullError()
	}

	r.WriteJSONStatus(w, apiErr.StatusCode, response)
}

// WriteTimeoutError reports a request whose context ended before a response
// was written.
func (r Responder) WriteTimeoutError(w http.ResponseWriter, endpoint string) {
	r.logger.Warn().Str("endpoint", endpoint).Msg("request context done before response")
	r.WriteJSONStatus(w, http.StatusRequestTimeout, ErrorResponse{
		Error:   "request timeout",
		Status:  "timeout",
		Details: endpoint,
	})
}

// CheckContextTimeout writes a timeout and returns true when the request context is done
func (r Responder) CheckContextTimeout(w http.ResponseWriter, req *http.Request) bool {
	select {
	case <-req.Context().Done():
		r.WriteTimeoutError(w, req.URL.Path)
		return true
	default:
		return false
	}
}

// decodeJSON reads a size-limited JSON body into dst
func decodeJSON(w http.ResponseWriter, req *http.Request, payloadName string, dst any) error {
	if ct := req.Header.Get("Content-Type"); ct != "" {
		mediaType, _, err := mime.ParseMediaType(ct)
		if err != nil || mediaType != "application/json" {
			return errs.NewUnsupportedMediaTypeError(ct, []string{"application/json"})
		}
	}

	body := http.MaxBytesReader(w, req.Body, maxJSONBodySize)
	decoder := json.NewDecoder(body)
	if err := decoder.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.As(err, &maxBytesErr):
			return errs.NewMaxBodySizeExceededError(maxBytesErr.Limit)
		case errors.Is(err, io.EOF):
			return errs.NewMalformedPayloadError(payloadName, err)
		case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
			return errs.NewInvalidJSONError(err)
		case errors.As(err, &typeErr):
			return errs.NewInvalidFieldError(typeErr.Field, "has the wrong type")
		default:
			return errs.NewMalformedPayloadError(payloadName, err)
		}
	}
	return nil
}

// wrapDatabaseError wraps a database error with context information
func wrapDatabaseError(operation, entity string, cause error) error {
	return errs.NewDatabaseError(operation, entity, cause)
}
