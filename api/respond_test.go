package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rpupo63/intern-hub-backend/errs"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func decodeBody(contentType, body string) error {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	var dst LoginRequest
	return decodeJSON(httptest.NewRecorder(), req, "credentials", &dst)
}

func TestDecodeJSON(t *testing.T) {
	require.NoError(t, decodeBody("application/json; charset=utf-8", `{"username":"a","password":"b"}`))
	require.NoError(t, decodeBody("", `{"username":"a"}`))

	require.True(t, errs.IsUnsupportedMediaTypeError(decodeBody("text/plain", `{}`)))
	require.True(t, errs.IsMalformedPayloadError(decodeBody("application/json", ``)))
	require.True(t, errs.IsInvalidJSONError(decodeBody("application/json", `{"username":`)))
	require.True(t, errs.IsInvalidJSONError(decodeBody("application/json", `{username}`)))
	require.True(t, errs.IsInvalidFieldError(decodeBody("application/json", `{"username":42}`)))

	huge := `{"username":"` + strings.Repeat("x", maxJSONBodySize) + `"}`
	require.True(t, errs.IsMaxBodySizeExceededError(decodeBody("application/json", huge)))
}

func TestWriteErrorIncludesCauseOnlyForClientErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	NewResponder(zerolog.Nop()).WriteError(rec, errs.NewInvalidJSONError(errors.New("unexpected end of JSON input")))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode[ErrorResponse](t, rec)
	require.Equal(t, "invalid JSON", resp.Error)
	require.Equal(t, "json", resp.Field)
	require.Contains(t, resp.Cause, "unexpected end of JSON input")

	rec = httptest.NewRecorder()
	NewResponder(zerolog.Nop()).WriteError(rec, errs.NewServiceUnavailableError("image storage", errors.New("bucket missing")))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	resp = decode[ErrorResponse](t, rec)
	require.Equal(t, "service unavailable", resp.Error)
	require.Empty(t, resp.Cause)
}
