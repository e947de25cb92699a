package errs

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewDatabaseErrorMapsDriverMessages(t *testing.T) {
	tests := []struct {
		name   string
		cause  error
		status int
		is     error
	}{
		{"postgres duplicate", errors.New(`ERROR: duplicate key value violates unique constraint "idx_projects_code"`), http.StatusConflict, ErrAlreadyExists},
		{"sqlite unique", errors.New("UNIQUE constraint failed: projects.code"), http.StatusConflict, ErrAlreadyExists},
		{"mongo duplicate", errors.New("E11000 duplicate key error collection"), http.StatusConflict, ErrAlreadyExists},
		{"mongo no documents", errors.New("mongo: no documents in result"), http.StatusNotFound, ErrNotFound},
		{"connection", errors.New("dial tcp: connection refused"), http.StatusServiceUnavailable, ErrDatabaseConnection},
		{"other", errors.New("syntax error at or near"), http.StatusInternalServerError, ErrDatabaseQuery},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewDatabaseError("create", "project", tt.cause)
			require.Equal(t, tt.status, err.StatusCode)
			require.ErrorIs(t, err, tt.is)
			require.Equal(t, tt.cause, err.Cause)
		})
	}
	require.True(t, IsDatabaseConnectionError(NewDatabaseError("find", "project", errors.New("server selection timeout"))))
}

func TestNewDatabaseErrorKeepsApiErr(t *testing.T) {
	notFound := NewNotFound("project")
	require.Same(t, notFound, NewDatabaseError("update", "project", notFound))
}

func TestTaggedErrorsKeepMessageAndSentinel(t *testing.T) {
	err := NewSuggestionError(SuggestionUnparseableMessage, errors.New("bad json"))
	require.Equal(t, SuggestionUnparseableMessage, err.Message())
	require.True(t, IsSuggestionError(err))
	require.Equal(t, http.StatusBadGateway, err.StatusCode)

	bad := NewBadRequestError("update contains no changes")
	require.Equal(t, "update contains no changes", bad.Error())
	require.True(t, IsBadRequest(bad))
	require.False(t, IsNotFound(bad))
}

func TestValidationErrorExposesFirstField(t *testing.T) {
	err := NewValidationError(map[string]string{"title": "too short", "imageUrl": "bad"})
	require.Equal(t, "imageUrl", err.Field)
	require.Equal(t, "validation failed", err.Message())
	require.Equal(t, "validation failed: invalid fields: imageUrl, title", err.Error())
	require.Len(t, err.Fields, 2)
}

func TestGetFullErrorFollowsCauses(t *testing.T) {
	inner := NewServiceUnavailableError("form relay", errors.New("timeout"))
	outer := NewInternalErrorWithCause("submit failed", inner)
	require.Equal(t, "submit failed -> service unavailable: form relay is unavailable -> timeout", outer.GetFullError())
}
