package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rpupo63/intern-hub-backend/errs"
	"github.com/stretchr/testify/require"
)

func TestGuardOpensAfterConsecutiveFailures(t *testing.T) {
	cb := NewBreaker("test", time.Minute)
	boom := errors.New("boom")

	for i := 0; i < 4; i++ {
		_, err := guard(cb, "model", func() (any, error) { return nil, boom })
		require.ErrorIs(t, err, boom)
	}

	calls := 0
	_, err := guard(cb, "model", func() (any, error) {
		calls++
		return nil, nil
	})
	require.True(t, errs.IsCircuitBreakerOpenError(err))
	require.Zero(t, calls)
}

func TestGuardWithoutBreakerCallsThrough(t *testing.T) {
	result, err := guard(nil, "model", func() (any, error) { return "ok", nil })
	require.NoError(t, err)
	require.Equal(t, "ok", result)
}

func TestFormRelayUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := server.URL
	server.Close()

	err := NewFormRelay(endpoint).Submit(context.Background(), sampleApplication())
	require.True(t, errs.IsServiceUnavailableError(err))
}
