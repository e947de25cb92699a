package main

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigAppliesLogSettingsFromParameters(t *testing.T) {
	previous := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(previous) })

	env := map[string]string{"SSM_PARAMETER_PATH": "/intern-hub/test", "LOG_FORMAT": "json"}
	var gotPrefix string
	c, err := loadConfig(context.Background(), env, func(ctx context.Context, cfg map[string]string, prefix string) (int, error) {
		gotPrefix = prefix
		cfg["LOG_LEVEL"] = "warn"
		return 1, nil
	})

	require.NoError(t, err)
	require.Equal(t, "/intern-hub/test", gotPrefix)
	require.Equal(t, "warn", c["LOG_LEVEL"])
	require.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
}

func TestLoadConfigSkipsParametersWithoutPath(t *testing.T) {
	previous := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(previous) })

	called := false
	_, err := loadConfig(context.Background(), map[string]string{"LOG_LEVEL": "error", "LOG_FORMAT": "json"}, func(context.Context, map[string]string, string) (int, error) {
		called = true
		return 0, nil
	})
	require.NoError(t, err)
	require.False(t, called)
	require.Equal(t, zerolog.ErrorLevel, zerolog.GlobalLevel())

	_, err = loadConfig(context.Background(), map[string]string{"SSM_PARAMETER_PATH": "/x"}, func(context.Context, map[string]string, string) (int, error) {
		return 0, errors.New("access denied")
	})
	require.ErrorContains(t, err, "access denied")
}
