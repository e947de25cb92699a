package main

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rpupo63/intern-hub-backend/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// setupLogging configures the global zerolog logger from LOG_LEVEL,
// LOG_FORMAT (console or json) and LOG_FILE.
func setupLogging(c map[string]string) {
	level, err := zerolog.ParseLevel(strings.ToLower(config.GetString(c, "LOG_LEVEL", "info")))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	var out io.Writer = os.Stderr
	if strings.ToLower(config.GetString(c, "LOG_FORMAT", "console")) == "console" {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}

	if path := config.GetString(c, "LOG_FILE", ""); path != "" {
		logFile := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		out = zerolog.MultiLevelWriter(out, logFile)
	}

	log.Logger = zerolog.New(out).With().Timestamp().Str("service", "intern-hub").Logger()
}
