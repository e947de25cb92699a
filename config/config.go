// Package config holds the process configuration as a flat key/value map
// read once at startup. Blank values count as unset.
package config

import (
	"os"
	"strconv"
	"strings"
)

// New snapshots the environment.
func New() map[string]string {
	environ := os.Environ()
	envAsMap := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry != "" {
			key, value := split(entry)
			envAsMap[key] = value
		}
	}
	return envAsMap
}

// assumes entry is not the empty string
func split(entry string) (key, value string) {
	key, value, _ = strings.Cut(entry, "=")
	return key, value
}

func lookup(config map[string]string, key string) (string, bool) {
	val, ok := config[key]
	if !ok {
		return "", false
	}
	val = strings.TrimSpace(val)
	return val, val != ""
}

func GetString(config map[string]string, key string, defaultValue string) string {
	if val, ok := lookup(config, key); ok {
		return val
	}
	return defaultValue
}

func GetInt(config map[string]string, key string, defaultValue int) int {
	s, ok := lookup(config, key)
	if !ok {
		return defaultValue
	}

	asInt, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}
	return asInt
}

func GetBool(config map[string]string, key string, defaultValue bool) bool {
	s, ok := lookup(config, key)
	if !ok {
		return defaultValue
	}

	asBool, err := strconv.ParseBool(s)
	if err != nil {
		return defaultValue
	}
	return asBool
}

// GetList splits a comma separated value, dropping blank entries.
func GetList(config map[string]string, key string) []string {
	s, ok := lookup(config, key)
	if !ok {
		return nil
	}

	var values []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	return values
}
