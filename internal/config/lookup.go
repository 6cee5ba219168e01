package config

import (
	"errors"
	"strings"
)

var (
	trueTokens  = []string{"true", "on", "ok", "y", "yes", "1"}
	falseTokens = []string{"false", "off", "n", "no", "0"}
)

// lookupString returns the trimmed value for key. Blank values count as absent.
func lookupString(src Source, key string) (string, bool) {
	raw, ok := src.Lookup(key)
	if !ok {
		return "", false
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	return raw, true
}

func requiredString(src Source, key string) (string, error) {
	v, ok := lookupString(src, key)
	if !ok {
		return "", missing(key)
	}
	return v, nil
}

func stringSetting(src Source, key, def string) string {
	if v, ok := lookupString(src, key); ok {
		return v
	}
	return def
}

func boolSetting(src Source, key string, def bool) (bool, error) {
	raw, ok := lookupString(src, key)
	if !ok {
		return def, nil
	}
	v, err := parseBool(raw)
	if err != nil {
		return false, malformed(key, raw, err)
	}
	return v, nil
}

func listSetting(src Source, key string, def []string) []string {
	raw, ok := lookupString(src, key)
	if !ok {
		return append([]string{}, def...)
	}
	return parseList(raw)
}

func requiredList(src Source, key string) ([]string, error) {
	raw, ok := lookupString(src, key)
	if !ok {
		return nil, missing(key)
	}
	return parseList(raw), nil
}

func databaseSetting(src Source, key, defURL string) (ConnectionDescriptor, error) {
	raw, ok := lookupString(src, key)
	if !ok {
		raw = defURL
	}
	desc, err := ParseDatabaseURL(raw)
	if err != nil {
		return ConnectionDescriptor{}, malformed(key, redactURL(raw), err)
	}
	return desc, nil
}

func parseBool(raw string) (bool, error) {
	token := strings.ToLower(strings.TrimSpace(raw))
	for _, t := range trueTokens {
		if token == t {
			return true, nil
		}
	}
	for _, f := range falseTokens {
		if token == f {
			return false, nil
		}
	}
	return false, errors.New("expected a boolean token")
}

// parseList splits a comma-delimited value, trimming items and dropping empties.
func parseList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
