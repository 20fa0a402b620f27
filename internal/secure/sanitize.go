// Package secure redacts credential-shaped content from text destined for
// logs or API responses.
package secure

import (
	"regexp"
	"strings"
)

var (
	googleKeyPattern = regexp.MustCompile(`AIza[0-9A-Za-z\-_]{35}`)
	openAIKeyPattern = regexp.MustCompile(`sk-[0-9A-Za-z]{48}`)
	longTokenPattern = regexp.MustCompile(`[A-Za-z0-9]{32,}`)
)

// secretFieldNames are keys whose values are always redacted regardless of shape.
var secretFieldNames = map[string]struct{}{
	"apikey":   {},
	"api_key":  {},
	"key":      {},
	"token":    {},
	"secret":   {},
	"password": {},
}

// Sanitize redacts known API-key prefixes and long alphanumeric tokens from s.
func Sanitize(s string) string {
	s = googleKeyPattern.ReplaceAllString(s, "[REDACTED_API_KEY]")
	s = openAIKeyPattern.ReplaceAllString(s, "[REDACTED_API_KEY]")
	return longTokenPattern.ReplaceAllString(s, "[REDACTED_LONG_STRING]")
}

// SanitizeMap returns a deep copy of m with secret-named fields replaced by
// "[REDACTED]" and all string values sanitized.
func SanitizeMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if _, secret := secretFieldNames[strings.ToLower(k)]; secret {
			out[k] = "[REDACTED]"
			continue
		}
		out[k] = sanitizeValue(v)
	}
	return out
}

func sanitizeValue(v any) any {
	switch t := v.(type) {
	case string:
		return Sanitize(t)
	case map[string]any:
		return SanitizeMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = sanitizeValue(e)
		}
		return out
	default:
		return v
	}
}

// MaskKey formats a credential for startup logging: eight asterisks plus the
// last four characters. Short keys are fully masked.
func MaskKey(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", 8) + "..." + key[len(key)-4:]
}
