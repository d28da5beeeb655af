package notify

import "strings"

// sensitiveHeaderKeys are matched as substrings of lower-cased header names.
var sensitiveHeaderKeys = []string{
	"authorization",
	"x-api-key",
	"x-dx-logs-key",
	"api-key",
	"apikey",
	"token",
}

// IsSensitiveHeader reports whether a header value must not be shown.
func IsSensitiveHeader(name string) bool {
	lower := strings.ToLower(name)
	for _, key := range sensitiveHeaderKeys {
		if strings.Contains(lower, key) {
			return true
		}
	}
	return false
}

// MaskSensitiveHeaders returns a copy of headers in which sensitive values
// are cut to their first four characters followed by "...". Empty sensitive
// values become "[REDACTED]".
func MaskSensitiveHeaders(headers map[string]string) map[string]string {
	masked := make(map[string]string, len(headers))
	for name, value := range headers {
		if !IsSensitiveHeader(name) {
			masked[name] = value
			continue
		}
		if value == "" {
			masked[name] = "[REDACTED]"
			continue
		}
		runes := []rune(value)
		if len(runes) > 4 {
			runes = runes[:4]
		}
		masked[name] = string(runes) + "..."
	}
	return masked
}
