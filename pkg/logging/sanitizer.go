package logging

import (
	"regexp"
)

// RedactedText is the replacement text for sensitive data.
const RedactedText = "[REDACTED]"

var (
	// Matches password=xxx, pwd=xxx, pass=xxx in key=value connection
	// strings, until the next delimiter.
	passwordPattern = regexp.MustCompile(`(?i)(password|pwd|pass)=[^;&\s]+`)

	// Matches user:pass@host credentials in URL-style connection strings.
	connStringPattern = regexp.MustCompile(`://[^:]+:[^@]+@[^/\s]+`)

	// Matches phone numbers: 7+ digits with optional separators and a
	// leading country code. Farmer phone numbers are personal data and
	// must not land in logs verbatim.
	phonePattern = regexp.MustCompile(`\+?\d[\d\s().-]{6,}\d`)
)

// SanitizeConnectionString removes credentials from connection strings.
// Use this before logging any connection string.
func SanitizeConnectionString(connStr string) string {
	if connStr == "" {
		return ""
	}

	sanitized := passwordPattern.ReplaceAllString(connStr, "${1}="+RedactedText)
	sanitized = connStringPattern.ReplaceAllString(sanitized, "://"+RedactedText+"@"+RedactedText)
	return sanitized
}

// RedactPhone masks anything that looks like a phone number in a
// free-text value, such as an outlet farmer-search term.
func RedactPhone(s string) string {
	if s == "" {
		return ""
	}
	return phonePattern.ReplaceAllString(s, RedactedText)
}
