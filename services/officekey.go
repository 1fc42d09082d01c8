package services

import (
	"regexp"
	"strings"

	"office_records_go/models"
)

var (
	officeWhitespacePattern = regexp.MustCompile(`\s+`)
	officeInvalidPattern    = regexp.MustCompile(`[^A-Za-z0-9_]`)
)

// NormalizeOfficeKey derives the canonical storage key for an office from
// its free-text display name: trimmed, internal whitespace collapsed to a
// single underscore, every other non-alphanumeric character deleted, and
// upper-cased. The function is total; an input that strips down to nothing
// resolves to the CENTRAL fallback. Normalizing an already-canonical key is
// a no-op, which is what lets keys double as input everywhere.
func NormalizeOfficeKey(displayName string) string {
	s := strings.TrimSpace(displayName)
	s = officeWhitespacePattern.ReplaceAllString(s, "_")
	s = officeInvalidPattern.ReplaceAllString(s, "")
	s = strings.ToUpper(s)
	if s == "" {
		return models.CentralOfficeKey
	}
	return s
}

// DisplayFromKey derives a safe human label for a key that has no registry
// row: underscores back to spaces, upper-cased.
func DisplayFromKey(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, "_", " "))
}

// OfficeDisplayFromInput picks the display name for a raw office input:
// the trimmed, upper-cased input when present, otherwise a label derived
// from the canonical key.
func OfficeDisplayFromInput(raw, key string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return DisplayFromKey(key)
	}
	return strings.ToUpper(trimmed)
}
