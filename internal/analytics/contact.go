package analytics

import (
	"strings"
	"unicode"
)

// contactAliases collapses variant spellings of the same person to one
// canonical display name.
var contactAliases = map[string]string{
	"mr zin":  "Mr Zine",
	"mr zine": "Mr Zine",
	"zin":     "Mr Zine",
	"zine":    "Mr Zine",
}

// NormalizeContact canonicalizes a free-text contact reference:
// case-fold, trim, collapse known aliases, otherwise capitalize the
// first letter for display.
func NormalizeContact(contact string) string {
	trimmed := strings.TrimSpace(contact)
	if trimmed == "" {
		return "Unknown"
	}
	lower := strings.ToLower(trimmed)
	if canonical, ok := contactAliases[lower]; ok {
		return canonical
	}
	r := []rune(lower)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// contactAttributed reports whether a normalized contact counts toward
// employee and department rollups. Placeholder contacts do not.
func contactAttributed(normalized string) bool {
	switch strings.ToLower(normalized) {
	case "unspecified", "unknown", "non spécifié":
		return false
	}
	return true
}
