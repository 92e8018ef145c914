package fs

import (
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// disallowed matches everything outside the filename whitelist: letters and
// digits of any script, underscore, the Thai block U+0E01..U+0E59 (which
// also covers Thai vowel and tone marks), parentheses, period and hyphen.
var disallowed = regexp.MustCompile(`[^\p{L}\p{N}_\x{0E01}-\x{0E59}.()\-]`)

// SanitizeFilename trims surrounding whitespace, turns spaces into
// underscores and drops every character outside the whitelist.
// The result may be empty. Names are composed to NFC first so decomposed
// accents survive as letters.
func SanitizeFilename(name string) string {
	name = norm.NFC.String(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, " ", "_")
	return disallowed.ReplaceAllString(name, "")
}

// SanitizeStem sanitizes the part of name before its extension and keeps the
// extension as-is. An empty stem becomes fallback.
func SanitizeStem(name, fallback string) (stem, ext string) {
	ext = filepath.Ext(name)
	stem = SanitizeFilename(strings.TrimSuffix(name, ext))
	stem = strings.Trim(stem, ".")
	if stem == "" {
		stem = fallback
	}
	return stem, ext
}
