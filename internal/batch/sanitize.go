package batch

import (
	"strings"
	"unicode"
)

const invalidFilenameChars = `<>:"/\|?*`

// SanitizeFilename makes a model or operation name safe to use as a file
// name. Reserved characters and whitespace become underscores, leading and
// trailing underscores are trimmed, and an empty result becomes "model".
func SanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		if strings.ContainsRune(invalidFilenameChars, r) || unicode.IsSpace(r) {
			b.WriteRune('_')
			continue
		}
		b.WriteRune(r)
	}

	sanitized := strings.Trim(b.String(), "_")
	if sanitized == "" {
		return "model"
	}
	return sanitized
}
