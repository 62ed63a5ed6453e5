package errors

import (
	"strings"
	"unicode/utf8"
)

// MaxDocumentSize is the largest Markdown document accepted, in bytes.
const MaxDocumentSize = 1 << 20

// Output formats accepted by ValidateFormat.
var formats = []string{"png", "jpg", "jpeg", "html", "json"}

// ValidateFormat checks an output format name, case-insensitively.
func ValidateFormat(format string) error {
	f := strings.ToLower(strings.TrimSpace(format))
	for _, ok := range formats {
		if f == ok {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "unsupported output format %q (want one of %s)", format, strings.Join(formats, ", "))
}

// ValidateDocument rejects input that is too large, not UTF-8, or contains
// NUL bytes. Empty documents are valid and render an empty preview.
func ValidateDocument(text string) error {
	if len(text) > MaxDocumentSize {
		return New(ErrCodeInvalidInput, "document too large (%d bytes, max %d)", len(text), MaxDocumentSize)
	}
	if !utf8.ValidString(text) {
		return New(ErrCodeInvalidInput, "document is not valid UTF-8")
	}
	if strings.ContainsRune(text, 0) {
		return New(ErrCodeInvalidInput, "document contains NUL bytes")
	}
	return nil
}
