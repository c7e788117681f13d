package util

import (
	"errors"
	"regexp"
	"strings"
)

// Literal backslash-u escapes leaking out of PDF extraction, an accented
// character surviving as six characters of text instead of a rune.
var unicodeEscapePattern = regexp.MustCompile(`\\u[0-9a-fA-F]{4}`)

// SanitizeText normalizes extracted document text so it is safe to store in
// Postgres and to embed in prompts. It removes NUL (which Postgres rejects),
// the remaining C0 control characters and DEL except tab/newline/carriage
// return, strips literal \uXXXX escape sequences, and trims surrounding
// whitespace. Applying it twice yields the same result as applying it once.
func SanitizeText(text string) string {
	if text == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r == 0x7F {
			continue
		}
		if r < 0x20 && r != '\t' && r != '\n' && r != '\r' {
			continue
		}
		b.WriteRune(r)
	}
	// Deleting one escape can splice the surrounding text into a new one,
	// so replace until the output is stable.
	cleaned := b.String()
	for {
		next := unicodeEscapePattern.ReplaceAllString(cleaned, "")
		if next == cleaned {
			break
		}
		cleaned = next
	}
	return strings.TrimSpace(cleaned)
}

// SanitizeFileName removes path separators and rejects traversal patterns.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", errors.New("invalid file name")
	}
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	if s == "" {
		return "", errors.New("invalid file name")
	}
	return s, nil
}
