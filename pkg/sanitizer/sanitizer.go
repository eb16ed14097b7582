package sanitizer

import (
	"regexp"
	"strings"
)

// Strategy is one normalization step; Pipeline composes them left to right.
type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var (
	reWhitespace   = regexp.MustCompile(`\s+`)
	reKeyCharset   = regexp.MustCompile(`[^0-9a-z_\-.]+`)
	reControlChars = regexp.MustCompile(`[\x00-\x1f\x7f]`)
)

func trim(s string) string {
	return strings.TrimSpace(s)
}

func collapseWhitespace(s string) string {
	return reWhitespace.ReplaceAllString(s, " ")
}

func stripControlChars(s string) string {
	return reControlChars.ReplaceAllString(s, "")
}

// SanitizeName normalizes display names: control characters removed and runs
// of whitespace collapsed, case preserved.
func SanitizeName(input string) string {
	p := Pipeline{stripControlChars, collapseWhitespace, trim}
	return p.Apply(input)
}

// SanitizeMetadataKey normalizes metadata map keys to a lowercase
// letter/digit/underscore charset so they are safe as document field values.
func SanitizeMetadataKey(input string) string {
	p := Pipeline{
		trim,
		strings.ToLower,
		func(s string) string { return reKeyCharset.ReplaceAllString(s, "_") },
	}
	return p.Apply(input)
}

// SanitizeMetadata rewrites a metadata map with sanitized keys and trimmed
// values, dropping entries whose key sanitizes to nothing.
func SanitizeMetadata(metadata map[string]string) map[string]string {
	if metadata == nil {
		return nil
	}
	out := make(map[string]string, len(metadata))
	for key, value := range metadata {
		k := SanitizeMetadataKey(key)
		if k == "" {
			continue
		}
		out[k] = SanitizeName(value)
	}
	return out
}
