package errors

import (
	"regexp"
	"strings"
)

// pageNameRegex matches page names usable as store keys and URL segments.
var pageNameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

// ValidatePageName validates a page name for safety and correctness.
// Page names double as file basenames in the file store and as path segments
// in the HTTP API, so the rules are conservative:
//   - No empty names
//   - Maximum length of 128 characters
//   - Letters, digits, '.', '_' and '-' only, starting with a letter or digit
//   - No path traversal sequences
func ValidatePageName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "page name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "page name too long (max 128 characters)")
	}

	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidInput, "page name cannot contain '..'")
	}

	if !pageNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid page name: %q", name)
	}

	return nil
}
