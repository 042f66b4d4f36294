package mapping

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ParseMemberPath splits a dotted member path such as "Address.Street"
// into its segments.
func ParseMemberPath(path string) ([]string, error) {
	if path == "" {
		return nil, errors.New("empty member path")
	}

	segments := strings.Split(path, ".")

	for _, seg := range segments {
		if seg == "" {
			return nil, fmt.Errorf("invalid member path %q: empty segment", path)
		}

		if !isValidIdent(seg) {
			return nil, fmt.Errorf("invalid member path %q: invalid identifier %q", path, seg)
		}
	}

	return segments, nil
}

// isValidIdent checks that s is a letter or underscore followed by
// letters, digits or underscores.
func isValidIdent(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		switch {
		case unicode.IsLetter(r) || r == '_':
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}

	return true
}
