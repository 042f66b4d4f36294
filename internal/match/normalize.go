package match

import (
	"strings"
	"unicode"
)

// suffixes are stripped by NormalizeIdentWithSuffixStrip, longest first.
var suffixes = []string{"table", "sets", "set", "ids", "key", "id"}

// NormalizeIdent folds an identifier to lower case and drops separators,
// so "dbo.[Order_Lines]", "dbo.OrderLines" and "DboOrderLines" compare equal.
func NormalizeIdent(s string) string {
	return strings.Join(TokenizeIdent(s), "")
}

// NormalizeIdentWithSuffixStrip normalizes s and removes one trailing
// suffix such as "id" or "set" when something is left afterwards.
func NormalizeIdentWithSuffixStrip(s string) string {
	norm := NormalizeIdent(s)

	for _, suffix := range suffixes {
		if trimmed, ok := strings.CutSuffix(norm, suffix); ok && trimmed != "" {
			return trimmed
		}
	}

	return norm
}

// TokenizeIdent splits an identifier into lower-case words.
//
//   - "OrderID" -> ["order", "id"]
//   - "dbo.[XMLDocs]" -> ["dbo", "xml", "docs"]
//   - "customer_name" -> ["customer", "name"]
func TokenizeIdent(s string) []string {
	var (
		tokens  []string
		current strings.Builder
	)

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, strings.ToLower(current.String()))
			current.Reset()
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if isSeparator(r) {
			flush()

			continue
		}

		if i > 0 && startsWord(runes, i) {
			flush()
		}

		current.WriteRune(r)
	}

	flush()

	return tokens
}

// isSeparator covers word separators and store-name quoting.
func isSeparator(r rune) bool {
	switch r {
	case '_', '-', ' ', '.', '[', ']', '"', '`':
		return true
	default:
		return false
	}
}

// startsWord reports a camel-case boundary before runes[i]: a lower-to-upper
// transition, or the last capital of an acronym followed by a lower-case rune.
func startsWord(runes []rune, i int) bool {
	r, prev := runes[i], runes[i-1]
	if !unicode.IsUpper(r) || isSeparator(prev) {
		return false
	}

	if !unicode.IsUpper(prev) {
		return true
	}

	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
