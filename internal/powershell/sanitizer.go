package powershell

import (
	"fmt"
	"strings"
)

const (
	doubleQuoteRuneConstant = '"'
	backslashRuneConstant   = '\\'
)

// SanitizeString removes every double quote that is not immediately preceded by a backslash.
// Backslash-escaped quotes and all other characters are kept in their original order.
// The transformation is lossy: bare quotes are dropped, not escaped.
func SanitizeString(value string) string {
	if !strings.ContainsRune(value, doubleQuoteRuneConstant) {
		return value
	}

	var builder strings.Builder
	builder.Grow(len(value))

	previousRune := rune(0)
	for _, currentRune := range value {
		if currentRune == doubleQuoteRuneConstant && previousRune != backslashRuneConstant {
			previousRune = currentRune
			continue
		}
		builder.WriteRune(currentRune)
		previousRune = currentRune
	}

	return builder.String()
}

// SanitizeValue makes a value safe to place inside a double-quoted script literal.
// Strings are sanitized, slices are sanitized element-wise into []any, nil becomes
// the empty string, and other values are sanitized through their string representation.
func SanitizeValue(value any) any {
	switch typedValue := value.(type) {
	case nil:
		return ""
	case string:
		return SanitizeString(typedValue)
	case []string:
		sanitized := make([]any, len(typedValue))
		for index, element := range typedValue {
			sanitized[index] = SanitizeString(element)
		}
		return sanitized
	case []any:
		sanitized := make([]any, len(typedValue))
		for index, element := range typedValue {
			sanitized[index] = SanitizeValue(element)
		}
		return sanitized
	default:
		return SanitizeString(fmt.Sprint(typedValue))
	}
}

// SanitizeValues sanitizes each argument independently and returns the results in order.
func SanitizeValues(values ...any) []any {
	sanitized := make([]any, len(values))
	for index, value := range values {
		sanitized[index] = SanitizeValue(value)
	}
	return sanitized
}

// SanitizeStrings is the string-typed form of SanitizeValues.
func SanitizeStrings(values ...string) []string {
	sanitized := make([]string, len(values))
	for index, value := range values {
		sanitized[index] = SanitizeString(value)
	}
	return sanitized
}
