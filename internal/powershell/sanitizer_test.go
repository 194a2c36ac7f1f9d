package powershell_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/psdialog/internal/powershell"
)

func TestSanitizeString(testInstance *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "no_quotes", input: `C:\Users\x`, expected: `C:\Users\x`},
		{name: "bare_quotes_removed", input: `"unescaped"`, expected: `unescaped`},
		{name: "escaped_quotes_kept", input: `\"already escaped\"`, expected: `\"already escaped\"`},
		{name: "leading_bare_trailing_escaped", input: `"test\"`, expected: `test\"`},
		{name: "inner_escaped_kept", input: `"test\"test"`, expected: `test\"test`},
		{name: "consecutive_bare_quotes", input: `a""b`, expected: `ab`},
		{name: "escaped_then_bare", input: `a\""b`, expected: `a\"b`},
		{name: "injection_attempt", input: `x"; Remove-Item C:\ -Recurse; "`, expected: `x; Remove-Item C:\ -Recurse; `},
		{name: "unicode_preserved", input: `«Dossier» "été"`, expected: `«Dossier» été`},
		{name: "empty", input: ``, expected: ``},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expected, powershell.SanitizeString(testCase.input))
		})
	}
}

func TestSanitizeStringLeavesNoUnescapedQuote(testInstance *testing.T) {
	inputs := []string{`"`, `""`, `"""`, `\""`, `a"b"c`, `\\"x`, `"\"\""`}

	for _, input := range inputs {
		sanitized := powershell.SanitizeString(input)
		for index, character := range sanitized {
			if character != '"' {
				continue
			}
			require.Positive(testInstance, index, "input %q produced a leading quote", input)
			require.Equal(testInstance, byte('\\'), sanitized[index-1], "input %q produced an unescaped quote", input)
		}
		require.Equal(testInstance, strings.ReplaceAll(input, `"`, ""), strings.ReplaceAll(sanitized, `"`, ""), "non-quote characters must be preserved for %q", input)
	}
}

func TestSanitizeValueHandlesTypes(testInstance *testing.T) {
	testCases := []struct {
		name     string
		input    any
		expected any
	}{
		{name: "string", input: `"Desktop"`, expected: "Desktop"},
		{name: "nil", input: nil, expected: ""},
		{name: "boolean", input: false, expected: "false"},
		{name: "integer", input: 42, expected: "42"},
		{name: "string_slice", input: []string{`"a"`, `b`}, expected: []any{"a", "b"}},
		{name: "nested_slice", input: []any{`"a"`, []any{nil, `\"b\"`}, 3}, expected: []any{"a", []any{"", `\"b\"`}, "3"}},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expected, powershell.SanitizeValue(testCase.input))
		})
	}
}

func TestSanitizeValuesPreservesPositions(testInstance *testing.T) {
	sanitized := powershell.SanitizeValues(`"Select File"`, nil, `All Files (*.*)|*.*`, true)

	require.Equal(testInstance, []any{"Select File", "", "All Files (*.*)|*.*", "true"}, sanitized)
}

func TestSanitizeStringsPreservesPositions(testInstance *testing.T) {
	sanitized := powershell.SanitizeStrings(`"Pick"`, `Folders|*.folder`, `C:\"Temp"`)

	require.Equal(testInstance, []string{"Pick", "Folders|*.folder", `C:\"Temp`}, sanitized)
}
