package dialogs_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/psdialog/dialogs"
)

func TestSplitSelection(testInstance *testing.T) {
	testCases := []struct {
		name      string
		selection string
		expected  []string
	}{
		{name: "single", selection: `C:\Users\x`, expected: []string{`C:\Users\x`}},
		{name: "crlf", selection: "C:\\a\r\nC:\\b", expected: []string{`C:\a`, `C:\b`}},
		{name: "lf", selection: "C:\\a\nC:\\b\n", expected: []string{`C:\a`, `C:\b`}},
		{name: "blank_lines", selection: "C:\\a\r\n\r\n \nC:\\b", expected: []string{`C:\a`, `C:\b`}},
		{name: "empty", selection: "", expected: []string{}},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expected, dialogs.SplitSelection(testCase.selection))
		})
	}
}
