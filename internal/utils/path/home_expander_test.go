package pathutils_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	pathutils "github.com/temirov/psdialog/internal/utils/path"
)

func TestHomeExpanderExpand(testInstance *testing.T) {
	testCases := []struct {
		name          string
		homeDirectory string
		candidate     string
		expected      string
	}{
		{name: "bare_tilde", homeDirectory: `C:\Users\x`, candidate: "~", expected: `C:\Users\x`},
		{name: "windows_separator", homeDirectory: `C:\Users\x`, candidate: `~\Documents`, expected: `C:\Users\x\Documents`},
		{name: "forward_slash_on_windows_home", homeDirectory: `C:\Users\x\`, candidate: "~/Documents/Reports", expected: `C:\Users\x\Documents\Reports`},
		{name: "unix_home", homeDirectory: "/home/x", candidate: "~/Downloads", expected: "/home/x/Downloads"},
		{name: "other_user_unchanged", homeDirectory: `C:\Users\x`, candidate: "~admin", expected: "~admin"},
		{name: "literal_path_unchanged", homeDirectory: `C:\Users\x`, candidate: `D:\Data`, expected: `D:\Data`},
		{name: "special_folder_unchanged", homeDirectory: `C:\Users\x`, candidate: "Desktop", expected: "Desktop"},
		{name: "empty_unchanged", homeDirectory: `C:\Users\x`, candidate: "", expected: ""},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
				return testCase.homeDirectory, nil
			})
			require.Equal(testInstance, testCase.expected, expander.Expand(testCase.candidate))
		})
	}
}

func TestHomeExpanderKeepsValueWhenHomeIsUnknown(testInstance *testing.T) {
	providerCalls := 0
	expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		providerCalls++
		return "", errors.New("no home")
	})

	require.Equal(testInstance, `~\Documents`, expander.Expand(`~\Documents`))
	require.Equal(testInstance, "~", expander.Expand("~"))
	require.Equal(testInstance, 1, providerCalls)

	var nilExpander *pathutils.HomeExpander
	require.Equal(testInstance, "~", nilExpander.Expand("~"))
}
