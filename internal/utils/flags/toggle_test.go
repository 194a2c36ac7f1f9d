package flags

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestAddToggleFlagParsesValues(testInstance *testing.T) {
	testCases := []struct {
		name            string
		arguments       []string
		expectedValue   bool
		expectedChanged bool
	}{
		{name: "default_false", arguments: []string{}, expectedValue: false, expectedChanged: false},
		{name: "implicit_true", arguments: []string{"--multi-select"}, expectedValue: true, expectedChanged: true},
		{name: "explicit_yes", arguments: []string{"--multi-select", "yes"}, expectedValue: true, expectedChanged: true},
		{name: "explicit_on", arguments: []string{"--multi-select=on"}, expectedValue: true, expectedChanged: true},
		{name: "explicit_true_uppercase", arguments: []string{"--multi-select", "TRUE"}, expectedValue: true, expectedChanged: true},
		{name: "explicit_no", arguments: []string{"--multi-select", "no"}, expectedValue: false, expectedChanged: true},
		{name: "explicit_zero", arguments: []string{"--multi-select", "0"}, expectedValue: false, expectedChanged: true},
		{name: "followed_by_flag", arguments: []string{"--multi-select", "--title", "Pick"}, expectedValue: true, expectedChanged: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			command := &cobra.Command{}
			command.Flags().String("title", "", "Dialog title")

			var toggleValue bool
			AddToggleFlag(command.Flags(), &toggleValue, "multi-select", "", false, "Allow selecting several entries")

			parseError := command.ParseFlags(NormalizeToggleArguments(testCase.arguments))
			require.NoError(testInstance, parseError)
			require.Equal(testInstance, testCase.expectedValue, toggleValue)

			flag := command.Flags().Lookup("multi-select")
			require.NotNil(testInstance, flag)
			require.Equal(testInstance, testCase.expectedChanged, flag.Changed)
		})
	}
}

func TestAddToggleFlagRejectsInvalidValues(testInstance *testing.T) {
	command := &cobra.Command{}

	var toggleValue bool
	AddToggleFlag(command.Flags(), &toggleValue, "multi-select", "", false, "Allow selecting several entries")

	parseError := command.ParseFlags(NormalizeToggleArguments([]string{"--multi-select", "maybe"}))
	require.Error(testInstance, parseError)
	require.False(testInstance, toggleValue)
	require.False(testInstance, command.Flags().Lookup("multi-select").Changed)
}

func TestAddToggleFlagSeedsDefaultAndUsage(testInstance *testing.T) {
	command := &cobra.Command{}

	toggleValue := false
	AddToggleFlag(command.Flags(), &toggleValue, "multi-select", "m", true, "Allow selecting several entries")

	require.True(testInstance, toggleValue)
	require.Equal(testInstance, "`<YES|no>` Allow selecting several entries", command.Flags().Lookup("multi-select").Usage)

	parseError := command.ParseFlags(NormalizeToggleArguments([]string{"-m", "no"}))
	require.NoError(testInstance, parseError)
	require.False(testInstance, toggleValue)
}

func TestNormalizeToggleArgumentsStopsAtTerminator(testInstance *testing.T) {
	command := &cobra.Command{}
	var toggleValue bool
	AddToggleFlag(command.Flags(), &toggleValue, "multi-select", "", false, "")

	normalized := NormalizeToggleArguments([]string{"--", "--multi-select", "yes"})
	require.Equal(testInstance, []string{"--", "--multi-select", "yes"}, normalized)
	require.Nil(testInstance, NormalizeToggleArguments(nil))
}
