package execshell_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/psdialog/internal/execshell"
)

const (
	helperProcessEnvironmentKeyConstant = "PSDIALOG_WANT_HELPER_PROCESS"
	helperStandardOutputKeyConstant     = "PSDIALOG_HELPER_STDOUT"
	helperStandardErrorKeyConstant      = "PSDIALOG_HELPER_STDERR"
	helperExitCodeKeyConstant           = "PSDIALOG_HELPER_EXIT_CODE"
	helperPrintDirectoryKeyConstant     = "PSDIALOG_HELPER_PRINT_DIRECTORY"
)

// TestMain lets the test binary double as the child process started by the OSCommandRunner tests.
func TestMain(main *testing.M) {
	if os.Getenv(helperProcessEnvironmentKeyConstant) == "1" {
		if os.Getenv(helperPrintDirectoryKeyConstant) == "1" {
			workingDirectory, _ := os.Getwd()
			fmt.Fprint(os.Stdout, workingDirectory)
			os.Exit(0)
		}
		fmt.Fprint(os.Stdout, os.Getenv(helperStandardOutputKeyConstant))
		fmt.Fprint(os.Stderr, os.Getenv(helperStandardErrorKeyConstant))

		exitCode, _ := strconv.Atoi(os.Getenv(helperExitCodeKeyConstant))
		os.Exit(exitCode)
	}

	os.Exit(main.Run())
}

func TestOSCommandRunnerCapturesStreamsAndExitCode(testInstance *testing.T) {
	testCases := []struct {
		name           string
		standardOutput string
		standardError  string
		exitCode       int
	}{
		{
			name:           "selection",
			standardOutput: "C:\\Users\\x\\Documents\r\n",
			exitCode:       0,
		},
		{
			name:     "cancelled",
			exitCode: 1,
		},
		{
			name:          "runtime_error",
			standardError: "The property 'Bogus' cannot be found on this object.",
			exitCode:      1,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			command := execshell.ShellCommand{
				Name: execshell.CommandName(os.Args[0]),
				Details: execshell.CommandDetails{
					EnvironmentVariables: map[string]string{
						helperProcessEnvironmentKeyConstant: "1",
						helperStandardOutputKeyConstant:     testCase.standardOutput,
						helperStandardErrorKeyConstant:      testCase.standardError,
						helperExitCodeKeyConstant:           strconv.Itoa(testCase.exitCode),
					},
				},
			}

			executionResult, runError := execshell.NewOSCommandRunner().Run(context.Background(), command)
			require.NoError(testInstance, runError)
			require.Equal(testInstance, testCase.exitCode, executionResult.ExitCode)
			require.Equal(testInstance, testCase.standardOutput, executionResult.StandardOutput)
			require.Equal(testInstance, testCase.standardError, executionResult.StandardError)
		})
	}
}

func TestOSCommandRunnerReportsMissingExecutable(testInstance *testing.T) {
	command := execshell.ShellCommand{Name: execshell.CommandName("psdialog-missing-interpreter")}

	_, runError := execshell.NewOSCommandRunner().Run(context.Background(), command)
	require.ErrorIs(testInstance, runError, execshell.ErrExecutableNotFound)
	require.ErrorContains(testInstance, runError, "psdialog-missing-interpreter")
}

func TestOSCommandRunnerOverridesInheritedEnvironment(testInstance *testing.T) {
	testInstance.Setenv(helperStandardOutputKeyConstant, "inherited")

	command := execshell.ShellCommand{
		Name: execshell.CommandName(os.Args[0]),
		Details: execshell.CommandDetails{
			EnvironmentVariables: map[string]string{
				helperProcessEnvironmentKeyConstant: "1",
				helperStandardOutputKeyConstant:     "override",
			},
		},
	}

	executionResult, runError := execshell.NewOSCommandRunner().Run(context.Background(), command)
	require.NoError(testInstance, runError)
	require.Equal(testInstance, "override", executionResult.StandardOutput)
}

func TestOSCommandRunnerStartsInWorkingDirectory(testInstance *testing.T) {
	workingDirectory, resolveError := filepath.EvalSymlinks(testInstance.TempDir())
	require.NoError(testInstance, resolveError)

	executablePath, executableError := filepath.Abs(os.Args[0])
	require.NoError(testInstance, executableError)

	command := execshell.ShellCommand{
		Name: execshell.CommandName(executablePath),
		Details: execshell.CommandDetails{
			WorkingDirectory: workingDirectory,
			EnvironmentVariables: map[string]string{
				helperProcessEnvironmentKeyConstant: "1",
				helperPrintDirectoryKeyConstant:     "1",
			},
		},
	}

	executionResult, runError := execshell.NewOSCommandRunner().Run(context.Background(), command)
	require.NoError(testInstance, runError)

	reportedDirectory, reportedError := filepath.EvalSymlinks(executionResult.StandardOutput)
	require.NoError(testInstance, reportedError)
	require.Equal(testInstance, workingDirectory, reportedDirectory)
}

func TestOSCommandRunnerReturnsContextCancellation(testInstance *testing.T) {
	cancelledContext, cancel := context.WithCancel(context.Background())
	cancel()

	command := execshell.ShellCommand{
		Name: execshell.CommandName(os.Args[0]),
		Details: execshell.CommandDetails{
			EnvironmentVariables: map[string]string{helperProcessEnvironmentKeyConstant: "1"},
		},
	}

	_, runError := execshell.NewOSCommandRunner().Run(cancelledContext, command)
	require.ErrorIs(testInstance, runError, context.Canceled)
}
