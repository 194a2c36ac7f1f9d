package ui_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/psdialog/internal/execshell"
	"github.com/temirov/psdialog/internal/ui"
)

const (
	testDialogLabelConstant          = "open folder dialog"
	testStartFailureReasonConstant   = "exec: \"powershell.exe\": executable file not found in $PATH"
	testStandardErrorMessageConstant = "Exception setting \"Bogus\""
)

func TestConsoleCommandEventLoggerEmitsMessages(testInstance *testing.T) {
	command := execshell.ShellCommand{
		Name: execshell.CommandPowerShell,
		Details: execshell.CommandDetails{
			Arguments: []string{"-NoProfile", "-Command", "\nAdd-Type -AssemblyName System.Windows.Forms\n"},
			Label:     testDialogLabelConstant,
		},
	}

	testCases := []struct {
		name            string
		invoke          func(logger *ui.ConsoleCommandEventLogger)
		expectedLevel   zapcore.Level
		expectedMessage string
	}{
		{
			name: "dialog_opening",
			invoke: func(logger *ui.ConsoleCommandEventLogger) {
				logger.CommandStarted(command)
			},
			expectedLevel:   zapcore.InfoLevel,
			expectedMessage: "Opening open folder dialog",
		},
		{
			name: "single_selection",
			invoke: func(logger *ui.ConsoleCommandEventLogger) {
				logger.CommandCompleted(command, execshell.ExecutionResult{StandardOutput: "C:\\Users\\x\r\n"})
			},
			expectedLevel:   zapcore.InfoLevel,
			expectedMessage: "open folder dialog returned a selection",
		},
		{
			name: "multiple_selections",
			invoke: func(logger *ui.ConsoleCommandEventLogger) {
				logger.CommandCompleted(command, execshell.ExecutionResult{StandardOutput: "C:\\a\r\nC:\\b\r\n"})
			},
			expectedLevel:   zapcore.InfoLevel,
			expectedMessage: "open folder dialog returned 2 selections",
		},
		{
			name: "cancelled",
			invoke: func(logger *ui.ConsoleCommandEventLogger) {
				logger.CommandCompleted(command, execshell.ExecutionResult{ExitCode: 1})
			},
			expectedLevel:   zapcore.InfoLevel,
			expectedMessage: "open folder dialog closed without a selection",
		},
		{
			name: "script_error",
			invoke: func(logger *ui.ConsoleCommandEventLogger) {
				logger.CommandCompleted(command, execshell.ExecutionResult{ExitCode: 1, StandardError: testStandardErrorMessageConstant + "\r\n"})
			},
			expectedLevel:   zapcore.WarnLevel,
			expectedMessage: "open folder dialog failed with exit code 1: " + testStandardErrorMessageConstant,
		},
		{
			name: "start_failure",
			invoke: func(logger *ui.ConsoleCommandEventLogger) {
				logger.CommandExecutionFailed(command, errors.New(testStartFailureReasonConstant))
			},
			expectedLevel:   zapcore.ErrorLevel,
			expectedMessage: "open folder dialog could not be opened: " + testStartFailureReasonConstant,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			observerCore, observedLogs := observer.New(zapcore.DebugLevel)
			eventLogger := ui.NewConsoleCommandEventLogger(zap.New(observerCore))

			testCase.invoke(eventLogger)

			entries := observedLogs.All()
			require.Len(testInstance, entries, 1)
			require.Equal(testInstance, testCase.expectedLevel, entries[0].Level)
			require.Equal(testInstance, testCase.expectedMessage, entries[0].Message)
		})
	}
}

func TestDialogEventFormatterFallsBackToCommandSummary(testInstance *testing.T) {
	command := execshell.ShellCommand{
		Name:    execshell.CommandPowerShell,
		Details: execshell.CommandDetails{Arguments: []string{"-NoProfile", "-Command", "\nSelect-FolderDialog\n"}},
	}

	message := ui.DialogEventFormatter{}.BuildOpeningMessage(command)
	require.Equal(testInstance, "Opening powershell.exe -NoProfile -Command <script, 1 lines>", message)
}

func TestConsoleCommandEventLoggerToleratesNilLogger(testInstance *testing.T) {
	eventLogger := ui.NewConsoleCommandEventLogger(nil)
	require.NotPanics(testInstance, func() {
		eventLogger.CommandStarted(execshell.ShellCommand{Name: execshell.CommandPowerShell})
	})
}
