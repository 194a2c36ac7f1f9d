package ui

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/psdialog/internal/execshell"
)

const (
	dialogOpeningMessageTemplateConstant      = "Opening %s"
	dialogSelectionMessageTemplateConstant    = "%s returned %s"
	dialogCancelledMessageTemplateConstant    = "%s closed without a selection"
	dialogFailedMessageTemplateConstant       = "%s failed with exit code %d: %s"
	dialogStartFailureMessageTemplateConstant = "%s could not be opened: %s"
	selectionCountTemplateConstant            = "%d selections"
	singleSelectionMessageConstant            = "a selection"
	unknownFailureMessageConstant             = "unknown error"
	selectionLineSeparatorConstant            = "\n"
)

// DialogEventFormatter builds console messages for dialog process lifecycle events.
type DialogEventFormatter struct {
	commandFormatter execshell.CommandMessageFormatter
}

// BuildOpeningMessage describes a dialog whose interpreter is starting.
func (formatter DialogEventFormatter) BuildOpeningMessage(command execshell.ShellCommand) string {
	return fmt.Sprintf(dialogOpeningMessageTemplateConstant, formatter.dialogName(command))
}

// BuildClosedMessage describes how the dialog closed: with a selection, cancelled, or with an error.
func (formatter DialogEventFormatter) BuildClosedMessage(command execshell.ShellCommand, result execshell.ExecutionResult) string {
	dialogName := formatter.dialogName(command)
	trimmedStandardError := strings.TrimSpace(result.StandardError)
	if len(trimmedStandardError) > 0 {
		return fmt.Sprintf(dialogFailedMessageTemplateConstant, dialogName, result.ExitCode, trimmedStandardError)
	}

	trimmedOutput := strings.TrimSpace(result.StandardOutput)
	if result.ExitCode != 0 || len(trimmedOutput) == 0 {
		return fmt.Sprintf(dialogCancelledMessageTemplateConstant, dialogName)
	}

	selectionCount := strings.Count(trimmedOutput, selectionLineSeparatorConstant) + 1
	if selectionCount == 1 {
		return fmt.Sprintf(dialogSelectionMessageTemplateConstant, dialogName, singleSelectionMessageConstant)
	}
	return fmt.Sprintf(dialogSelectionMessageTemplateConstant, dialogName, fmt.Sprintf(selectionCountTemplateConstant, selectionCount))
}

// BuildStartFailureMessage describes an interpreter that could not be started.
func (formatter DialogEventFormatter) BuildStartFailureMessage(command execshell.ShellCommand, failure error) string {
	failureMessage := unknownFailureMessageConstant
	if failure != nil {
		failureMessage = failure.Error()
	}
	return fmt.Sprintf(dialogStartFailureMessageTemplateConstant, formatter.dialogName(command), failureMessage)
}

func (formatter DialogEventFormatter) dialogName(command execshell.ShellCommand) string {
	trimmedLabel := strings.TrimSpace(command.Details.Label)
	if len(trimmedLabel) > 0 {
		return trimmedLabel
	}
	return formatter.commandFormatter.FormatCommandLabel(command)
}

// ConsoleCommandEventLogger writes dialog lifecycle events to a human-readable zap logger.
type ConsoleCommandEventLogger struct {
	logger    *zap.Logger
	formatter DialogEventFormatter
}

// NewConsoleCommandEventLogger constructs a console event logger backed by the provided zap logger.
func NewConsoleCommandEventLogger(logger *zap.Logger) *ConsoleCommandEventLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleCommandEventLogger{logger: logger}
}

// CommandStarted implements execshell.CommandEventObserver.
func (eventLogger *ConsoleCommandEventLogger) CommandStarted(command execshell.ShellCommand) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Info(eventLogger.formatter.BuildOpeningMessage(command))
}

// CommandCompleted implements execshell.CommandEventObserver. Error output is reported as a warning.
func (eventLogger *ConsoleCommandEventLogger) CommandCompleted(command execshell.ShellCommand, result execshell.ExecutionResult) {
	if eventLogger == nil {
		return
	}
	message := eventLogger.formatter.BuildClosedMessage(command, result)
	if len(strings.TrimSpace(result.StandardError)) > 0 {
		eventLogger.logger.Warn(message)
		return
	}
	eventLogger.logger.Info(message)
}

// CommandExecutionFailed implements execshell.CommandEventObserver.
func (eventLogger *ConsoleCommandEventLogger) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Error(eventLogger.formatter.BuildStartFailureMessage(command, failure))
}
