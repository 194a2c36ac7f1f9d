package execshell

import (
	"fmt"
	"strings"
)

const (
	startedMessageTemplateConstant          = "Running %s"
	successMessageTemplateConstant          = "Completed %s"
	failureMessageTemplateConstant          = "%s failed with exit code %d%s"
	executionFailureMessageTemplateConstant = "%s failed: %s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	standardErrorSuffixTemplateConstant     = ": %s"
	scriptSummaryTemplateConstant           = "<script, %d lines>"
	argumentsJoinSeparatorConstant          = " "
	lineSeparatorConstant                   = "\n"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	commandFlagConstant                     = "-Command"
)

// CommandMessageFormatter builds log messages describing command lifecycle stages.
type CommandMessageFormatter struct{}

// BuildStartedMessage describes a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return fmt.Sprintf(startedMessageTemplateConstant, formatter.FormatCommandLabel(command))
}

// BuildSuccessMessage describes a command that exited with code zero.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return fmt.Sprintf(successMessageTemplateConstant, formatter.FormatCommandLabel(command))
}

// BuildFailureMessage describes a command that exited with a non-zero code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return fmt.Sprintf(failureMessageTemplateConstant, formatter.FormatCommandLabel(command), result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
}

// BuildExecutionFailureMessage describes a command that could not produce a result.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	failureMessage := unknownFailureMessageConstant
	if failure != nil {
		failureMessage = failure.Error()
	}
	return fmt.Sprintf(executionFailureMessageTemplateConstant, formatter.FormatCommandLabel(command), failureMessage)
}

// FormatCommandLabel renders the executable with either its label or a summary of its arguments.
// Inline scripts passed after -Command are summarized by line count rather than echoed.
func (formatter CommandMessageFormatter) FormatCommandLabel(command ShellCommand) string {
	commandParts := []string{string(command.Name)}

	trimmedLabel := strings.TrimSpace(command.Details.Label)
	if len(trimmedLabel) > 0 {
		commandParts = append(commandParts, trimmedLabel)
	} else {
		commandParts = append(commandParts, formatter.summarizeArguments(command.Details.Arguments)...)
	}

	return strings.Join(commandParts, argumentsJoinSeparatorConstant) + formatter.formatWorkingDirectorySuffix(command)
}

func (formatter CommandMessageFormatter) summarizeArguments(arguments []string) []string {
	summarized := make([]string, 0, len(arguments))
	scriptFollows := false
	for _, argument := range arguments {
		if scriptFollows {
			summarized = append(summarized, fmt.Sprintf(scriptSummaryTemplateConstant, countLines(argument)))
			scriptFollows = false
			continue
		}
		if strings.EqualFold(argument, commandFlagConstant) {
			scriptFollows = true
		}
		summarized = append(summarized, argument)
	}
	return summarized
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func countLines(script string) int {
	trimmedScript := strings.Trim(script, lineSeparatorConstant)
	if len(trimmedScript) == 0 {
		return 0
	}
	return strings.Count(trimmedScript, lineSeparatorConstant) + 1
}
