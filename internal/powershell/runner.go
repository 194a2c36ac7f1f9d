package powershell

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/temirov/psdialog/internal/execshell"
)

const (
	noProfileFlagConstant                      = "-NoProfile"
	commandFlagConstant                        = "-Command"
	dialogCancelledMessageConstant             = "Dialog cancelled or failed."
	runnerLoggerNotConfiguredMessageConstant   = "powershell runner logger not configured"
	runnerExecutorNotConfiguredMessageConstant = "powershell runner executor not configured"
	dialogStartedMessageConstant               = "dialog script started"
	dialogResolvedMessageConstant              = "dialog returned a selection"
	dialogRejectedMessageConstant              = "dialog did not return a selection"
	logFieldDialogIdentifierConstant           = "dialog_id"
	logFieldDialogLabelConstant                = "dialog"
	logFieldScriptBytesConstant                = "script_bytes"
	logFieldSelectionLineCountConstant         = "selection_lines"
	logFieldExitCodeConstant                   = "exit_code"
	selectionLineSeparatorConstant             = "\n"
)

var (
	// ErrDialogCancelled matches rejections that carry no error output, which is how a closed
	// or cancelled dialog presents itself.
	ErrDialogCancelled = errors.New(dialogCancelledMessageConstant)
	// ErrRunnerLoggerNotConfigured indicates a Runner constructed without a logger.
	ErrRunnerLoggerNotConfigured = errors.New(runnerLoggerNotConfiguredMessageConstant)
	// ErrRunnerExecutorNotConfigured indicates a Runner constructed without an executor.
	ErrRunnerExecutorNotConfigured = errors.New(runnerExecutorNotConfiguredMessageConstant)
)

// CommandExecutor runs a shell command; *execshell.ShellExecutor satisfies it.
type CommandExecutor interface {
	Execute(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error)
}

// RunnerConfiguration selects the interpreter binary and any extra interpreter arguments placed
// before -NoProfile -Command. WorkingDirectory and Environment apply to the interpreter process;
// Environment entries override inherited variables of the same name.
type RunnerConfiguration struct {
	Executable       string
	Arguments        []string
	WorkingDirectory string
	Environment      map[string]string
}

// DialogError is the rejection returned when a dialog script produced no selection.
// Its message is the interpreter's standard error, or "Dialog cancelled or failed." when
// standard error was empty.
type DialogError struct {
	Message       string
	ExitCode      int
	StandardError string
	Cause         error
}

// Error returns the rejection message.
func (dialogError DialogError) Error() string {
	return dialogError.Message
}

// Unwrap exposes ErrDialogCancelled for empty-output rejections or the execution failure.
func (dialogError DialogError) Unwrap() error {
	return dialogError.Cause
}

// Runner executes dialog scripts, one interpreter process per call.
type Runner struct {
	logger           *zap.Logger
	executor         CommandExecutor
	executable       execshell.CommandName
	extraArguments   []string
	workingDirectory string
	environment      map[string]string
}

// NewRunner validates dependencies and constructs a Runner. An empty executable selects powershell.exe.
func NewRunner(logger *zap.Logger, executor CommandExecutor, configuration RunnerConfiguration) (*Runner, error) {
	if logger == nil {
		return nil, ErrRunnerLoggerNotConfigured
	}
	if executor == nil {
		return nil, ErrRunnerExecutorNotConfigured
	}

	executable := execshell.CommandPowerShell
	if trimmedExecutable := strings.TrimSpace(configuration.Executable); len(trimmedExecutable) > 0 {
		executable = execshell.CommandName(trimmedExecutable)
	}

	extraArguments := make([]string, 0, len(configuration.Arguments))
	for _, argument := range configuration.Arguments {
		if trimmedArgument := strings.TrimSpace(argument); len(trimmedArgument) > 0 {
			extraArguments = append(extraArguments, trimmedArgument)
		}
	}

	var environment map[string]string
	for name, value := range configuration.Environment {
		if trimmedName := strings.TrimSpace(name); len(trimmedName) > 0 {
			if environment == nil {
				environment = make(map[string]string, len(configuration.Environment))
			}
			environment[trimmedName] = value
		}
	}

	return &Runner{
		logger:           logger,
		executor:         executor,
		executable:       executable,
		extraArguments:   extraArguments,
		workingDirectory: strings.TrimSpace(configuration.WorkingDirectory),
		environment:      environment,
	}, nil
}

// Command builds the interpreter invocation for script without running it.
func (runner *Runner) Command(label string, script Script) execshell.ShellCommand {
	arguments := append([]string{}, runner.extraArguments...)
	arguments = append(arguments, noProfileFlagConstant, commandFlagConstant, script.String())
	return execshell.ShellCommand{
		Name: runner.executable,
		Details: execshell.CommandDetails{
			Arguments:            arguments,
			WorkingDirectory:     runner.workingDirectory,
			EnvironmentVariables: runner.environment,
			Label:                label,
		},
	}
}

// Run executes script and blocks until the interpreter exits. Exit code zero with non-empty
// trimmed standard output resolves to that output; every other outcome is a DialogError.
// No deadline is imposed; the process runs until the dialog closes unless executionContext is cancelled.
func (runner *Runner) Run(executionContext context.Context, label string, script Script) (string, error) {
	dialogLogger := runner.logger.With(
		zap.String(logFieldDialogIdentifierConstant, uuid.NewString()),
		zap.String(logFieldDialogLabelConstant, label),
	)
	dialogLogger.Debug(dialogStartedMessageConstant, zap.Int(logFieldScriptBytesConstant, len(script)))

	executionResult, executionError := runner.executor.Execute(executionContext, runner.Command(label, script))
	if executionError != nil {
		var failedError execshell.CommandFailedError
		if !errors.As(executionError, &failedError) {
			dialogLogger.Debug(dialogRejectedMessageConstant, zap.Error(executionError))
			return "", DialogError{Message: executionError.Error(), ExitCode: -1, Cause: executionError}
		}
		executionResult = failedError.Result
	}

	selection, selectionError := interpretResult(executionResult)
	if selectionError != nil {
		dialogLogger.Debug(dialogRejectedMessageConstant, zap.Int(logFieldExitCodeConstant, executionResult.ExitCode), zap.Error(selectionError))
		return "", selectionError
	}

	dialogLogger.Debug(dialogResolvedMessageConstant, zap.Int(logFieldSelectionLineCountConstant, strings.Count(selection, selectionLineSeparatorConstant)+1))
	return selection, nil
}

func interpretResult(executionResult execshell.ExecutionResult) (string, error) {
	trimmedOutput := strings.TrimSpace(executionResult.StandardOutput)
	if executionResult.ExitCode == 0 && len(trimmedOutput) > 0 {
		return trimmedOutput, nil
	}

	if len(executionResult.StandardError) > 0 {
		return "", DialogError{
			Message:       executionResult.StandardError,
			ExitCode:      executionResult.ExitCode,
			StandardError: executionResult.StandardError,
		}
	}

	return "", DialogError{
		Message:  dialogCancelledMessageConstant,
		ExitCode: executionResult.ExitCode,
		Cause:    ErrDialogCancelled,
	}
}
