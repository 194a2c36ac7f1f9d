package execshell

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

const (
	loggerNotConfiguredMessageConstant        = "shell executor logger not configured"
	commandRunnerNotConfiguredMessageConstant = "shell executor command runner not configured"
	logFieldCommandNameConstant               = "command_name"
	logFieldArgumentCountConstant             = "argument_count"
	logFieldExitCodeConstant                  = "exit_code"
	logFieldStandardOutputBytesConstant       = "stdout_bytes"
	logFieldStandardErrorBytesConstant        = "stderr_bytes"
)

// ErrLoggerNotConfigured indicates that a ShellExecutor was constructed without a logger.
var ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)

// ErrCommandRunnerNotConfigured indicates that a ShellExecutor was constructed without a runner.
var ErrCommandRunnerNotConfigured = errors.New(commandRunnerNotConfiguredMessageConstant)

// ShellExecutor runs shell commands through a CommandRunner, logging and publishing lifecycle events.
type ShellExecutor struct {
	logger           *zap.Logger
	commandRunner    CommandRunner
	messageFormatter CommandMessageFormatter
	eventObservers   observerGroup
}

// NewShellExecutor validates dependencies and constructs a ShellExecutor.
func NewShellExecutor(logger *zap.Logger, commandRunner CommandRunner, observers ...CommandEventObserver) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if commandRunner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}

	return &ShellExecutor{
		logger:           logger,
		commandRunner:    commandRunner,
		messageFormatter: CommandMessageFormatter{},
		eventObservers:   newObserverGroup(observers),
	}, nil
}

// Execute runs the command once. A non-zero exit code yields CommandFailedError carrying the
// full result; a failure to run yields CommandExecutionError.
func (executor *ShellExecutor) Execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	executor.logger.Info(
		executor.messageFormatter.BuildStartedMessage(command),
		zap.String(logFieldCommandNameConstant, string(command.Name)),
		zap.Int(logFieldArgumentCountConstant, len(command.Details.Arguments)),
	)
	executor.eventObservers.CommandStarted(command)

	executionResult, runError := executor.commandRunner.Run(executionContext, command)
	if runError != nil {
		executor.logger.Error(executor.messageFormatter.BuildExecutionFailureMessage(command, runError), zap.Error(runError))
		executor.eventObservers.CommandExecutionFailed(command, runError)
		return ExecutionResult{}, CommandExecutionError{Command: command, Cause: runError}
	}

	executor.eventObservers.CommandCompleted(command, executionResult)

	resultFields := []zap.Field{
		zap.Int(logFieldExitCodeConstant, executionResult.ExitCode),
		zap.Int(logFieldStandardOutputBytesConstant, len(executionResult.StandardOutput)),
		zap.Int(logFieldStandardErrorBytesConstant, len(executionResult.StandardError)),
	}

	if executionResult.ExitCode != 0 {
		executor.logger.Warn(executor.messageFormatter.BuildFailureMessage(command, executionResult), resultFields...)
		return ExecutionResult{}, CommandFailedError{Command: command, Result: executionResult}
	}

	executor.logger.Info(executor.messageFormatter.BuildSuccessMessage(command), resultFields...)
	return executionResult, nil
}
