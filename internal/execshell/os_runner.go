package execshell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
)

const (
	environmentAssignmentSeparatorConstant = "="
	executableNotFoundTemplateConstant     = "%w: %s"
)

// ErrExecutableNotFound reports that the interpreter binary could not be resolved on PATH.
var ErrExecutableNotFound = errors.New("executable not found")

// OSCommandRunner starts interpreter processes through os/exec.
type OSCommandRunner struct {
	lookPath func(string) (string, error)
}

// NewOSCommandRunner constructs a runner backed by os/exec.
func NewOSCommandRunner() *OSCommandRunner {
	return &OSCommandRunner{lookPath: exec.LookPath}
}

// Run resolves the executable, starts it and waits for it to exit. Standard output and standard
// error land in separate buffers that are fully drained before Run returns. A non-zero exit is
// reported through ExecutionResult.ExitCode; only failures to start or cancellation return an error.
func (runner *OSCommandRunner) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	if executionContext == nil {
		executionContext = context.Background()
	}

	resolvedExecutable, resolveError := runner.resolveExecutable(command.Name)
	if resolveError != nil {
		return ExecutionResult{}, resolveError
	}

	process := exec.CommandContext(executionContext, resolvedExecutable, append([]string{}, command.Details.Arguments...)...)
	process.Dir = command.Details.WorkingDirectory
	if len(command.Details.EnvironmentVariables) > 0 {
		process.Env = mergeEnvironment(os.Environ(), command.Details.EnvironmentVariables)
	}

	var capturedOutput, capturedError bytes.Buffer
	process.Stdout = &capturedOutput
	process.Stderr = &capturedError

	waitError := process.Run()
	executionResult := ExecutionResult{
		StandardOutput: capturedOutput.String(),
		StandardError:  capturedError.String(),
	}
	if waitError == nil {
		return executionResult, nil
	}

	if contextError := executionContext.Err(); contextError != nil {
		return ExecutionResult{}, contextError
	}

	var exitError *exec.ExitError
	if !errors.As(waitError, &exitError) {
		return ExecutionResult{}, waitError
	}
	executionResult.ExitCode = exitError.ExitCode()
	return executionResult, nil
}

func (runner *OSCommandRunner) resolveExecutable(name CommandName) (string, error) {
	lookPath := runner.lookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	resolvedPath, lookupError := lookPath(string(name))
	if lookupError != nil {
		return "", fmt.Errorf(executableNotFoundTemplateConstant, ErrExecutableNotFound, string(name))
	}
	return resolvedPath, nil
}

// mergeEnvironment overrides inherited variables with the provided ones. Names compare
// case-insensitively because Windows environment names do.
func mergeEnvironment(inherited []string, overrides map[string]string) []string {
	overrideNames := make([]string, 0, len(overrides))
	for name := range overrides {
		overrideNames = append(overrideNames, name)
	}
	sort.Strings(overrideNames)

	merged := make([]string, 0, len(inherited)+len(overrides))
	for _, assignment := range inherited {
		name, _, _ := strings.Cut(assignment, environmentAssignmentSeparatorConstant)
		if !containsFold(overrideNames, name) {
			merged = append(merged, assignment)
		}
	}
	for _, name := range overrideNames {
		merged = append(merged, name+environmentAssignmentSeparatorConstant+overrides[name])
	}
	return merged
}

func containsFold(names []string, candidate string) bool {
	for _, name := range names {
		if strings.EqualFold(name, candidate) {
			return true
		}
	}
	return false
}
