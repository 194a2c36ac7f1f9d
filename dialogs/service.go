package dialogs

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/temirov/psdialog/internal/execshell"
	"github.com/temirov/psdialog/internal/powershell"
)

const (
	folderBrowserLabelConstant         = "folder browser dialog"
	openFileLabelConstant              = "open file dialog"
	openFolderLabelConstant            = "open folder dialog"
	loggerNotConfiguredMessageConstant = "dialog service logger not configured"
	runnerNotConfiguredMessageConstant = "dialog service script runner not configured"
	scriptBuildErrorTemplateConstant   = "unable to build %s script: %w"
	dialogRequestedMessageConstant     = "dialog requested"
	logFieldDialogLabelConstant        = "dialog"
	logFieldMultiSelectConstant        = "multi_select"
	logFieldOptionCountConstant        = "option_count"
	logFieldInitialDirectoryConstant   = "initial_directory"
	logFieldLiteralInitialDirConstant  = "initial_directory_literal"
	logFieldRootFolderConstant         = "root_folder"
)

var (
	// ErrLoggerNotConfigured indicates a Service constructed without a logger.
	ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)
	// ErrRunnerNotConfigured indicates a Service constructed without a script runner.
	ErrRunnerNotConfigured = errors.New(runnerNotConfiguredMessageConstant)
	// ErrDialogCancelled matches rejections without error output, such as a cancelled dialog.
	ErrDialogCancelled = powershell.ErrDialogCancelled
	// ErrInvalidOptionName matches options whose name is not a PowerShell member name.
	ErrInvalidOptionName = powershell.ErrInvalidOptionName
	// ErrUnsupportedOptionValue matches options whose value is not a string, boolean, or number.
	ErrUnsupportedOptionValue = powershell.ErrUnsupportedOptionValue
)

// DialogError is returned when the dialog produced no selection. Its message is the PowerShell
// error output or "Dialog cancelled or failed.".
type DialogError = powershell.DialogError

// ScriptRunner executes a generated dialog script and returns the selection.
type ScriptRunner interface {
	Run(executionContext context.Context, label string, script powershell.Script) (string, error)
}

// Service opens dialogs using its own defaults and runner. A Service holds no mutable state and
// may be used from multiple goroutines; every call starts an independent PowerShell process.
type Service struct {
	logger   *zap.Logger
	runner   ScriptRunner
	defaults Defaults
}

// NewService validates dependencies and constructs a Service. Empty default fields fall back to
// DefaultDefaults.
func NewService(logger *zap.Logger, runner ScriptRunner, defaults Defaults) (*Service, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if runner == nil {
		return nil, ErrRunnerNotConfigured
	}

	return &Service{
		logger:   logger,
		runner:   runner,
		defaults: defaults.normalize(),
	}, nil
}

// NewDefaultService constructs a Service that runs powershell.exe through os/exec and discards logs.
func NewDefaultService() (*Service, error) {
	return NewServiceWithConfiguration(zap.NewNop(), powershell.RunnerConfiguration{}, DefaultDefaults())
}

// NewServiceWithConfiguration wires the OS command runner, shell executor, and script runner.
func NewServiceWithConfiguration(logger *zap.Logger, runnerConfiguration powershell.RunnerConfiguration, defaults Defaults, observers ...execshell.CommandEventObserver) (*Service, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}

	shellExecutor, executorError := execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner(), observers...)
	if executorError != nil {
		return nil, executorError
	}

	scriptRunner, runnerError := powershell.NewRunner(logger, shellExecutor, runnerConfiguration)
	if runnerError != nil {
		return nil, runnerError
	}

	return NewService(logger, scriptRunner, defaults)
}

// Defaults returns the defaults applied by the service.
func (service *Service) Defaults() Defaults {
	return service.defaults
}

// FolderBrowserScript returns the script FolderBrowserDialog would run.
func (service *Service) FolderBrowserScript(request FolderBrowserRequest) (Script, error) {
	return renderFolderBrowserScript(request.withDefaults(service.defaults.FolderBrowser))
}

// OpenFileScript returns the script OpenFileDialog would run.
func (service *Service) OpenFileScript(request OpenFileRequest) (Script, error) {
	return renderOpenFileScript(request.withDefaults(service.defaults.OpenFile))
}

// OpenFolderScript returns the script OpenFolderDialog would run.
func (service *Service) OpenFolderScript(request OpenFolderRequest) (Script, error) {
	return renderOpenFolderScript(request.withDefaults(service.defaults.OpenFolder))
}

// FolderBrowserDialog shows a FolderBrowserDialog and returns the selected folder.
func (service *Service) FolderBrowserDialog(executionContext context.Context, request FolderBrowserRequest) (string, error) {
	resolved := request.withDefaults(service.defaults.FolderBrowser)
	script, scriptError := renderFolderBrowserScript(resolved)
	if scriptError != nil {
		return "", scriptError
	}

	service.logDialogRequest(folderBrowserLabelConstant, len(resolved.Options), zap.String(logFieldRootFolderConstant, resolved.RootFolder))
	return service.runner.Run(executionContext, folderBrowserLabelConstant, script)
}

// OpenFileDialog shows an OpenFileDialog and returns the directory containing the chosen file.
func (service *Service) OpenFileDialog(executionContext context.Context, request OpenFileRequest) (string, error) {
	resolved := request.withDefaults(service.defaults.OpenFile)
	script, scriptError := renderOpenFileScript(resolved)
	if scriptError != nil {
		return "", scriptError
	}

	service.logDialogRequest(openFileLabelConstant, len(resolved.Options), initialDirectoryFields(resolved.InitialDirectory, resolved.MultiSelect)...)
	return service.runner.Run(executionContext, openFileLabelConstant, script)
}

// OpenFolderDialog shows an OpenFileDialog configured as a folder picker and returns the selected
// folder, or one folder per line when MultiSelect is set.
func (service *Service) OpenFolderDialog(executionContext context.Context, request OpenFolderRequest) (string, error) {
	resolved := request.withDefaults(service.defaults.OpenFolder)
	script, scriptError := renderOpenFolderScript(resolved)
	if scriptError != nil {
		return "", scriptError
	}

	service.logDialogRequest(openFolderLabelConstant, len(resolved.Options), initialDirectoryFields(resolved.InitialDirectory, resolved.MultiSelect)...)
	return service.runner.Run(executionContext, openFolderLabelConstant, script)
}

// StartFolderBrowserDialog runs FolderBrowserDialog in its own goroutine.
func (service *Service) StartFolderBrowserDialog(executionContext context.Context, request FolderBrowserRequest) *Selection {
	return startSelection(func() (string, error) {
		return service.FolderBrowserDialog(executionContext, request)
	})
}

// StartOpenFileDialog runs OpenFileDialog in its own goroutine.
func (service *Service) StartOpenFileDialog(executionContext context.Context, request OpenFileRequest) *Selection {
	return startSelection(func() (string, error) {
		return service.OpenFileDialog(executionContext, request)
	})
}

// StartOpenFolderDialog runs OpenFolderDialog in its own goroutine.
func (service *Service) StartOpenFolderDialog(executionContext context.Context, request OpenFolderRequest) *Selection {
	return startSelection(func() (string, error) {
		return service.OpenFolderDialog(executionContext, request)
	})
}

func (service *Service) logDialogRequest(label string, optionCount int, dialogFields ...zap.Field) {
	fields := append([]zap.Field{zap.String(logFieldDialogLabelConstant, label)}, dialogFields...)
	service.logger.Debug(dialogRequestedMessageConstant, append(fields, zap.Int(logFieldOptionCountConstant, optionCount))...)
}

func initialDirectoryFields(initialDirectory string, multiSelect bool) []zap.Field {
	return []zap.Field{
		zap.String(logFieldInitialDirectoryConstant, initialDirectory),
		zap.Bool(logFieldLiteralInitialDirConstant, powershell.IsLiteralPath(initialDirectory)),
		zap.Bool(logFieldMultiSelectConstant, multiSelect),
	}
}

// renderFolderBrowserScript expects a request that already carries its defaults.
func renderFolderBrowserScript(resolved FolderBrowserRequest) (Script, error) {
	script, scriptError := powershell.FolderBrowserScript(powershell.FolderBrowserParameters{
		Description: resolved.Description,
		RootFolder:  resolved.RootFolder,
		Options:     resolved.Options,
	})
	if scriptError != nil {
		return "", fmt.Errorf(scriptBuildErrorTemplateConstant, folderBrowserLabelConstant, scriptError)
	}
	return script, nil
}

func renderOpenFileScript(resolved OpenFileRequest) (Script, error) {
	script, scriptError := powershell.OpenFileScript(powershell.OpenFileParameters{
		Title:            resolved.Title,
		Filter:           resolved.Filter,
		MultiSelect:      resolved.MultiSelect,
		InitialDirectory: resolved.InitialDirectory,
		Options:          resolved.Options,
	})
	if scriptError != nil {
		return "", fmt.Errorf(scriptBuildErrorTemplateConstant, openFileLabelConstant, scriptError)
	}
	return script, nil
}

func renderOpenFolderScript(resolved OpenFolderRequest) (Script, error) {
	script, scriptError := powershell.OpenFolderScript(powershell.OpenFolderParameters{
		Title:            resolved.Title,
		InitialName:      resolved.InitialName,
		InitialDirectory: resolved.InitialDirectory,
		MultiSelect:      resolved.MultiSelect,
		Options:          resolved.Options,
	})
	if scriptError != nil {
		return "", fmt.Errorf(scriptBuildErrorTemplateConstant, openFolderLabelConstant, scriptError)
	}
	return script, nil
}

// FolderBrowserDialog opens a folder browser with a fresh default service.
func FolderBrowserDialog(executionContext context.Context, request FolderBrowserRequest) (string, error) {
	service, serviceError := NewDefaultService()
	if serviceError != nil {
		return "", serviceError
	}
	return service.FolderBrowserDialog(executionContext, request)
}

// OpenFileDialog opens a file dialog with a fresh default service.
func OpenFileDialog(executionContext context.Context, request OpenFileRequest) (string, error) {
	service, serviceError := NewDefaultService()
	if serviceError != nil {
		return "", serviceError
	}
	return service.OpenFileDialog(executionContext, request)
}

// OpenFolderDialog opens a folder picker with a fresh default service.
func OpenFolderDialog(executionContext context.Context, request OpenFolderRequest) (string, error) {
	service, serviceError := NewDefaultService()
	if serviceError != nil {
		return "", serviceError
	}
	return service.OpenFolderDialog(executionContext, request)
}
