package cli

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/psdialog/dialogs"
	"github.com/temirov/psdialog/internal/execshell"
	"github.com/temirov/psdialog/internal/powershell"
	"github.com/temirov/psdialog/internal/ui"
	"github.com/temirov/psdialog/internal/utils"
	flagutils "github.com/temirov/psdialog/internal/utils/flags"
	pathutils "github.com/temirov/psdialog/internal/utils/path"
)

const (
	folderBrowserCommandUseConstant       = "folder-browser"
	folderBrowserCommandShortConstant     = "Choose a folder with FolderBrowserDialog"
	openFileCommandUseConstant            = "open-file"
	openFileCommandShortConstant          = "Choose a file with OpenFileDialog and print its directory"
	openFolderCommandUseConstant          = "open-folder"
	openFolderCommandShortConstant        = "Choose one or more folders with an OpenFileDialog folder picker"
	selfTestCommandUseConstant            = "self-test"
	selfTestCommandShortConstant          = "Open a sample folder picker and print the outcome"
	descriptionFlagNameConstant           = "description"
	descriptionFlagUsageConstant          = "Text shown above the folder tree."
	rootFolderFlagNameConstant            = "root-folder"
	rootFolderFlagUsageConstant           = "Environment.SpecialFolder at the top of the tree, e.g. Desktop or MyComputer."
	titleFlagNameConstant                 = "title"
	titleFlagUsageConstant                = "Dialog window title."
	filterFlagNameConstant                = "filter"
	filterFlagUsageConstant               = "File type filter, e.g. \"Text (*.txt)|*.txt|All Files (*.*)|*.*\"."
	initialDirectoryFlagNameConstant      = "initial-dir"
	initialDirectoryFlagUsageConstant     = "Starting directory: a drive-letter path or a special folder name such as Desktop. A leading ~ is expanded."
	initialNameFlagNameConstant           = "initial-name"
	initialNameFlagUsageConstant          = "Placeholder shown in the file name box."
	multiSelectFlagNameConstant           = "multi-select"
	multiSelectFlagUsageConstant          = "Allow selecting several entries; each selection is printed on its own line."
	optionFlagNameConstant                = "option"
	optionFlagUsageConstant               = "Extra dialog property as Name=Value (repeatable). true/false and numbers keep their type; quote a value to force a string."
	optionsFileFlagNameConstant           = "options-file"
	optionsFileFlagUsageConstant          = "YAML or JSON mapping of extra dialog properties, applied before --option values."
	printScriptFlagNameConstant           = "print-script"
	printScriptFlagUsageConstant          = "Print the generated PowerShell script instead of running it."
	optionAssignmentSeparatorConstant     = "="
	optionAssignmentErrorTemplateConstant = "invalid --option %q: expected Name=Value"
	optionsFileErrorTemplateConstant      = "unable to load --options-file: %w"
	optionsErrorTemplateConstant          = "invalid dialog options: %w"
	serviceCreationErrorTemplateConstant  = "unable to create dialog service: %w"
	selfTestFailureTemplateConstant       = "%v\n"
	powerShellTrueLiteralConstant         = "$true"
	powerShellFalseLiteralConstant        = "$false"
	trueLiteralConstant                   = "true"
	falseLiteralConstant                  = "false"
	doubleQuoteConstant                   = `"`
	singleQuoteConstant                   = "'"
	selfTestTitleConstant                 = "Pick a folder"
	selfTestFilterConstant                = "Folders|*.folder"
	selfTestInitialDirectoryConstant      = "Desktop"
	selfTestFileNameConstant              = "Select Folder"
	dialogCommandCompletedMessageConstant = "dialog command completed"
	logFieldCommandNameConstant           = "command_name"
	logFieldSelectionCountConstant        = "selection_count"
)

var (
	integerOptionValuePattern = regexp.MustCompile(`^[+-]?(0|[1-9][0-9]*)$`)
	floatOptionValuePattern   = regexp.MustCompile(`^[+-]?(0|[1-9][0-9]*)?\.[0-9]+([eE][+-]?[0-9]+)?$`)
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the resolved application configuration.
type ConfigurationProvider func() ApplicationConfiguration

// DialogServiceFactory builds the dialogs service used by a subcommand.
type DialogServiceFactory func(logger *zap.Logger, runnerConfiguration powershell.RunnerConfiguration, defaults dialogs.Defaults, observers ...execshell.CommandEventObserver) (*dialogs.Service, error)

// DialogCommandBuilder assembles the dialog subcommands with configurable dependencies.
type DialogCommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConsoleLoggerProvider LoggerProvider
	ConfigurationProvider ConfigurationProvider
	ServiceFactory        DialogServiceFactory
	HomeExpander          *pathutils.HomeExpander
}

type commonDialogFlagValues struct {
	optionAssignments []string
	optionsFilePath   string
	printScript       bool
}

// BuildAll returns every dialog subcommand.
func (builder DialogCommandBuilder) BuildAll() []*cobra.Command {
	if builder.HomeExpander == nil {
		builder.HomeExpander = pathutils.NewHomeExpander()
	}
	return []*cobra.Command{
		builder.BuildFolderBrowserCommand(),
		builder.BuildOpenFileCommand(),
		builder.BuildOpenFolderCommand(),
		builder.BuildSelfTestCommand(),
	}
}

// BuildFolderBrowserCommand constructs the folder-browser subcommand.
func (builder DialogCommandBuilder) BuildFolderBrowserCommand() *cobra.Command {
	request := dialogs.FolderBrowserRequest{}
	commonValues := &commonDialogFlagValues{}

	command := &cobra.Command{
		Use:   folderBrowserCommandUseConstant,
		Short: folderBrowserCommandShortConstant,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			options, optionsError := commonValues.resolveOptions()
			if optionsError != nil {
				return optionsError
			}
			resolvedRequest := request
			resolvedRequest.Options = options

			service, serviceError := builder.createService(command)
			if serviceError != nil {
				return serviceError
			}
			if commonValues.printScript {
				return writeScript(command, func() (dialogs.Script, error) { return service.FolderBrowserScript(resolvedRequest) })
			}

			selection, dialogError := service.FolderBrowserDialog(command.Context(), resolvedRequest)
			if dialogError != nil {
				return dialogError
			}
			return builder.writeSelection(command, selection)
		},
	}

	command.Flags().StringVar(&request.Description, descriptionFlagNameConstant, "", descriptionFlagUsageConstant)
	command.Flags().StringVar(&request.RootFolder, rootFolderFlagNameConstant, "", rootFolderFlagUsageConstant)
	bindCommonDialogFlags(command, commonValues)

	return command
}

// BuildOpenFileCommand constructs the open-file subcommand.
func (builder DialogCommandBuilder) BuildOpenFileCommand() *cobra.Command {
	request := dialogs.OpenFileRequest{}
	commonValues := &commonDialogFlagValues{}

	command := &cobra.Command{
		Use:   openFileCommandUseConstant,
		Short: openFileCommandShortConstant,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			options, optionsError := commonValues.resolveOptions()
			if optionsError != nil {
				return optionsError
			}
			resolvedRequest := request
			resolvedRequest.Options = options
			resolvedRequest.InitialDirectory = builder.HomeExpander.Expand(request.InitialDirectory)
			resolvedRequest.MultiSelect = builder.resolveMultiSelect(command, request.MultiSelect, builder.resolveConfiguration().Dialogs.OpenFile.MultiSelect)

			service, serviceError := builder.createService(command)
			if serviceError != nil {
				return serviceError
			}
			if commonValues.printScript {
				return writeScript(command, func() (dialogs.Script, error) { return service.OpenFileScript(resolvedRequest) })
			}

			selection, dialogError := service.OpenFileDialog(command.Context(), resolvedRequest)
			if dialogError != nil {
				return dialogError
			}
			return builder.writeSelection(command, selection)
		},
	}

	command.Flags().StringVar(&request.Title, titleFlagNameConstant, "", titleFlagUsageConstant)
	command.Flags().StringVar(&request.Filter, filterFlagNameConstant, "", filterFlagUsageConstant)
	command.Flags().StringVar(&request.InitialDirectory, initialDirectoryFlagNameConstant, "", initialDirectoryFlagUsageConstant)
	flagutils.AddToggleFlag(command.Flags(), &request.MultiSelect, multiSelectFlagNameConstant, "", false, multiSelectFlagUsageConstant)
	bindCommonDialogFlags(command, commonValues)

	return command
}

// BuildOpenFolderCommand constructs the open-folder subcommand.
func (builder DialogCommandBuilder) BuildOpenFolderCommand() *cobra.Command {
	request := dialogs.OpenFolderRequest{}
	commonValues := &commonDialogFlagValues{}

	command := &cobra.Command{
		Use:   openFolderCommandUseConstant,
		Short: openFolderCommandShortConstant,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			options, optionsError := commonValues.resolveOptions()
			if optionsError != nil {
				return optionsError
			}
			resolvedRequest := request
			resolvedRequest.Options = options
			resolvedRequest.InitialDirectory = builder.HomeExpander.Expand(request.InitialDirectory)
			resolvedRequest.MultiSelect = builder.resolveMultiSelect(command, request.MultiSelect, builder.resolveConfiguration().Dialogs.OpenFolder.MultiSelect)

			service, serviceError := builder.createService(command)
			if serviceError != nil {
				return serviceError
			}
			if commonValues.printScript {
				return writeScript(command, func() (dialogs.Script, error) { return service.OpenFolderScript(resolvedRequest) })
			}

			selection, dialogError := service.OpenFolderDialog(command.Context(), resolvedRequest)
			if dialogError != nil {
				return dialogError
			}
			return builder.writeSelection(command, selection)
		},
	}

	command.Flags().StringVar(&request.Title, titleFlagNameConstant, "", titleFlagUsageConstant)
	command.Flags().StringVar(&request.InitialName, initialNameFlagNameConstant, "", initialNameFlagUsageConstant)
	command.Flags().StringVar(&request.InitialDirectory, initialDirectoryFlagNameConstant, "", initialDirectoryFlagUsageConstant)
	flagutils.AddToggleFlag(command.Flags(), &request.MultiSelect, multiSelectFlagNameConstant, "", false, multiSelectFlagUsageConstant)
	bindCommonDialogFlags(command, commonValues)

	return command
}

// BuildSelfTestCommand constructs the self-test subcommand, which opens an OpenFileDialog set up
// to accept a folder and prints the selection or the failure without failing the command.
func (builder DialogCommandBuilder) BuildSelfTestCommand() *cobra.Command {
	printScript := false

	command := &cobra.Command{
		Use:   selfTestCommandUseConstant,
		Short: selfTestCommandShortConstant,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			request := SelfTestRequest()

			service, serviceError := builder.createService(command)
			if serviceError != nil {
				return serviceError
			}
			if printScript {
				return writeScript(command, func() (dialogs.Script, error) { return service.OpenFileScript(request) })
			}

			selection, dialogError := service.OpenFileDialog(command.Context(), request)
			if dialogError != nil {
				_, writeError := fmt.Fprintf(command.ErrOrStderr(), selfTestFailureTemplateConstant, dialogError)
				return writeError
			}
			return builder.writeSelection(command, selection)
		},
	}

	flagutils.AddToggleFlag(command.Flags(), &printScript, printScriptFlagNameConstant, "", false, printScriptFlagUsageConstant)

	return command
}

// SelfTestRequest returns the sample request opened by the self-test subcommand.
func SelfTestRequest() dialogs.OpenFileRequest {
	return dialogs.OpenFileRequest{
		Title:            selfTestTitleConstant,
		Filter:           selfTestFilterConstant,
		MultiSelect:      false,
		InitialDirectory: selfTestInitialDirectoryConstant,
		Options: dialogs.Options{}.
			With("ValidateNames", false).
			With("CheckFileExists", false).
			With("CheckPathExists", true).
			With("FileName", selfTestFileNameConstant),
	}
}

func bindCommonDialogFlags(command *cobra.Command, values *commonDialogFlagValues) {
	command.Flags().StringArrayVar(&values.optionAssignments, optionFlagNameConstant, nil, optionFlagUsageConstant)
	command.Flags().StringVar(&values.optionsFilePath, optionsFileFlagNameConstant, "", optionsFileFlagUsageConstant)
	flagutils.AddToggleFlag(command.Flags(), &values.printScript, printScriptFlagNameConstant, "", false, printScriptFlagUsageConstant)
}

// resolveOptions merges the options file with --option assignments; assignments win.
func (values *commonDialogFlagValues) resolveOptions() (dialogs.Options, error) {
	var options dialogs.Options
	if len(strings.TrimSpace(values.optionsFilePath)) > 0 {
		fileOptions, loadError := dialogs.LoadOptionsFile(values.optionsFilePath)
		if loadError != nil {
			return nil, fmt.Errorf(optionsFileErrorTemplateConstant, loadError)
		}
		options = fileOptions
	}

	assignedOptions, parseError := ParseOptionAssignments(values.optionAssignments)
	if parseError != nil {
		return nil, parseError
	}
	for _, option := range assignedOptions {
		options = options.With(option.Name, option.Value)
	}

	if validationError := options.Validate(); validationError != nil {
		return nil, fmt.Errorf(optionsErrorTemplateConstant, validationError)
	}
	return options, nil
}

// ParseOptionAssignments converts Name=Value arguments into ordered options. Unquoted true/false
// (optionally prefixed with $) become booleans and decimal literals become numbers; anything else,
// or any value wrapped in matching quotes, stays a string.
func ParseOptionAssignments(assignments []string) (dialogs.Options, error) {
	var options dialogs.Options
	for _, assignment := range assignments {
		name, rawValue, found := strings.Cut(assignment, optionAssignmentSeparatorConstant)
		trimmedName := strings.TrimSpace(name)
		if !found || len(trimmedName) == 0 {
			return nil, fmt.Errorf(optionAssignmentErrorTemplateConstant, assignment)
		}
		options = options.With(trimmedName, coerceOptionValue(rawValue))
	}
	return options, nil
}

func coerceOptionValue(rawValue string) any {
	trimmedValue := strings.TrimSpace(rawValue)
	if unquotedValue, quoted := unquote(trimmedValue); quoted {
		return unquotedValue
	}

	switch strings.ToLower(trimmedValue) {
	case trueLiteralConstant, powerShellTrueLiteralConstant:
		return true
	case falseLiteralConstant, powerShellFalseLiteralConstant:
		return false
	}

	if integerOptionValuePattern.MatchString(trimmedValue) {
		if integerValue, castError := cast.ToInt64E(trimmedValue); castError == nil {
			return integerValue
		}
	}
	if floatOptionValuePattern.MatchString(trimmedValue) {
		if floatValue, castError := cast.ToFloat64E(trimmedValue); castError == nil {
			return floatValue
		}
	}
	return rawValue
}

func unquote(value string) (string, bool) {
	if len(value) < 2 {
		return value, false
	}
	for _, quote := range []string{doubleQuoteConstant, singleQuoteConstant} {
		if strings.HasPrefix(value, quote) && strings.HasSuffix(value, quote) {
			return value[1 : len(value)-1], true
		}
	}
	return value, false
}

func (builder DialogCommandBuilder) createService(command *cobra.Command) (*dialogs.Service, error) {
	configuration := builder.resolveConfiguration()

	var observers []execshell.CommandEventObserver
	if logFormat, available := utils.NewCommandContextAccessor().LogFormat(command.Context()); available && logFormat == utils.LogFormatConsole {
		observers = append(observers, ui.NewConsoleCommandEventLogger(builder.resolveConsoleLogger()))
	}

	serviceFactory := builder.ServiceFactory
	if serviceFactory == nil {
		serviceFactory = dialogs.NewServiceWithConfiguration
	}

	service, serviceError := serviceFactory(builder.resolveLogger(), configuration.PowerShell.RunnerConfiguration(), configuration.Dialogs, observers...)
	if serviceError != nil {
		return nil, fmt.Errorf(serviceCreationErrorTemplateConstant, serviceError)
	}
	return service, nil
}

func (builder DialogCommandBuilder) resolveMultiSelect(command *cobra.Command, flagValue bool, configuredValue bool) bool {
	if flag := command.Flags().Lookup(multiSelectFlagNameConstant); flag != nil && flag.Changed {
		return flagValue
	}
	return configuredValue
}

func (builder DialogCommandBuilder) writeSelection(command *cobra.Command, selection string) error {
	paths := dialogs.SplitSelection(selection)
	builder.resolveLogger().Debug(
		dialogCommandCompletedMessageConstant,
		zap.String(logFieldCommandNameConstant, command.Name()),
		zap.Int(logFieldSelectionCountConstant, len(paths)),
	)
	return utils.NewFlushingWriter(command.OutOrStdout()).WriteLines(paths...)
}

func writeScript(command *cobra.Command, render func() (dialogs.Script, error)) error {
	script, renderError := render()
	if renderError != nil {
		return renderError
	}
	return utils.NewFlushingWriter(command.OutOrStdout()).WriteLines(strings.Trim(script.String(), "\n"))
}

func (builder DialogCommandBuilder) resolveConfiguration() ApplicationConfiguration {
	if builder.ConfigurationProvider == nil {
		return ApplicationConfiguration{Dialogs: dialogs.DefaultDefaults()}
	}
	return builder.ConfigurationProvider()
}

func (builder DialogCommandBuilder) resolveLogger() *zap.Logger {
	return resolveProvidedLogger(builder.LoggerProvider)
}

func (builder DialogCommandBuilder) resolveConsoleLogger() *zap.Logger {
	return resolveProvidedLogger(builder.ConsoleLoggerProvider)
}

func resolveProvidedLogger(provider LoggerProvider) *zap.Logger {
	if provider == nil {
		return zap.NewNop()
	}
	if logger := provider(); logger != nil {
		return logger
	}
	return zap.NewNop()
}
