package dialogs

import "github.com/temirov/psdialog/internal/powershell"

const (
	defaultFolderBrowserDescriptionConstant = "Select Folder"
	defaultRootFolderConstant               = "Desktop"
	defaultOpenFileTitleConstant            = "Select File"
	defaultOpenFileFilterConstant           = "All Files (*.*)|*.*"
	defaultInitialDirectoryConstant         = "Desktop"
	defaultOpenFolderTitleConstant          = "Select Folder"
	defaultOpenFolderInitialNameConstant    = "Select a Folder"
)

// Option assigns a value to a property of the native dialog object.
type Option = powershell.Option

// Options is an ordered list of extra native dialog properties.
type Options = powershell.Options

// Script is a generated PowerShell program.
type Script = powershell.Script

// FolderBrowserRequest configures System.Windows.Forms.FolderBrowserDialog.
// RootFolder names an Environment.SpecialFolder value such as Desktop or MyComputer.
type FolderBrowserRequest struct {
	Description string  `mapstructure:"description"`
	RootFolder  string  `mapstructure:"root_folder"`
	Options     Options `mapstructure:"-"`
}

// OpenFileRequest configures System.Windows.Forms.OpenFileDialog. The selection is the directory
// containing the chosen file. InitialDirectory is either a drive-letter path or a special folder alias.
type OpenFileRequest struct {
	Title            string  `mapstructure:"title"`
	Filter           string  `mapstructure:"filter"`
	MultiSelect      bool    `mapstructure:"multi_select"`
	InitialDirectory string  `mapstructure:"initial_directory"`
	Options          Options `mapstructure:"-"`
}

// OpenFolderRequest configures an OpenFileDialog that stands in for a folder picker. InitialName
// pre-fills the file name box so the user can accept a folder without choosing a file.
type OpenFolderRequest struct {
	Title            string  `mapstructure:"title"`
	InitialName      string  `mapstructure:"initial_name"`
	InitialDirectory string  `mapstructure:"initial_directory"`
	MultiSelect      bool    `mapstructure:"multi_select"`
	Options          Options `mapstructure:"-"`
}

// Defaults holds the values substituted for empty request fields. Default options are applied
// before request options, so a request option with the same name wins. MultiSelect is always taken
// from the request; the MultiSelect defaults only seed command-line flags.
type Defaults struct {
	FolderBrowser FolderBrowserRequest `mapstructure:"folder_browser"`
	OpenFile      OpenFileRequest      `mapstructure:"open_file"`
	OpenFolder    OpenFolderRequest    `mapstructure:"open_folder"`
}

// DefaultDefaults returns the built-in defaults.
func DefaultDefaults() Defaults {
	return Defaults{
		FolderBrowser: FolderBrowserRequest{
			Description: defaultFolderBrowserDescriptionConstant,
			RootFolder:  defaultRootFolderConstant,
		},
		OpenFile: OpenFileRequest{
			Title:            defaultOpenFileTitleConstant,
			Filter:           defaultOpenFileFilterConstant,
			MultiSelect:      false,
			InitialDirectory: defaultInitialDirectoryConstant,
		},
		OpenFolder: OpenFolderRequest{
			Title:            defaultOpenFolderTitleConstant,
			InitialName:      defaultOpenFolderInitialNameConstant,
			InitialDirectory: defaultInitialDirectoryConstant,
			MultiSelect:      false,
		},
	}
}

// normalize fills every empty field of defaults from the built-in defaults.
func (defaults Defaults) normalize() Defaults {
	builtIn := DefaultDefaults()
	normalized := defaults
	normalized.FolderBrowser = defaults.FolderBrowser.withDefaults(builtIn.FolderBrowser)
	normalized.OpenFile = defaults.OpenFile.withDefaults(builtIn.OpenFile)
	normalized.OpenFolder = defaults.OpenFolder.withDefaults(builtIn.OpenFolder)
	return normalized
}

func (request FolderBrowserRequest) withDefaults(defaults FolderBrowserRequest) FolderBrowserRequest {
	resolved := request
	resolved.Description = firstNonEmpty(request.Description, defaults.Description)
	resolved.RootFolder = firstNonEmpty(request.RootFolder, defaults.RootFolder)
	resolved.Options = mergeOptions(defaults.Options, request.Options)
	return resolved
}

func (request OpenFileRequest) withDefaults(defaults OpenFileRequest) OpenFileRequest {
	resolved := request
	resolved.Title = firstNonEmpty(request.Title, defaults.Title)
	resolved.Filter = firstNonEmpty(request.Filter, defaults.Filter)
	resolved.InitialDirectory = firstNonEmpty(request.InitialDirectory, defaults.InitialDirectory)
	resolved.Options = mergeOptions(defaults.Options, request.Options)
	return resolved
}

func (request OpenFolderRequest) withDefaults(defaults OpenFolderRequest) OpenFolderRequest {
	resolved := request
	resolved.Title = firstNonEmpty(request.Title, defaults.Title)
	resolved.InitialName = firstNonEmpty(request.InitialName, defaults.InitialName)
	resolved.InitialDirectory = firstNonEmpty(request.InitialDirectory, defaults.InitialDirectory)
	resolved.Options = mergeOptions(defaults.Options, request.Options)
	return resolved
}

func firstNonEmpty(value string, fallback string) string {
	if len(value) > 0 {
		return value
	}
	return fallback
}

func mergeOptions(base Options, overrides Options) Options {
	if len(base) == 0 {
		return overrides
	}
	merged := append(Options{}, base...)
	for _, option := range overrides {
		merged = merged.With(option.Name, option.Value)
	}
	return merged
}
