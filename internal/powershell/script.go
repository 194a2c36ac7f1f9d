package powershell

import (
	"fmt"
	"strings"
)

const (
	scriptLineSeparatorConstant            = "\n"
	scriptIndentConstant                   = "\t"
	folderBrowserVariableConstant          = "objForm"
	fileDialogVariableConstant             = "dlg"
	loadFormsAssemblyLineConstant          = "Add-Type -AssemblyName System.Windows.Forms"
	exitCancelledLineConstant              = "exit 1"
	elseLineConstant                       = "} else {"
	closeBlockLineConstant                 = "}"
	folderBrowserFunctionLineConstant      = "Function Select-FolderDialog {"
	folderBrowserParamLineTemplateConstant = `param([string]$Description="%s", [string]$RootFolder="%s")`
	folderBrowserCreateLineConstant        = "$objForm = New-Object System.Windows.Forms.FolderBrowserDialog"
	folderBrowserDescriptionLineConstant   = "$objForm.Description = $Description"
	folderBrowserRootFolderLineConstant    = "$objForm.RootFolder = $RootFolder"
	folderBrowserShowLineConstant          = "$result = $objForm.ShowDialog()"
	folderBrowserResultLineConstant        = `if ($result -eq "OK") { $objForm.SelectedPath } else { exit 1 }`
	folderBrowserInvokeLineConstant        = "Select-FolderDialog"
	fileDialogCreateLineConstant           = "$dlg = New-Object System.Windows.Forms.OpenFileDialog"
	fileDialogTitleLineTemplateConstant    = `$dlg.Title = "%s"`
	fileDialogFilterLineTemplateConstant   = `$dlg.Filter = "%s"`
	fileDialogInitialDirTemplateConstant   = "$dlg.InitialDirectory = %s"
	fileDialogMultiselectTemplateConstant  = "$dlg.Multiselect = %s"
	fileDialogFileNameLineTemplateConstant = `$dlg.FileName = "%s"`
	fileDialogValidateNamesLineConstant    = "$dlg.ValidateNames = $false"
	fileDialogCheckFileExistsLineConstant  = "$dlg.CheckFileExists = $false"
	fileDialogCheckPathExistsLineConstant  = "$dlg.CheckPathExists = $true"
	openFileShowLineConstant               = `if ($dlg.ShowDialog() -eq "OK") {`
	openFolderShowLineConstant             = "if ($dlg.ShowDialog() -eq [System.Windows.Forms.DialogResult]::OK) {"
	directoryOfFileNameLineConstant        = "[System.IO.Path]::GetDirectoryName($dlg.FileName)"
	openFolderMultiselectCheckLineConstant = "if ($dlg.Multiselect) {"
	directoryOfEachFileNameLineConstant    = "$dlg.FileNames | ForEach-Object { [System.IO.Path]::GetDirectoryName($_) }"
)

// Script is a complete PowerShell program passed to the interpreter as a single -Command argument.
type Script string

// String returns the script text.
func (script Script) String() string {
	return string(script)
}

// ScriptBuilder accumulates script statements line by line and renders them once.
type ScriptBuilder struct {
	lines []string
	depth int
}

// NewScriptBuilder constructs an empty builder.
func NewScriptBuilder() *ScriptBuilder {
	return &ScriptBuilder{}
}

// Line appends a statement at the current indentation depth.
func (builder *ScriptBuilder) Line(statement string) *ScriptBuilder {
	builder.lines = append(builder.lines, strings.Repeat(scriptIndentConstant, builder.depth)+statement)
	return builder
}

// Linef appends a formatted statement. Arguments must already be sanitized.
func (builder *ScriptBuilder) Linef(template string, arguments ...any) *ScriptBuilder {
	return builder.Line(fmt.Sprintf(template, arguments...))
}

// Lines appends statements in order.
func (builder *ScriptBuilder) Lines(statements []string) *ScriptBuilder {
	for _, statement := range statements {
		builder.Line(statement)
	}
	return builder
}

// Open appends a statement that opens a block and indents the following statements.
func (builder *ScriptBuilder) Open(statement string) *ScriptBuilder {
	builder.Line(statement)
	builder.depth++
	return builder
}

// Else ends the current branch and opens the alternative on the same line as its closing brace.
func (builder *ScriptBuilder) Else() *ScriptBuilder {
	if builder.depth > 0 {
		builder.depth--
	}
	return builder.Open(elseLineConstant)
}

// Close dedents and appends the closing brace.
func (builder *ScriptBuilder) Close() *ScriptBuilder {
	if builder.depth > 0 {
		builder.depth--
	}
	return builder.Line(closeBlockLineConstant)
}

// Build renders the accumulated statements, one per line, surrounded by line breaks.
func (builder *ScriptBuilder) Build() Script {
	return Script(scriptLineSeparatorConstant + strings.Join(builder.lines, scriptLineSeparatorConstant) + scriptLineSeparatorConstant)
}

// FolderBrowserParameters configures the classic FolderBrowserDialog.
type FolderBrowserParameters struct {
	Description string
	RootFolder  string
	Options     Options
}

// OpenFileParameters configures an OpenFileDialog whose result is the chosen file's directory.
type OpenFileParameters struct {
	Title            string
	Filter           string
	MultiSelect      bool
	InitialDirectory string
	Options          Options
}

// OpenFolderParameters configures an OpenFileDialog set up to stand in for a folder picker.
type OpenFolderParameters struct {
	Title            string
	InitialName      string
	InitialDirectory string
	MultiSelect      bool
	Options          Options
}

// FolderBrowserScript renders a script that prints the selected folder or exits with code 1.
func FolderBrowserScript(parameters FolderBrowserParameters) (Script, error) {
	sanitized := SanitizeStrings(parameters.Description, parameters.RootFolder)
	description, rootFolder := sanitized[0], sanitized[1]

	extraStatements, serializeError := SerializeOptions(folderBrowserVariableConstant, parameters.Options.Sanitized())
	if serializeError != nil {
		return "", serializeError
	}

	builder := NewScriptBuilder().
		Line(loadFormsAssemblyLineConstant).
		Open(folderBrowserFunctionLineConstant).
		Linef(folderBrowserParamLineTemplateConstant, description, rootFolder).
		Line(folderBrowserCreateLineConstant).
		Line(folderBrowserDescriptionLineConstant).
		Line(folderBrowserRootFolderLineConstant).
		Lines(extraStatements).
		Line(folderBrowserShowLineConstant).
		Line(folderBrowserResultLineConstant).
		Close().
		Line(folderBrowserInvokeLineConstant)

	return builder.Build(), nil
}

// OpenFileScript renders a script that prints the directory containing the chosen file or
// exits with code 1.
func OpenFileScript(parameters OpenFileParameters) (Script, error) {
	sanitized := SanitizeStrings(parameters.Title, parameters.Filter, parameters.InitialDirectory)
	title, filter, initialDirectory := sanitized[0], sanitized[1], sanitized[2]

	extraStatements, serializeError := SerializeOptions(fileDialogVariableConstant, parameters.Options.Sanitized())
	if serializeError != nil {
		return "", serializeError
	}

	builder := NewScriptBuilder().
		Line(loadFormsAssemblyLineConstant).
		Line(fileDialogCreateLineConstant).
		Linef(fileDialogTitleLineTemplateConstant, title).
		Linef(fileDialogFilterLineTemplateConstant, filter).
		Linef(fileDialogInitialDirTemplateConstant, InitialDirectoryExpression(initialDirectory)).
		Linef(fileDialogMultiselectTemplateConstant, BooleanLiteral(parameters.MultiSelect)).
		Lines(extraStatements).
		Open(openFileShowLineConstant).
		Line(directoryOfFileNameLineConstant).
		Else().
		Line(exitCancelledLineConstant).
		Close()

	return builder.Build(), nil
}

// OpenFolderScript renders a script that prints the directory of each selected entry, one per
// line, or exits with code 1. Name validation and file existence checks are disabled so the
// placeholder file name can be accepted inside any folder.
func OpenFolderScript(parameters OpenFolderParameters) (Script, error) {
	sanitized := SanitizeStrings(parameters.Title, parameters.InitialName, parameters.InitialDirectory)
	title, initialName, initialDirectory := sanitized[0], sanitized[1], sanitized[2]

	extraStatements, serializeError := SerializeOptions(fileDialogVariableConstant, parameters.Options.Sanitized())
	if serializeError != nil {
		return "", serializeError
	}

	builder := NewScriptBuilder().
		Line(loadFormsAssemblyLineConstant).
		Line(fileDialogCreateLineConstant).
		Linef(fileDialogTitleLineTemplateConstant, title).
		Linef(fileDialogInitialDirTemplateConstant, InitialDirectoryExpression(initialDirectory)).
		Line(fileDialogValidateNamesLineConstant).
		Line(fileDialogCheckFileExistsLineConstant).
		Line(fileDialogCheckPathExistsLineConstant).
		Linef(fileDialogFileNameLineTemplateConstant, initialName).
		Linef(fileDialogMultiselectTemplateConstant, BooleanLiteral(parameters.MultiSelect)).
		Lines(extraStatements).
		Open(openFolderShowLineConstant).
		Open(openFolderMultiselectCheckLineConstant).
		Line(directoryOfEachFileNameLineConstant).
		Else().
		Line(directoryOfFileNameLineConstant).
		Close().
		Else().
		Line(exitCancelledLineConstant).
		Close()

	return builder.Build(), nil
}
