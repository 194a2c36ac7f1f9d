// Package dialogs opens native Windows file and folder pickers and returns the user's selection.
//
// Each operation renders a Windows Forms script, runs it in a fresh PowerShell process, and
// returns the selected path. Multi-select results come back newline-joined; SplitSelection
// separates them. A cancelled dialog is an error matching ErrDialogCancelled, never an empty
// selection.
//
//	selection, selectionError := dialogs.OpenFolderDialog(ctx, dialogs.OpenFolderRequest{MultiSelect: true})
package dialogs
