// Package execshell provides structured helpers for invoking external interpreters.
//
// It wraps os/exec with logging via ShellExecutor, exposes OSCommandRunner for
// default process execution, and defines the abstractions psdialog uses to run
// PowerShell dialog scripts in a testable manner.
package execshell
