// Package flags provides pflag values shared by the psdialog commands: yes/no toggles and
// fixed-choice string flags.
package flags
