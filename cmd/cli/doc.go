// Package cli constructs the psdialog command-line interface, wiring the Cobra
// command hierarchy, the configuration loader, structured logging, and the
// dialogs service. Each dialog subcommand prints the selection to standard
// output, one path per line.
package cli
