// Package utils exposes reusable helpers consumed by the psdialog commands.
//
// It houses ConfigurationLoader and LoggerFactory, which integrate Viper,
// environment variables, and zap logging for the CLI, plus small context and
// output helpers.
package utils
