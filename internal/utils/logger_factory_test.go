package utils_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/psdialog/internal/utils"
)

const (
	testLoggerFactorySubtestTemplateConstant = "%d_%s"
	testLogMessageConstant                   = "logger_factory_test_message"
	testDebugMessageConstant                 = "logger_factory_debug_message"
	testConsoleEventMessageConstant          = "Opening open file dialog"
)

func TestLoggerFactoryCreateLogger(testInstance *testing.T) {
	testCases := []struct {
		name                string
		requestedLogLevel   utils.LogLevel
		requestedLogFormat  utils.LogFormat
		expectError         bool
		expectStructuredLog bool
		expectDebugOutput   bool
	}{
		{
			name:                "debug_structured",
			requestedLogLevel:   utils.LogLevelDebug,
			requestedLogFormat:  utils.LogFormatStructured,
			expectStructuredLog: true,
			expectDebugOutput:   true,
		},
		{
			name:                "info_structured",
			requestedLogLevel:   utils.LogLevelInfo,
			requestedLogFormat:  utils.LogFormatStructured,
			expectStructuredLog: true,
		},
		{
			name:               "info_console",
			requestedLogLevel:  utils.LogLevelInfo,
			requestedLogFormat: utils.LogFormatConsole,
		},
		{
			name:               "unsupported_log_level",
			requestedLogLevel:  utils.LogLevel("verbose"),
			requestedLogFormat: utils.LogFormatStructured,
			expectError:        true,
		},
		{
			name:               "unsupported_log_format",
			requestedLogLevel:  utils.LogLevelInfo,
			requestedLogFormat: utils.LogFormat("xml"),
			expectError:        true,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(testLoggerFactorySubtestTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			outputBuffer := &bytes.Buffer{}
			loggerFactory := utils.NewLoggerFactoryWithWriter(outputBuffer)

			logger, creationError := loggerFactory.CreateLogger(testCase.requestedLogLevel, testCase.requestedLogFormat)
			if testCase.expectError {
				require.Error(testInstance, creationError)
				require.Nil(testInstance, logger)
				return
			}

			require.NoError(testInstance, creationError)
			require.NotNil(testInstance, logger)

			logger.Debug(testDebugMessageConstant)
			logger.Info(testLogMessageConstant)
			require.NoError(testInstance, logger.Sync())

			output := outputBuffer.String()
			require.Contains(testInstance, output, testLogMessageConstant)
			require.Equal(testInstance, testCase.expectDebugOutput, strings.Contains(output, testDebugMessageConstant))

			lastLine := lastOutputLine(output)
			require.Equal(testInstance, testCase.expectStructuredLog, json.Valid([]byte(lastLine)))
		})
	}
}

func TestLoggerFactoryCreateLoggerOutputs(testInstance *testing.T) {
	testInstance.Run("structured_has_no_console_logger", func(testInstance *testing.T) {
		outputBuffer := &bytes.Buffer{}
		outputs, creationError := utils.NewLoggerFactoryWithWriter(outputBuffer).CreateLoggerOutputs(utils.LogLevelInfo, utils.LogFormatStructured)
		require.NoError(testInstance, creationError)

		outputs.ConsoleLogger.Info(testConsoleEventMessageConstant)
		outputs.DiagnosticLogger.Info(testLogMessageConstant)

		require.NotContains(testInstance, outputBuffer.String(), testConsoleEventMessageConstant)
		require.Contains(testInstance, outputBuffer.String(), testLogMessageConstant)
	})

	testInstance.Run("console_writes_bare_messages", func(testInstance *testing.T) {
		outputBuffer := &bytes.Buffer{}
		outputs, creationError := utils.NewLoggerFactoryWithWriter(outputBuffer).CreateLoggerOutputs(utils.LogLevelInfo, utils.LogFormatConsole)
		require.NoError(testInstance, creationError)

		outputs.ConsoleLogger.Info(testConsoleEventMessageConstant)
		outputs.DiagnosticLogger.Info(testLogMessageConstant)

		require.Equal(testInstance, testConsoleEventMessageConstant+"\n", outputBuffer.String())
	})

	testInstance.Run("invalid_level", func(testInstance *testing.T) {
		_, creationError := utils.NewLoggerFactory().CreateLoggerOutputs(utils.LogLevel("loud"), utils.LogFormatConsole)
		require.Error(testInstance, creationError)
	})
}

func lastOutputLine(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	return lines[len(lines)-1]
}
