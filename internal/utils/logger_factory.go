package utils

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel names the minimum severity emitted by created loggers.
type LogLevel string

// LogFormat selects the encoding used by the diagnostic logger.
type LogFormat string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"

	LogFormatStructured LogFormat = "structured"
	LogFormatConsole    LogFormat = "console"

	unsupportedLogLevelTemplateConstant  = "unsupported log level %q"
	unsupportedLogFormatTemplateConstant = "unsupported log format %q"
	logTimestampKeyConstant              = "timestamp"
	logMessageKeyConstant                = "message"
	logLevelKeyConstant                  = "level"
	logLoggerNameKeyConstant             = "logger"
	logCallerKeyConstant                 = "caller"
	logStacktraceKeyConstant             = "stacktrace"
)

// LoggerOutputs bundles the diagnostic logger with the console logger used
// for human-facing output. In structured mode the console logger is a no-op
// so user messages never interleave with machine-readable diagnostics.
type LoggerOutputs struct {
	DiagnosticLogger *zap.Logger
	ConsoleLogger    *zap.Logger
}

// LoggerFactory creates zap loggers targeting standard error.
type LoggerFactory struct{}

// NewLoggerFactory returns a factory with no shared state.
func NewLoggerFactory() *LoggerFactory {
	return &LoggerFactory{}
}

// CreateLoggerOutputs builds the diagnostic and console loggers for the
// requested level and format. Both loggers write to standard error; standard
// output stays reserved for subprocess output.
func (factory *LoggerFactory) CreateLoggerOutputs(requestedLogLevel LogLevel, requestedLogFormat LogFormat) (LoggerOutputs, error) {
	zapLevel, levelError := parseLogLevel(requestedLogLevel)
	if levelError != nil {
		return LoggerOutputs{}, levelError
	}

	stderrSink := zapcore.Lock(os.Stderr)

	switch normalizedLogFormat(requestedLogFormat) {
	case LogFormatStructured:
		diagnosticCore := zapcore.NewCore(zapcore.NewJSONEncoder(diagnosticEncoderConfiguration()), stderrSink, zapLevel)
		return LoggerOutputs{
			DiagnosticLogger: zap.New(diagnosticCore),
			ConsoleLogger:    zap.NewNop(),
		}, nil
	case LogFormatConsole:
		diagnosticCore := zapcore.NewCore(zapcore.NewConsoleEncoder(diagnosticEncoderConfiguration()), stderrSink, zapLevel)
		consoleCore := zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEncoderConfiguration()), stderrSink, zapcore.InfoLevel)
		return LoggerOutputs{
			DiagnosticLogger: zap.New(diagnosticCore),
			ConsoleLogger:    zap.New(consoleCore),
		}, nil
	default:
		return LoggerOutputs{}, fmt.Errorf(unsupportedLogFormatTemplateConstant, string(requestedLogFormat))
	}
}

func parseLogLevel(requestedLogLevel LogLevel) (zapcore.Level, error) {
	switch LogLevel(strings.ToLower(strings.TrimSpace(string(requestedLogLevel)))) {
	case LogLevelDebug:
		return zapcore.DebugLevel, nil
	case LogLevelInfo:
		return zapcore.InfoLevel, nil
	case LogLevelWarn:
		return zapcore.WarnLevel, nil
	case LogLevelError:
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InvalidLevel, fmt.Errorf(unsupportedLogLevelTemplateConstant, string(requestedLogLevel))
	}
}

func normalizedLogFormat(requestedLogFormat LogFormat) LogFormat {
	return LogFormat(strings.ToLower(strings.TrimSpace(string(requestedLogFormat))))
}

func diagnosticEncoderConfiguration() zapcore.EncoderConfig {
	encoderConfiguration := zap.NewProductionEncoderConfig()
	encoderConfiguration.TimeKey = logTimestampKeyConstant
	encoderConfiguration.MessageKey = logMessageKeyConstant
	encoderConfiguration.LevelKey = logLevelKeyConstant
	encoderConfiguration.NameKey = logLoggerNameKeyConstant
	encoderConfiguration.CallerKey = logCallerKeyConstant
	encoderConfiguration.StacktraceKey = logStacktraceKeyConstant
	encoderConfiguration.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfiguration.EncodeLevel = zapcore.LowercaseLevelEncoder
	return encoderConfiguration
}

func consoleEncoderConfiguration() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		MessageKey:  logMessageKeyConstant,
		LineEnding:  zapcore.DefaultLineEnding,
		EncodeLevel: zapcore.LowercaseLevelEncoder,
		EncodeTime:  zapcore.ISO8601TimeEncoder,
	}
}
