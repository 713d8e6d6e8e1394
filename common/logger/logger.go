package logger

import (
	"io"
	"log"
	"os"
	"strings"
	"time"

	charmlog "github.com/charmbracelet/log"
)

type LogLevel int

const (
	ERROR LogLevel = iota
	WARN
	INFO
	DEBUG
	TRACE
)

var (
	nullWriter = &NullWriter{}
	logLevel   = INFO
	Info       *log.Logger
	Warn       *log.Logger
	Error      *log.Logger
	Debug      *log.Logger
	Trace      *log.Logger
)

func StringToLogLevel(value string) LogLevel {
	switch strings.ToLower(value) {
	case "error":
		return ERROR
	case "warn":
		return WARN
	case "info":
		return INFO
	case "debug":
		return DEBUG
	case "trace":
		return TRACE
	}
	log.Printf("Invalid log level: '%s'. Returning INFO", value)
	return INFO
}

func (s LogLevel) String() string {
	switch s {
	case ERROR:
		return "ERROR"
	case WARN:
		return "WARN"
	case INFO:
		return "INFO"
	case DEBUG:
		return "DEBUG"
	case TRACE:
		return "TRACE"
	}
	return "UNKNOWN"
}

type NullWriter struct {
	io.Writer
}

func (s *NullWriter) Write(p []byte) (n int, err error) {
	return len(p), nil
}

func init() {
	Error = log.New(nullWriter, "", 0)
	Warn = log.New(nullWriter, "", 0)
	Info = log.New(nullWriter, "", 0)
	Debug = log.New(nullWriter, "", 0)
	Trace = log.New(nullWriter, "", 0)
}

func Initialize(level LogLevel) {
	InitializeWithWriter(os.Stderr, level)
}

// InitializeWithWriter sets up all loggers to write to the given writer.
// Loggers of levels more verbose than the given level discard everything.
func InitializeWithWriter(writer io.Writer, level LogLevel) {
	logLevel = level
	backend := charmlog.NewWithOptions(writer, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           charmlog.DebugLevel,
	})
	backend.Infof("Initialize loggers: '%s'", level.String())

	Error = newLogger(backend, level >= ERROR, charmlog.ErrorLevel)
	Warn = newLogger(backend, level >= WARN, charmlog.WarnLevel)
	Info = newLogger(backend, level >= INFO, charmlog.InfoLevel)
	Debug = newLogger(backend, level >= DEBUG, charmlog.DebugLevel)
	Trace = newLogger(backend.WithPrefix("trace"), level >= TRACE, charmlog.DebugLevel)
}

func newLogger(backend *charmlog.Logger, enabled bool, level charmlog.Level) *log.Logger {
	if !enabled {
		return log.New(nullWriter, "", 0)
	}
	return backend.StandardLog(charmlog.StandardLogOptions{ForceLevel: level})
}

func IsLogLevel(level LogLevel) bool {
	return logLevel >= level
}
