package masterblog

import (
	"io"
	"os"

	"github.com/labstack/gommon/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the subset of the echo/gommon logger the sync flow writes to.
type Logger interface {
	Debugf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// LogConfig selects where and how verbosely a component logs.
type LogConfig struct {
	Prefix string
	// File, when set, receives the log through a size-rotated writer
	// instead of stderr.
	File  string
	Debug bool
}

// NewLogger builds a gommon logger, the same type echo uses for e.Logger.
func NewLogger(cfg LogConfig) *log.Logger {
	l := log.New(cfg.Prefix)
	l.SetOutput(LogWriter(cfg.File))
	l.SetHeader("${time_rfc3339} ${level} ${prefix}")
	if cfg.Debug {
		l.SetLevel(log.DEBUG)
	} else {
		l.SetLevel(log.INFO)
	}
	return l
}

// LogWriter returns stderr, or a rotating file writer when path is set.
func LogWriter(path string) io.Writer {
	if path == "" {
		return os.Stderr
	}
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
}

type discardLogger struct{}

func (discardLogger) Debugf(string, ...interface{}) {}
func (discardLogger) Errorf(string, ...interface{}) {}
