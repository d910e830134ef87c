// Package logging provides the leveled logger used across ffcmd. It wraps
// logrus with a text or JSON encoder, resolves color from the configured
// mode, and can mirror every entry into an append-only log file.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/backmassage/ffcmd/internal/config"
	"github.com/backmassage/ffcmd/internal/term"
)

const timestampFormat = "2006-01-02 15:04:05"

// Kv is a set of structured key/value fields.
type Kv map[string]interface{}

// Logger provides leveled logging with structured values. Loggers derived
// with WithValues share the parent's output and log file.
type Logger struct {
	entry *logrus.Entry
	file  *os.File
}

// NewLogger builds a Logger writing to out as configured by cfg, opening
// cfg.LogFile for appending when set. Call Close when done.
func NewLogger(cfg *config.Config, out io.Writer) (*Logger, error) {
	l := logrus.New()
	l.Out = out
	if cfg.NoLog {
		l.Out = io.Discard
	}
	if cfg.Debug {
		l.SetLevel(logrus.DebugLevel)
	}

	switch cfg.LogFormat {
	case config.LogFormatJSON:
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: timestampFormat})
	default:
		color := colorEnabled(cfg.ColorMode, out)
		l.SetFormatter(&logrus.TextFormatter{
			ForceColors:     color,
			DisableColors:   !color,
			FullTimestamp:   true,
			TimestampFormat: timestampFormat,
		})
	}

	lg := &Logger{entry: logrus.NewEntry(l)}
	if cfg.LogFile == "" {
		return lg, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	l.AddHook(newFileHook(f, cfg.LogFormat))
	lg.file = f
	return lg, nil
}

func colorEnabled(mode config.ColorMode, out io.Writer) bool {
	f, _ := out.(*os.File)
	return term.ColorEnabled(mode, f)
}

// Close closes the log file if one was opened.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// WithValues returns a Logger that adds kv to every entry.
func (l *Logger) WithValues(kv Kv) *Logger {
	return &Logger{entry: l.entry.WithFields(logrus.Fields(kv)), file: l.file}
}

// Info logs at info level.
func (l *Logger) Info(format string, args ...interface{}) {
	l.entry.Infof(format, args...)
}

// Success logs at info level, marked with result=success.
func (l *Logger) Success(format string, args ...interface{}) {
	l.entry.WithField("result", "success").Infof(format, args...)
}

// Warn logs at warning level.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.entry.Warnf(format, args...)
}

// Error logs at error level.
func (l *Logger) Error(format string, args ...interface{}) {
	l.entry.Errorf(format, args...)
}

// Debug logs at debug level; dropped unless debug logging is enabled.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.entry.Debugf(format, args...)
}

// fileHook writes every entry, uncolored, to the log file.
type fileHook struct {
	mu        sync.Mutex
	w         io.Writer
	formatter logrus.Formatter
}

func newFileHook(w io.Writer, format config.LogFormat) *fileHook {
	var f logrus.Formatter = &logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: timestampFormat,
	}
	if format == config.LogFormatJSON {
		f = &logrus.JSONFormatter{TimestampFormat: timestampFormat}
	}
	return &fileHook{w: w, formatter: f}
}

func (h *fileHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h *fileHook) Fire(e *logrus.Entry) error {
	b, err := h.formatter.Format(e)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err = h.w.Write(b)
	return err
}
