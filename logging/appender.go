package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultTimeFormatStr is the time format used by the console and test appenders.
const DefaultTimeFormatStr = "2006-01-02T15:04:05.000Z0700"

// Appender is an output for log entries.
type Appender interface {
	// Write submits a structured log entry to the appender for logging.
	Write(zapcore.Entry, []zapcore.Field) error
	// Sync is for signaling that any buffered logs to `Write` should be flushed. E.g: at shutdown.
	Sync() error
}

// ConsoleAppender writes one tab separated line per entry to an io.Writer.
type ConsoleAppender struct {
	io.Writer
	colorLevels bool
}

// NewStdoutAppender returns an appender that writes to stdout, coloring the level when stdout
// is a terminal.
func NewStdoutAppender() ConsoleAppender {
	return ConsoleAppender{Writer: os.Stdout, colorLevels: !color.NoColor}
}

// NewWriterAppender returns an appender that writes uncolored lines to w.
func NewWriterAppender(w io.Writer) ConsoleAppender {
	return ConsoleAppender{Writer: w}
}

// Write outputs the entry as "time level name caller message fields".
func (appender ConsoleAppender) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	level := strings.ToUpper(entry.Level.String())
	if appender.colorLevels {
		level = levelColor(entry.Level).Sprint(level)
	}
	toPrint := entryParts(entry, level)
	if len(fields) > 0 {
		encoded, err := encodeFields(fields)
		if err != nil {
			return err
		}
		toPrint = append(toPrint, encoded)
	}
	_, err := fmt.Fprintln(appender.Writer, strings.Join(toPrint, "\t"))
	return err
}

// Sync is a no-op.
func (appender ConsoleAppender) Sync() error {
	return nil
}

// FileAppender writes console formatted lines to a file that is rotated by size.
type FileAppender struct {
	ConsoleAppender
	file *lumberjack.Logger
}

// NewFileAppender returns an appender writing to filename. Old files are kept next to it with a
// timestamp suffix.
func NewFileAppender(filename string, maxSizeMB, maxBackups int) *FileAppender {
	file := &lumberjack.Logger{
		Filename:   filepath.Clean(filename),
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
	}
	return &FileAppender{ConsoleAppender: NewWriterAppender(file), file: file}
}

// Rotate closes the current file and starts a new one.
func (appender *FileAppender) Rotate() error {
	return appender.file.Rotate()
}

// Close closes the underlying file.
func (appender *FileAppender) Close() error {
	return appender.file.Close()
}

func levelColor(level zapcore.Level) *color.Color {
	switch level {
	case zapcore.DebugLevel:
		return color.New(color.FgMagenta)
	case zapcore.InfoLevel:
		return color.New(color.FgBlue)
	case zapcore.WarnLevel:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed)
	}
}

func entryParts(entry zapcore.Entry, level string) []string {
	const maxLength = 10
	toPrint := make([]string, 0, maxLength)
	toPrint = append(toPrint, entry.Time.Format(DefaultTimeFormatStr), level, entry.LoggerName)
	if entry.Caller.Defined {
		toPrint = append(toPrint, callerToString(&entry.Caller))
	}
	return append(toPrint, entry.Message)
}

// encodeFields uses zap's json encoder, which keeps the fields in order. It is called with an
// empty Entry so only the fields are written.
func encodeFields(fields []zapcore.Field) (string, error) {
	jsonEncoder := zapcore.NewJSONEncoder(zapcore.EncoderConfig{SkipLineEnding: true})
	buf, err := jsonEncoder.EncodeEntry(zapcore.Entry{}, fields)
	if err != nil {
		return "", err
	}
	defer buf.Free()
	return buf.String(), nil
}

// callerToString returns "dir/file.go:line", the last path element of the directory plus the
// file.
func callerToString(caller *zapcore.EntryCaller) string {
	return caller.TrimmedPath()
}
