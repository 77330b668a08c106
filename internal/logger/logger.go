package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New builds the service logger. When errorFile is set, entries at error level
// and above are also appended to that file.
func New(level, errorFile string) (*logrus.Logger, error) {
	logger := logrus.New()

	logger.SetFormatter(newFormatter())

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)
	logger.SetOutput(os.Stdout)

	if errorFile != "" {
		f, err := os.OpenFile(errorFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open error log %s: %w", errorFile, err)
		}
		logger.AddHook(NewErrorHook(f))
	}

	return logger, nil
}

func newFormatter() *logrus.JSONFormatter {
	return &logrus.JSONFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	}
}

// ErrorHook copies error, fatal and panic entries to a separate writer.
type ErrorHook struct {
	out       io.Writer
	formatter logrus.Formatter
}

func NewErrorHook(out io.Writer) *ErrorHook {
	return &ErrorHook{out: out, formatter: newFormatter()}
}

func (h *ErrorHook) Levels() []logrus.Level {
	return []logrus.Level{logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel}
}

func (h *ErrorHook) Fire(entry *logrus.Entry) error {
	line, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}
	_, err = h.out.Write(line)
	return err
}
