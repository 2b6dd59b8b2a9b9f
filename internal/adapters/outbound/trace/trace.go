// Package trace builds the diagnostic logger. Trace output is meant for people
// reading a terminal; callers must not parse it.
package trace

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"github.com/sirupsen/logrus"
)

// Format selects how trace lines are rendered.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// New returns a logger writing to w in the given format.
func New(w io.Writer, format Format) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(logrus.InfoLevel)

	switch format {
	case "", FormatText:
		logger.SetFormatter(&plainFormatter{})
	case FormatJSON:
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("unknown log format %q (valid: text, json)", format)
	}
	return logger, nil
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// plainFormatter prints the bare message, then any fields as key=value.
type plainFormatter struct{}

func (f *plainFormatter) Format(e *logrus.Entry) ([]byte, error) {
	var b bytes.Buffer

	switch {
	case e.Level <= logrus.ErrorLevel:
		b.WriteString("ERROR: ")
	case e.Level == logrus.WarnLevel:
		b.WriteString("WARNING: ")
	}
	b.WriteString(e.Message)

	keys := make([]string, 0, len(e.Data))
	for k := range e.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, e.Data[k])
	}

	b.WriteByte('\n')
	return b.Bytes(), nil
}
