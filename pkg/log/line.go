package log

import (
	"strings"

	"go.uber.org/zap"
)

// ErrorMarker tags a preformatted line as an error line.
const ErrorMarker = "** ERROR **"

// LineWriter receives fully formatted log lines.
type LineWriter interface {
	WriteLine(line string)
}

// LineWriterFunc adapts a function to LineWriter.
type LineWriterFunc func(line string)

// WriteLine implements LineWriter
func (f LineWriterFunc) WriteLine(line string) {
	f(line)
}

type zapLineWriter struct {
	logger *zap.Logger
}

// NewLineWriter returns a LineWriter backed by the package zap logger.
// Lines carrying ErrorMarker are written at ErrorLevel, everything else at InfoLevel.
func NewLineWriter() LineWriter {
	return &zapLineWriter{logger: logger}
}

func (w *zapLineWriter) WriteLine(line string) {
	if strings.Contains(line, ErrorMarker) {
		w.logger.Error(line)
		return
	}
	w.logger.Info(line)
}
