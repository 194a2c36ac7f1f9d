package utils

import (
	"fmt"
	"io"
	"sync"
)

const lineTemplateConstant = "%s\n"

type flusher interface {
	Flush() error
}

// FlushingWriter serializes writes and flushes buffered destinations after each one, so a selection
// printed by one dialog is visible to a reading process before the next dialog opens.
type FlushingWriter struct {
	writer  io.Writer
	flusher flusher
	mutex   sync.Mutex
}

// NewFlushingWriter wraps writer. A nil writer yields nil and an existing FlushingWriter is returned unchanged.
func NewFlushingWriter(writer io.Writer) *FlushingWriter {
	if writer == nil {
		return nil
	}
	if existing, alreadyWrapped := writer.(*FlushingWriter); alreadyWrapped {
		return existing
	}
	flushingWriter := &FlushingWriter{writer: writer}
	if flushableWriter, implementsFlush := writer.(flusher); implementsFlush {
		flushingWriter.flusher = flushableWriter
	}
	return flushingWriter
}

// Write delegates to the underlying writer and flushes it when possible.
func (flushingWriter *FlushingWriter) Write(data []byte) (int, error) {
	if flushingWriter == nil || flushingWriter.writer == nil {
		return 0, nil
	}

	flushingWriter.mutex.Lock()
	defer flushingWriter.mutex.Unlock()
	return flushingWriter.writeLocked(data)
}

// WriteLines writes each line followed by a newline as a single flushed unit.
func (flushingWriter *FlushingWriter) WriteLines(lines ...string) error {
	if flushingWriter == nil || flushingWriter.writer == nil {
		return nil
	}

	flushingWriter.mutex.Lock()
	defer flushingWriter.mutex.Unlock()

	for _, line := range lines {
		if _, writeError := fmt.Fprintf(flushingWriter.writer, lineTemplateConstant, line); writeError != nil {
			return writeError
		}
	}
	return flushingWriter.flush()
}

func (flushingWriter *FlushingWriter) writeLocked(data []byte) (int, error) {
	bytesWritten, writeError := flushingWriter.writer.Write(data)
	if writeError != nil {
		return bytesWritten, writeError
	}
	return bytesWritten, flushingWriter.flush()
}

func (flushingWriter *FlushingWriter) flush() error {
	if flushingWriter.flusher == nil {
		return nil
	}
	return flushingWriter.flusher.Flush()
}
