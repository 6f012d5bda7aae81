package utils

import "io"

type flushableWriter interface {
	Flush() error
}

type flushingWriter struct {
	destination io.Writer
	flusher     flushableWriter
}

// NewFlushingWriter wraps destination so every write is flushed immediately
// when the destination supports flushing. Subprocess output stays visible in
// real time instead of sitting in a buffer until the process exits.
func NewFlushingWriter(destination io.Writer) io.Writer {
	writer := &flushingWriter{destination: destination}
	if flusher, supportsFlush := destination.(flushableWriter); supportsFlush {
		writer.flusher = flusher
	}
	return writer
}

func (writer *flushingWriter) Write(data []byte) (int, error) {
	bytesWritten, writeError := writer.destination.Write(data)
	if writeError != nil {
		return bytesWritten, writeError
	}
	if writer.flusher != nil {
		if flushError := writer.flusher.Flush(); flushError != nil {
			return bytesWritten, flushError
		}
	}
	return bytesWritten, nil
}
