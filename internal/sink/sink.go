// Package sink writes symbol records as tab-separated lines.
package sink

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/mvp-joe/blobtags/internal/extract"
)

// Sink receives records one at a time. Close flushes buffered output and
// releases whatever the sink owns.
type Sink interface {
	Write(r extract.Record) error
	Close() error
}

// AppendRecord appends r to buf as one newline-terminated TSV line.
func AppendRecord(buf []byte, r extract.Record) []byte {
	buf = append(buf, r.BasicName...)
	buf = append(buf, '\t')
	buf = append(buf, r.DetailedName...)
	buf = append(buf, '\t')
	buf = append(buf, r.Path...)
	buf = append(buf, '\t')
	buf = strconv.AppendInt(buf, int64(r.Line), 10)
	buf = append(buf, '\t')
	buf = strconv.AppendInt(buf, int64(r.Kind), 10)
	return append(buf, '\n')
}

// Format returns r as one TSV line including the trailing newline.
func Format(r extract.Record) string {
	return string(AppendRecord(nil, r))
}

// WriterSink buffers records into an io.Writer it does not own.
type WriterSink struct {
	w   *bufio.Writer
	buf []byte
}

// NewWriterSink wraps w, typically os.Stdout. Close flushes but never closes w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: bufio.NewWriter(w)}
}

func (s *WriterSink) Write(r extract.Record) error {
	s.buf = AppendRecord(s.buf[:0], r)
	if _, err := s.w.Write(s.buf); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	return nil
}

func (s *WriterSink) Flush() error {
	if err := s.w.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}
	return nil
}

func (s *WriterSink) Close() error {
	return s.Flush()
}

// FileSink appends records to a file it owns.
type FileSink struct {
	*WriterSink
	f *os.File
}

// OutputPath returns the per-worker output file inside dir.
func OutputPath(dir, prefix, workerID string) string {
	return filepath.Join(dir, prefix+workerID)
}

// OpenAppend opens (creating if needed) the per-worker output file in append
// mode. Each worker writes only its own file, so concurrent workers sharing
// dir never interleave.
func OpenAppend(dir, prefix, workerID string) (*FileSink, error) {
	path := OutputPath(dir, prefix, workerID)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open output file: %w", err)
	}
	return &FileSink{WriterSink: NewWriterSink(f), f: f}, nil
}

// Name returns the path of the underlying file.
func (s *FileSink) Name() string { return s.f.Name() }

func (s *FileSink) Close() error {
	flushErr := s.WriterSink.Flush()
	closeErr := s.f.Close()
	if closeErr != nil {
		closeErr = fmt.Errorf("failed to close output file: %w", closeErr)
	}
	return errors.Join(flushErr, closeErr)
}
