package io

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/matzehuels/cortexwalk/pkg/caller"
)

// Sink receives calls. Implementations need not be safe for concurrent use;
// the caller's runner writes from one goroutine.
type Sink interface {
	Write(ctx context.Context, c caller.Call) error
	Close() error
}

// TSVWriter writes calls as tab-separated rows behind a header line.
type TSVWriter struct {
	w      *bufio.Writer
	closer io.Closer
	header bool
}

// NewTSVWriter writes to w. Close flushes and, when w is an [io.Closer],
// closes it.
func NewTSVWriter(w io.Writer) *TSVWriter {
	t := &TSVWriter{w: bufio.NewWriter(w)}
	if c, ok := w.(io.Closer); ok {
		t.closer = c
	}
	return t
}

func (t *TSVWriter) writeRow(fields []string) error {
	_, err := t.w.WriteString(strings.Join(fields, "\t") + "\n")
	return err
}

// Write appends one call.
func (t *TSVWriter) Write(_ context.Context, c caller.Call) error {
	if !t.header {
		if err := t.writeRow(caller.Header); err != nil {
			return err
		}
		t.header = true
	}
	return t.writeRow(c.Fields())
}

// Close flushes buffered rows. A writer that saw no calls still emits the
// header.
func (t *TSVWriter) Close() error {
	if !t.header {
		if err := t.writeRow(caller.Header); err != nil {
			return err
		}
		t.header = true
	}
	if err := t.w.Flush(); err != nil {
		return err
	}
	if t.closer != nil {
		return t.closer.Close()
	}
	return nil
}
