package io

import (
	"context"

	"go.uber.org/multierr"

	"github.com/matzehuels/cortexwalk/pkg/caller"
)

// MultiSink fans every call out to several sinks.
type MultiSink []Sink

// Write forwards c to every sink and combines their errors.
func (m MultiSink) Write(ctx context.Context, c caller.Call) error {
	var err error
	for _, s := range m {
		err = multierr.Append(err, s.Write(ctx, c))
	}
	return err
}

// Close closes every sink.
func (m MultiSink) Close() error {
	var err error
	for _, s := range m {
		err = multierr.Append(err, s.Close())
	}
	return err
}

// MemorySink keeps calls in memory. The HTTP server uses it to answer call
// requests.
type MemorySink struct {
	Calls []caller.Call
}

func (m *MemorySink) Write(_ context.Context, c caller.Call) error {
	m.Calls = append(m.Calls, c)
	return nil
}

func (m *MemorySink) Close() error { return nil }
