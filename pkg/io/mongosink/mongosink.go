// Package mongosink stores calls in a MongoDB collection.
//
// Calls are buffered and inserted in batches. Each document carries the
// run ID the sink was opened with, so several runs can share a collection:
//
//	s, err := mongosink.Open(ctx, mongosink.Options{URI: "mongodb://localhost:27017"})
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
package mongosink

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/multierr"

	"github.com/matzehuels/cortexwalk/pkg/caller"
	"github.com/matzehuels/cortexwalk/pkg/errors"
)

const (
	DefaultDatabase   = "cortexwalk"
	DefaultCollection = "calls"
	DefaultBatchSize  = 500
	connectTimeout    = 10 * time.Second
)

// Options configures the sink.
type Options struct {
	URI        string
	Database   string
	Collection string
	// RunID tags every document. Empty means a fresh UUID.
	RunID     string
	BatchSize int
}

// Document is the stored form of a call.
type Document struct {
	RunID  string      `bson:"run_id"`
	Sample string      `bson:"sample,omitempty"`
	Call   caller.Call `bson:",inline"`
}

// inserter is the part of a collection the sink uses.
type inserter interface {
	InsertMany(ctx context.Context, docs []any, opts ...*options.InsertManyOptions) (*mongo.InsertManyResult, error)
}

// Sink buffers calls and writes them to MongoDB.
type Sink struct {
	client *mongo.Client
	coll   inserter
	runID  string
	sample string
	batch  int
	buf    []any
}

// Open connects to MongoDB and checks the server is reachable.
func Open(ctx context.Context, o Options) (*Sink, error) {
	if o.URI == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "mongo uri is required")
	}
	cctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(cctx, options.Client().ApplyURI(o.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connect %s", o.URI)
	}
	if err := client.Ping(cctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeStore, err, "ping %s", o.URI)
	}

	if o.Database == "" {
		o.Database = DefaultDatabase
	}
	if o.Collection == "" {
		o.Collection = DefaultCollection
	}
	s := newSink(client.Database(o.Database).Collection(o.Collection), o)
	s.client = client
	return s, nil
}

func newSink(coll inserter, o Options) *Sink {
	if o.RunID == "" {
		o.RunID = uuid.NewString()
	}
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultBatchSize
	}
	return &Sink{coll: coll, runID: o.RunID, batch: o.BatchSize}
}

// RunID returns the tag written on every document.
func (s *Sink) RunID() string { return s.runID }

// WithSample tags subsequent documents with a sample name.
func (s *Sink) WithSample(name string) *Sink {
	s.sample = name
	return s
}

// Write buffers c and flushes when the batch is full.
func (s *Sink) Write(ctx context.Context, c caller.Call) error {
	s.buf = append(s.buf, Document{RunID: s.runID, Sample: s.sample, Call: c})
	if len(s.buf) >= s.batch {
		return s.Flush(ctx)
	}
	return nil
}

// Flush inserts buffered documents.
func (s *Sink) Flush(ctx context.Context) error {
	if len(s.buf) == 0 {
		return nil
	}
	if _, err := s.coll.InsertMany(ctx, s.buf); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "insert %d calls", len(s.buf))
	}
	s.buf = s.buf[:0]
	return nil
}

// Close flushes and disconnects.
func (s *Sink) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	err := s.Flush(ctx)
	if s.client != nil {
		err = multierr.Append(err, s.client.Disconnect(ctx))
	}
	return err
}

// Filter selects the documents of one run.
func Filter(runID string) bson.D {
	return bson.D{{Key: "run_id", Value: runID}}
}
