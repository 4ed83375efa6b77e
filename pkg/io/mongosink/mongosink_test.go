package mongosink

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/cortexwalk/pkg/caller"
)

type fakeColl struct {
	batches [][]any
	err     error
}

func (f *fakeColl) InsertMany(_ context.Context, docs []any, _ ...*options.InsertManyOptions) (*mongo.InsertManyResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.batches = append(f.batches, append([]any(nil), docs...))
	return &mongo.InsertManyResult{}, nil
}

func TestSinkBatches(t *testing.T) {
	coll := &fakeColl{}
	s := newSink(coll, Options{RunID: "run-1", BatchSize: 2}).WithSample("NA12878")

	for i := range 3 {
		if err := s.Write(context.Background(), caller.Call{ContigIndex: i, Type: caller.SNV}); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}
	if len(coll.batches) != 1 || len(coll.batches[0]) != 2 {
		t.Fatalf("batches before Close = %v, want one batch of 2", coll.batches)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if len(coll.batches) != 2 || len(coll.batches[1]) != 1 {
		t.Fatalf("batches after Close = %d, want 2", len(coll.batches))
	}

	doc := coll.batches[1][0].(Document)
	if doc.RunID != "run-1" || doc.Sample != "NA12878" || doc.Call.ContigIndex != 2 {
		t.Errorf("document = %+v", doc)
	}
}

func TestSinkInsertError(t *testing.T) {
	s := newSink(&fakeColl{err: errors.New("no primary")}, Options{BatchSize: 1})
	if s.RunID() == "" {
		t.Error("RunID() empty, want a generated id")
	}
	if err := s.Write(context.Background(), caller.Call{}); err == nil {
		t.Error("Write() error = nil, want insert failure")
	}
}

func TestDocumentBSON(t *testing.T) {
	doc := Document{RunID: "r", Call: caller.Call{Chrom: "chr7", RefStart: 105, Type: caller.SNV, Alt: "G", Ref: "A"}}
	raw, err := bson.Marshal(doc)
	if err != nil {
		t.Fatalf("bson.Marshal() error = %v", err)
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		t.Fatalf("bson.Unmarshal() error = %v", err)
	}
	if m["chrom"] != "chr7" || m["run_id"] != "r" || m["type"] != "SNV" {
		t.Errorf("document fields = %v", m)
	}
}

func TestOpenRequiresURI(t *testing.T) {
	if _, err := Open(context.Background(), Options{}); err == nil {
		t.Error("Open() without uri: want error")
	}
}

func TestFilter(t *testing.T) {
	f := Filter("run-9")
	if len(f) != 1 || f[0].Key != "run_id" || f[0].Value != "run-9" {
		t.Errorf("Filter() = %v", f)
	}
}
