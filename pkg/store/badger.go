package store

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/dgraph-io/badger/v4"

	"github.com/matzehuels/cortexwalk/pkg/kmer"
)

// headerKey holds the JSON header. It cannot collide with a k-mer key
// because k-mer keys only contain A, C, G and T.
var headerKey = []byte("\x00header")

// BadgerOptions configures [OpenBadger].
type BadgerOptions struct {
	// Path is the database directory. Ignored when InMemory is set.
	Path string
	// InMemory keeps everything in memory (tests).
	InMemory bool
	// ReadOnly opens an existing database without write access.
	ReadOnly bool
	// Logger receives badger's internal warnings. Nil silences them.
	Logger *log.Logger
}

// BadgerStore is a persistent [Store] backed by BadgerDB. Keys are canonical
// k-mer bases; values are the binary record encoding.
type BadgerStore struct {
	db     *badger.DB
	h      header
	logger *log.Logger
}

type badgerLogger struct{ l *log.Logger }

func (b badgerLogger) Errorf(f string, a ...any)   { b.l.Errorf(f, a...) }
func (b badgerLogger) Warningf(f string, a ...any) { b.l.Warnf(f, a...) }
func (b badgerLogger) Infof(f string, a ...any)    { b.l.Debugf(f, a...) }
func (b badgerLogger) Debugf(f string, a ...any)   { b.l.Debugf(f, a...) }

func openDB(o BadgerOptions) (*badger.DB, error) {
	var opts badger.Options
	if o.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if o.Path == "" {
			return nil, errors.New("badger path is required")
		}
		opts = badger.DefaultOptions(o.Path).WithReadOnly(o.ReadOnly)
	}
	if o.Logger != nil {
		opts = opts.WithLogger(badgerLogger{o.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}
	return badger.Open(opts)
}

// CreateBadger creates (or truncates the header of) a writable store for
// k-mers of length k over the given samples.
func CreateBadger(o BadgerOptions, k int, samples []string) (*BadgerStore, error) {
	o.ReadOnly = false
	db, err := openDB(o)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	s := &BadgerStore{db: db, h: header{K: k, Samples: samples}, logger: o.Logger}
	data, err := json.Marshal(s.h)
	if err != nil {
		db.Close()
		return nil, err
	}
	if err := db.Update(func(txn *badger.Txn) error {
		return txn.Set(headerKey, data)
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}
	return s, nil
}

// OpenBadger opens an existing store and reads its header.
func OpenBadger(o BadgerOptions) (*BadgerStore, error) {
	db, err := openDB(o)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	s := &BadgerStore{db: db, logger: o.Logger}
	err = db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(headerKey)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &s.h)
		})
	})
	if err != nil {
		db.Close()
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, fmt.Errorf("%s: missing header: %w", o.Path, ErrNotFound)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	return s, nil
}

// Put implements [Writable].
func (s *BadgerStore) Put(rec *Record) error {
	if err := s.h.check(rec); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(rec.Kmer), encodeRecord(rec))
	})
}

// PutAll writes records in a single write batch.
func (s *BadgerStore) PutAll(recs []*Record) error {
	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	for _, rec := range recs {
		if err := s.h.check(rec); err != nil {
			return fmt.Errorf("%s: %w", rec.Kmer, err)
		}
		if err := wb.Set([]byte(rec.Kmer), encodeRecord(rec)); err != nil {
			return err
		}
	}
	return wb.Flush()
}

// KmerSize implements [Store].
func (s *BadgerStore) KmerSize() int { return s.h.K }

// NumColors implements [Store].
func (s *BadgerStore) NumColors() int { return len(s.h.Samples) }

// SampleName implements [Store].
func (s *BadgerStore) SampleName(color int) string { return s.h.sampleName(color) }

// ColorForSample implements [Store].
func (s *BadgerStore) ColorForSample(name string) (int, bool) { return s.h.colorForSample(name) }

// ColorsForSamples implements [Store].
func (s *BadgerStore) ColorsForSamples(names []string) []int { return s.h.colorsForSamples(names) }

// FindRecord implements [Store]. Read failures other than a missing key are
// logged and reported as absent.
func (s *BadgerStore) FindRecord(ck kmer.Canonical) (*Record, bool) {
	var rec *Record
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(ck))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			r, err := decodeRecord(ck, val, len(s.h.Samples))
			rec = r
			return err
		})
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) && s.logger != nil {
			s.logger.Warn("record lookup failed", "kmer", ck, "err", err)
		}
		return nil, false
	}
	return rec, true
}

// Each calls fn for every record in key order until fn returns false.
func (s *BadgerStore) Each(fn func(*Record) bool) error {
	return s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := item.KeyCopy(nil)
			if len(key) > 0 && key[0] == 0 {
				continue
			}
			val, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			rec, err := decodeRecord(kmer.Canonical(key), val, len(s.h.Samples))
			if err != nil {
				return err
			}
			if !fn(rec) {
				return nil
			}
		}
		return nil
	})
}

// Close closes the underlying database.
func (s *BadgerStore) Close() error { return s.db.Close() }

// recordWidth is the encoded size of one color: a mask byte and a uint32
// coverage.
const recordWidth = 5

func encodeRecord(rec *Record) []byte {
	buf := make([]byte, recordWidth*len(rec.Edges))
	for c := range rec.Edges {
		off := c * recordWidth
		buf[off] = byte(rec.Edges[c])
		binary.LittleEndian.PutUint32(buf[off+1:], rec.Coverage[c])
	}
	return buf
}

func decodeRecord(ck kmer.Canonical, val []byte, colors int) (*Record, error) {
	if len(val) != recordWidth*colors {
		return nil, fmt.Errorf("%s: %w", ck, ErrColorMismatch)
	}
	rec := &Record{
		Kmer:     ck,
		Edges:    make([]kmer.EdgeMask, colors),
		Coverage: make([]uint32, colors),
	}
	for c := 0; c < colors; c++ {
		off := c * recordWidth
		rec.Edges[c] = kmer.EdgeMask(val[off])
		rec.Coverage[c] = binary.LittleEndian.Uint32(val[off+1:])
	}
	return rec, nil
}
