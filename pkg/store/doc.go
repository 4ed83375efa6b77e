// Package store defines the read-only k-mer lookup contract consumed by the
// traversal engine, together with the implementations cortexwalk ships.
//
// # Overview
//
// A colored de Bruijn graph is stored as one [Record] per canonical k-mer.
// Each record carries, for every color (sample), an [kmer.EdgeMask] and a
// coverage count. Traversal code only ever asks for a record by canonical
// identity through the [Store] interface; it never iterates the store.
//
// # Implementations
//
//   - [MemStore]: map-backed, used by tests and small in-process graphs
//   - [BadgerStore]: persistent, backed by BadgerDB; built once by the
//     "build" command and opened read-only for walking and calling
//   - [Builder]: turns per-sample sequences into records and flushes them
//     into any [Writable] store
//
// Records are immutable once returned; callers must not modify them.
package store
