// Package store provides durable storage of named record collections as
// whole JSON documents — the "database" behind the repositories.
//
// The contract is deliberately coarse: Load reads an entire collection,
// Persist overwrites an entire collection. There are no partial or
// incremental writes. Serializing concurrent access is the caller's job;
// the repositories wrap every load-mutate-persist cycle in a mutex.
package store

// Store reads and writes a named collection of records.
//
// Implementations must treat a missing collection as empty rather than as an
// error, so that a fresh deployment starts from zero records. The interface
// exists so tests and future backends can substitute the file-backed
// implementation without touching the repositories.
type Store interface {
	// Load decodes the named collection into v, which must be a pointer to
	// a slice. A collection that has never been persisted loads as empty.
	Load(name string, v any) error

	// Persist overwrites the named collection with the full serialized
	// contents of v.
	Persist(name string, v any) error
}
