// internal/schema/registry.go
package schema

import "sync"

type registryKey struct {
	record string
	opts   Options
}

type registryEntry struct {
	once   sync.Once
	schema *Schema
	err    error
}

// Registry caches one Schema per (record, Options) pair.
// Derivation runs at most once per key; failures are cached too.
type Registry struct {
	entries sync.Map // registryKey -> *registryEntry
}

// Get returns the cached schema for record+opts, deriving it with decls on first use.
// decls is only called when the key is not cached yet.
func (r *Registry) Get(record string, opts Options, decls func() []Declarer) (*Schema, error) {
	key := registryKey{record: record, opts: opts}
	v, _ := r.entries.LoadOrStore(key, &registryEntry{})
	e := v.(*registryEntry)

	e.once.Do(func() {
		e.schema, e.err = New(record, opts, decls()...)
	})
	return e.schema, e.err
}

var defaultRegistry Registry

// Cached uses the process-wide registry.
func Cached(record string, opts Options, decls func() []Declarer) (*Schema, error) {
	return defaultRegistry.Get(record, opts, decls)
}
