package schema

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"sync"
)

//go:embed definitions/*.yaml
var definitionFiles embed.FS

// Registry maps each source to its schema. It is built once and never mutated.
type Registry struct {
	schemas map[Source]*Schema
}

// NewRegistry builds a registry from already-parsed schemas.
// Registering the same source twice is an error.
func NewRegistry(schemas ...*Schema) (*Registry, error) {
	r := &Registry{schemas: make(map[Source]*Schema, len(schemas))}
	for _, s := range schemas {
		if s == nil {
			return nil, fmt.Errorf("schema must not be nil")
		}
		if _, exists := r.schemas[s.Source]; exists {
			return nil, fmt.Errorf("schema for source %q registered twice", s.Source)
		}
		r.schemas[s.Source] = s
	}
	return r, nil
}

// LoadRegistry parses every *.yaml definition under dir in fsys.
func LoadRegistry(fsys fs.FS, dir string) (*Registry, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema definitions: %w", err)
	}

	var schemas []*Schema
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".yaml" {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", entry.Name(), err)
		}
		s, err := ParseDefinition(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", entry.Name(), err)
		}
		schemas = append(schemas, s)
	}
	return NewRegistry(schemas...)
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the registry of the built-in npp, eia and entsoe contracts.
// The embedded definitions are part of the binary, so a parse failure panics.
func Default() *Registry {
	defaultOnce.Do(func() {
		reg, err := LoadRegistry(definitionFiles, "definitions")
		if err != nil {
			panic(fmt.Sprintf("schema: built-in definitions are invalid: %v", err))
		}
		defaultRegistry = reg
	})
	return defaultRegistry
}

// Get returns the schema for source or an *UnknownSourceError.
func (r *Registry) Get(source Source) (*Schema, error) {
	s, ok := r.schemas[source]
	if !ok {
		return nil, &UnknownSourceError{Source: source}
	}
	return s, nil
}

// Sources lists the registered sources in lexical order.
func (r *Registry) Sources() []Source {
	out := make([]Source, 0, len(r.schemas))
	for s := range r.schemas {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
