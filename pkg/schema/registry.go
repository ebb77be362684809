package schema

import (
	"fmt"
	"sort"
)

// UnknownTypeError reports a lookup against a type the registry has never
// seen. Boundary layers map it to a not-found style response.
type UnknownTypeError struct {
	Type Type
}

func (e UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown entity type %q", string(e.Type))
}

// Registry holds the immutable set of entity schemas. It is populated once
// at startup and is safe for concurrent reads from in-flight operations.
type Registry struct {
	schemas      map[Type]Schema
	defaultDepth int
	maxDepth     int
}

// Option configures registry construction.
type Option func(*Registry)

// WithDefaultDepth sets the depth class returned for types without an
// explicit entry.
func WithDefaultDepth(depth int) Option {
	return func(r *Registry) { r.defaultDepth = depth }
}

// WithMaxDepth bounds owner-chain walks; exceeding it is treated as a
// data-integrity error by callers.
func WithMaxDepth(depth int) Option {
	return func(r *Registry) { r.maxDepth = depth }
}

// NewRegistry validates and indexes the supplied schemas.
func NewRegistry(schemas []Schema, opts ...Option) (*Registry, error) {
	r := &Registry{
		schemas:      make(map[Type]Schema, len(schemas)),
		defaultDepth: 1,
		maxDepth:     10,
	}
	for _, opt := range opts {
		opt(r)
	}
	for _, s := range schemas {
		if s.TypeName == "" {
			return nil, fmt.Errorf("schema with empty type name")
		}
		if _, dup := r.schemas[s.TypeName]; dup {
			return nil, fmt.Errorf("duplicate schema for type %q", s.TypeName)
		}
		if s.KeyAttribute == "" {
			return nil, fmt.Errorf("schema %q has no key attribute", s.TypeName)
		}
		if _, ok := s.Attribute(s.KeyAttribute); !ok {
			return nil, fmt.Errorf("schema %q key attribute %q not in attribute list", s.TypeName, s.KeyAttribute)
		}
		if s.DepthClass < 0 {
			return nil, fmt.Errorf("schema %q has negative depth class", s.TypeName)
		}
		if s.IsRoot && len(s.OwnerTypes) > 0 {
			return nil, fmt.Errorf("root schema %q declares owner types", s.TypeName)
		}
		if !s.IsRoot && len(s.OwnerTypes) == 0 {
			return nil, fmt.Errorf("non-root schema %q has empty owner allow-list", s.TypeName)
		}
		r.schemas[s.TypeName] = s
	}
	// Owner allow-lists may only reference registered types.
	for _, s := range r.schemas {
		for _, owner := range s.OwnerTypes {
			if _, ok := r.schemas[owner]; !ok {
				return nil, fmt.Errorf("schema %q references unregistered owner type %q", s.TypeName, owner)
			}
		}
	}
	return r, nil
}

// Describe returns the schema registered for t.
func (r *Registry) Describe(t Type) (Schema, error) {
	s, ok := r.schemas[t]
	if !ok {
		return Schema{}, UnknownTypeError{Type: t}
	}
	return s, nil
}

// IsRootType reports whether t is a tree root type. Unknown types are not
// roots.
func (r *Registry) IsRootType(t Type) bool {
	s, ok := r.schemas[t]
	return ok && s.IsRoot
}

// DepthOf returns the configured depth class for t, falling back to the
// registry default when the type has no explicit entry.
func (r *Registry) DepthOf(t Type) int {
	if s, ok := r.schemas[t]; ok {
		return s.DepthClass
	}
	return r.defaultDepth
}

// OwnersOf returns the owner-type allow-list for t. Nil for root or unknown
// types.
func (r *Registry) OwnersOf(t Type) []Type {
	s, ok := r.schemas[t]
	if !ok {
		return nil
	}
	return s.OwnerTypes
}

// FilesystemRoot returns the filesystem root segment configured for t.
func (r *Registry) FilesystemRoot(t Type) (string, bool) {
	s, ok := r.schemas[t]
	if !ok || s.FilesystemRoot == "" {
		return "", false
	}
	return s.FilesystemRoot, true
}

// MaxDepth returns the maximum permitted owner-chain length.
func (r *Registry) MaxDepth() int {
	return r.maxDepth
}

// Types lists all registered entity types in stable order.
func (r *Registry) Types() []Type {
	out := make([]Type, 0, len(r.schemas))
	for t := range r.schemas {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
