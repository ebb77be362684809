// Package entity constructs schema-bound entity instances: transient,
// request-scoped attribute records that sanitize every value by semantic
// type on write and serialize back to flat records for persistence.
package entity

import (
	"github.com/scrose/mle-api/pkg/nodes"
	"github.com/scrose/mle-api/pkg/schema"
)

// Factory produces constructors bound to registered entity schemas.
type Factory struct {
	registry *schema.Registry
	log      nodes.Logger
}

// Option configures a Factory.
type Option func(*Factory)

// WithLogger routes unknown-attribute warnings to the supplied logger.
func WithLogger(l nodes.Logger) Option {
	return func(f *Factory) {
		if l != nil {
			f.log = l
		}
	}
}

// NewFactory builds a factory over the given registry.
func NewFactory(registry *schema.Registry, opts ...Option) *Factory {
	f := &Factory{registry: registry, log: nodes.NopLogger{}}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Constructor builds an entity instance populated from initial data, which
// may be a flat record or a result-set-shaped slice (first row only).
type Constructor func(initial any) *Instance

// New returns a constructor bound to the schema for t. The error is a
// schema.UnknownTypeError when t is unregistered.
func (f *Factory) New(t schema.Type) (Constructor, error) {
	s, err := f.registry.Describe(t)
	if err != nil {
		return nil, err
	}
	return func(initial any) *Instance {
		inst := newInstance(s, f.log)
		if initial != nil {
			inst.SetData(initial)
		}
		return inst
	}, nil
}

// Registry exposes the registry the factory was built over.
func (f *Factory) Registry() *schema.Registry {
	return f.registry
}
