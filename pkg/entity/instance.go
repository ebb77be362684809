package entity

import (
	"github.com/scrose/mle-api/pkg/nodes"
	"github.com/scrose/mle-api/pkg/schema"
)

type attribute struct {
	semantic schema.SemanticType
	value    any
}

// Instance is an in-memory, schema-bound attribute record for one node. It
// models exactly one row: every schema attribute exists from construction
// (nil until set) and unknown input keys are dropped with a warning.
// Instances are request-scoped and never shared across operations.
type Instance struct {
	typeName schema.Type
	schema   schema.Schema
	attrs    map[string]*attribute
	order    []string
	// extended holds instance-local attributes added at runtime via
	// AddAttribute. They are merged only at serialization time and never
	// touch the shared registry schema.
	extended      map[string]*attribute
	extendedOrder []string
	log           nodes.Logger
}

func newInstance(s schema.Schema, log nodes.Logger) *Instance {
	inst := &Instance{
		typeName: s.TypeName,
		schema:   s,
		attrs:    make(map[string]*attribute, len(s.Attributes)),
		order:    make([]string, 0, len(s.Attributes)),
		log:      log,
	}
	for _, attr := range s.Attributes {
		inst.attrs[attr.Name] = &attribute{semantic: attr.Semantic}
		inst.order = append(inst.order, attr.Name)
	}
	return inst
}

// Type returns the entity type the instance is bound to.
func (in *Instance) Type() schema.Type {
	return in.typeName
}

// Schema returns the bound schema descriptor.
func (in *Instance) Schema() schema.Schema {
	return in.schema
}

// ID returns the sanitized value of the key attribute, or nil when the
// instance has not been persisted.
func (in *Instance) ID() any {
	return in.GetValue(in.schema.KeyAttribute)
}

// Label returns the display label value, falling back to the key attribute.
func (in *Instance) Label() any {
	return in.GetValue(in.schema.Label())
}

// SetData merges data into the instance. It accepts a flat record or a
// result-set-shaped slice, in which case only the first row is used since
// the instance models exactly one record. Keys absent from the schema are
// logged and dropped; present keys are sanitized by semantic type before
// storage.
func (in *Instance) SetData(data any) {
	record := firstRecord(data)
	if record == nil {
		return
	}
	for name, value := range record {
		attr, ok := in.attrs[name]
		if !ok {
			in.log.Warn("dropping attribute not in schema",
				"type", string(in.typeName), "attribute", name)
			continue
		}
		attr.value = Sanitize(attr.semantic, value)
	}
}

func firstRecord(data any) map[string]any {
	switch v := data.(type) {
	case map[string]any:
		return v
	case []map[string]any:
		if len(v) == 0 {
			return nil
		}
		return v[0]
	case []any:
		if len(v) == 0 {
			return nil
		}
		if row, ok := v[0].(map[string]any); ok {
			return row
		}
	}
	return nil
}

// GetValue returns the stored value for name, checking extended attributes
// after schema attributes. Unknown names return nil rather than failing so
// schema drift across application versions cannot crash live requests.
func (in *Instance) GetValue(name string) any {
	if attr, ok := in.attrs[name]; ok {
		return attr.value
	}
	if attr, ok := in.extended[name]; ok {
		return attr.value
	}
	return nil
}

// SetValue sanitizes and stores a single value. Unknown names are silently
// ignored for the same reason GetValue tolerates them.
func (in *Instance) SetValue(name string, value any) {
	if attr, ok := in.attrs[name]; ok {
		attr.value = Sanitize(attr.semantic, value)
		return
	}
	if attr, ok := in.extended[name]; ok {
		attr.value = Sanitize(attr.semantic, value)
	}
}

// AddAttribute extends the instance's local attribute set. The shared
// registry schema is never mutated; extended attributes exist only on this
// instance and appear in GetData output after the schema attributes.
func (in *Instance) AddAttribute(name string, semantic schema.SemanticType, value any) {
	if _, exists := in.attrs[name]; exists {
		in.SetValue(name, value)
		return
	}
	if in.extended == nil {
		in.extended = make(map[string]*attribute)
	}
	if _, exists := in.extended[name]; !exists {
		in.extendedOrder = append(in.extendedOrder, name)
	}
	in.extended[name] = &attribute{semantic: semantic, value: Sanitize(semantic, value)}
}

// GetData serializes the instance to a flat record, omitting excluded keys.
// Extended attributes are merged in after the schema-bound set.
func (in *Instance) GetData(exclude ...string) map[string]any {
	skip := make(map[string]struct{}, len(exclude))
	for _, k := range exclude {
		skip[k] = struct{}{}
	}
	out := make(map[string]any, len(in.order)+len(in.extendedOrder))
	for _, name := range in.order {
		if _, omit := skip[name]; omit {
			continue
		}
		out[name] = in.attrs[name].value
	}
	for _, name := range in.extendedOrder {
		if _, omit := skip[name]; omit {
			continue
		}
		out[name] = in.extended[name].value
	}
	return out
}
