package resource

import (
	"context"

	"github.com/cockroachdb/errors"
)

// Field declares one logical column: an external column name, a dotted
// attribute path on the domain object, and the widget converting between
// the two representations. A Field is immutable after registration.
type Field struct {
	// ColumnName is the external label used in dataset headers and rows.
	ColumnName string

	// Attribute is the dotted attribute path on the domain object,
	// possibly spanning relationships.
	Attribute string

	// Widget converts between raw cell values and native attribute
	// values.
	Widget Widget
}

// Save cleans the field's cell from the row and assigns it to the
// instance attribute. Rows without the column leave the attribute
// untouched, which is what makes partial-row updates work.
func (f *Field) Save(ctx context.Context, instance any, row map[string]string) error {
	if f.Attribute == "" {
		return nil
	}
	raw, ok := row[f.ColumnName]
	if !ok {
		return nil
	}
	value, err := f.Widget.Clean(ctx, raw)
	if err != nil {
		return errors.Wrapf(err, "field %q", f.ColumnName)
	}
	if err := setAttr(instance, f.Attribute, value); err != nil {
		return wrapConversion(err, "assigning field "+f.ColumnName)
	}
	return nil
}

// Export reads the attribute from the instance and renders it to its raw
// representation.
func (f *Field) Export(instance any) (string, error) {
	value, err := f.GetValue(instance)
	if err != nil {
		return "", err
	}
	return f.Widget.Render(value), nil
}

// GetValue reads the native attribute value from the instance.
func (f *Field) GetValue(instance any) (any, error) {
	if instance == nil {
		return nil, nil
	}
	return getAttr(instance, f.Attribute)
}

// isRelationSet reports whether the field targets a multi-valued
// relation, which is excluded from the first-pass field application and
// persisted after the owning object has an identity.
func (f *Field) isRelationSet() bool {
	_, ok := f.Widget.(ManyToManyWidget)
	if !ok {
		_, ok = f.Widget.(*ManyToManyWidget)
	}
	return ok
}

// FieldRegistry is the ordered field mapping owned by a resource. Field
// names are unique; registration order is the default column order. The
// registry replaces class-level introspection with one explicit build
// step at resource construction time.
type FieldRegistry struct {
	names  []string
	byName map[string]*Field
}

// NewFieldRegistry creates an empty registry.
func NewFieldRegistry() *FieldRegistry {
	return &FieldRegistry{byName: make(map[string]*Field)}
}

// Add registers a field under a unique name. The column name defaults to
// the field name when unset, matching the declarative style where the
// declaration key doubles as the external label.
func (r *FieldRegistry) Add(name string, f Field) error {
	if name == "" {
		return errors.New("field name must not be empty")
	}
	if _, exists := r.byName[name]; exists {
		return errors.Newf("field %q is already registered", name)
	}
	if f.ColumnName == "" {
		f.ColumnName = name
	}
	if f.Attribute == "" {
		f.Attribute = name
	}
	if f.Widget == nil {
		f.Widget = StringWidget{}
	}
	r.names = append(r.names, name)
	r.byName[name] = &f
	return nil
}

// MustAdd is Add for static declarations where a duplicate is a
// programming error.
func (r *FieldRegistry) MustAdd(name string, f Field) *FieldRegistry {
	if err := r.Add(name, f); err != nil {
		panic(err)
	}
	return r
}

// Get returns the field registered under name.
func (r *FieldRegistry) Get(name string) (*Field, bool) {
	f, ok := r.byName[name]
	return f, ok
}

// Names returns field names in registration order.
func (r *FieldRegistry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Len returns the number of registered fields.
func (r *FieldRegistry) Len() int {
	return len(r.names)
}

// subset returns a copy of the registry restricted by a whitelist and a
// blacklist, preserving order. An empty whitelist admits every field.
func (r *FieldRegistry) subset(include, exclude []string) (*FieldRegistry, error) {
	included := func(name string) bool {
		if len(include) == 0 {
			return true
		}
		for _, n := range include {
			if n == name {
				return true
			}
		}
		return false
	}
	excluded := func(name string) bool {
		for _, n := range exclude {
			if n == name {
				return true
			}
		}
		return false
	}

	out := NewFieldRegistry()
	for _, name := range r.names {
		if !included(name) || excluded(name) {
			continue
		}
		if err := out.Add(name, *r.byName[name]); err != nil {
			return nil, err
		}
	}
	for _, name := range include {
		if _, ok := r.byName[name]; !ok {
			return nil, errors.Newf("field whitelist names unknown field %q", name)
		}
	}
	return out, nil
}
