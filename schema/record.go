package schema

import (
	"fmt"
	"strings"
)

// Record is one row of an entity: a value per declared field. Fields not
// supplied at construction take their declared default, or nil. A record
// has no identity beyond its id value and holds a reference to its entity's
// shared Schema, never a copy.
type Record struct {
	Schema *Schema
	values map[string]any
}

// NewRecord builds a record from the supplied values. Keys that are not
// declared fields of the schema are ignored.
func NewRecord(s *Schema, values map[string]any) *Record {
	r := &Record{
		Schema: s,
		values: make(map[string]any, len(s.Fields)),
	}
	for _, f := range s.Fields {
		if v, ok := values[f.Name]; ok {
			r.values[f.Name] = v
			continue
		}
		r.values[f.Name] = f.Default
	}
	return r
}

// Get returns the value of a declared field, nil when the field is unknown.
func (r *Record) Get(name string) any {
	return r.values[name]
}

// Set assigns a field value. Unknown fields are rejected, selector fields
// are checked against their option codes.
func (r *Record) Set(name string, value any) error {
	f, ok := r.Schema.FieldMap[name]
	if !ok {
		return fmt.Errorf("table %s has no field %s", r.Schema.Table, name)
	}
	if value != nil {
		if err := f.Validate(value); err != nil {
			return err
		}
	}
	r.values[name] = value
	return nil
}

func (r *Record) String() string {
	parts := make([]string, 0, len(r.Schema.Fields))
	for _, f := range r.Schema.Fields {
		parts = append(parts, fmt.Sprintf("%s=%v", f.Name, r.values[f.Name]))
	}
	return fmt.Sprintf("%s(%s)", r.Schema.Table, strings.Join(parts, ", "))
}
