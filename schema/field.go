package schema

import (
	"fmt"
)

// Kind is the logical column type of a field. The set is closed: dialects
// switch exhaustively on it when compiling column definitions.
type Kind int

const (
	KindInteger Kind = iota
	KindString
	KindBoolean
	KindDateTime
	KindFloat
	KindText
	KindSelector
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindString:
		return "string"
	case KindBoolean:
		return "boolean"
	case KindDateTime:
		return "datetime"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	case KindSelector:
		return "selector"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Option is one allowed value of a selector field: the code stored in the
// column and a human-readable label.
type Option struct {
	Code  string
	Label string
}

// Field describes one column: its logical kind and the constraints it
// carries. Fields are built by the constructors below and treated as
// read-only once a schema has been defined from them.
type Field struct {
	Name        string // attribute name, doubles as the column name
	DisplayName string // human label; derived from Name by Define when empty
	Kind        Kind
	Size        int      // varchar size, KindString only
	Options     []Option // KindSelector only, ordered
	Default     any
	Required    bool
	Unique      bool
	Indexed     bool
	PrimaryKey  bool
}

// Attr is a constraint applied to a field at construction time.
type Attr func(*Field)

// Required marks the field NOT NULL.
func Required() Attr { return func(f *Field) { f.Required = true } }

// Unique adds a uniqueness constraint to the column.
func Unique() Attr { return func(f *Field) { f.Unique = true } }

// Indexed requests a secondary index on the column.
func Indexed() Attr { return func(f *Field) { f.Indexed = true } }

// PrimaryKey marks the field as the table's primary key.
func PrimaryKey() Attr { return func(f *Field) { f.PrimaryKey = true } }

// Default sets the value used when none is supplied, both on records and as
// the column default.
func Default(v any) Attr { return func(f *Field) { f.Default = v } }

// DisplayName overrides the label derived from the attribute name.
func DisplayName(name string) Attr { return func(f *Field) { f.DisplayName = name } }

func newField(name string, kind Kind, attrs []Attr) *Field {
	f := &Field{Name: name, Kind: kind}
	for _, attr := range attrs {
		attr(f)
	}
	return f
}

// Integer declares an integer column.
func Integer(name string, attrs ...Attr) *Field {
	return newField(name, KindInteger, attrs)
}

// String declares a varchar column of the given size.
func String(name string, size int, attrs ...Attr) *Field {
	f := newField(name, KindString, attrs)
	f.Size = size
	return f
}

// Boolean declares a boolean column.
func Boolean(name string, attrs ...Attr) *Field {
	return newField(name, KindBoolean, attrs)
}

// DateTime declares a timestamp column.
func DateTime(name string, attrs ...Attr) *Field {
	return newField(name, KindDateTime, attrs)
}

// Float declares a floating-point column.
func Float(name string, attrs ...Attr) *Field {
	return newField(name, KindFloat, attrs)
}

// Text declares an unbounded text column.
func Text(name string, attrs ...Attr) *Field {
	return newField(name, KindText, attrs)
}

// Selector declares a column restricted to a fixed set of option codes,
// enforced with a CHECK constraint. The default, when unset, is the first
// option's code.
func Selector(name string, options []Option, attrs ...Attr) *Field {
	f := newField(name, KindSelector, attrs)
	f.Options = options
	return f
}

// Validate checks a value against a selector field's option codes. It is a
// no-op for every other kind.
func (f *Field) Validate(value any) error {
	if f.Kind != KindSelector {
		return nil
	}
	code, ok := value.(string)
	if !ok {
		return fmt.Errorf("field %s: selector value must be a string, got %T", f.Name, value)
	}
	for _, opt := range f.Options {
		if opt.Code == code {
			return nil
		}
	}
	return fmt.Errorf("field %s: value %q is not one of the declared options", f.Name, code)
}

// clone returns an independent copy so that schemas sharing a parent never
// alias field state.
func (f *Field) clone() *Field {
	c := *f
	if f.Options != nil {
		c.Options = make([]Option, len(f.Options))
		copy(c.Options, f.Options)
	}
	return &c
}

func (f *Field) String() string {
	return fmt.Sprintf("Field(kind=%s, name=%s)", f.Kind, f.Name)
}

// ConfigurationError reports an invalid entity or field declaration. It is
// raised while a schema is being defined, before any statement reaches the
// database.
type ConfigurationError struct {
	Entity string
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	switch {
	case e.Entity != "" && e.Field != "":
		return fmt.Sprintf("schema %s: field %s: %s", e.Entity, e.Field, e.Reason)
	case e.Field != "":
		return fmt.Sprintf("field %s: %s", e.Field, e.Reason)
	default:
		return fmt.Sprintf("schema %s: %s", e.Entity, e.Reason)
	}
}
