// Package schema declares data entities as typed field descriptors and
// resolves them into the immutable table metadata the migrator converges on.
package schema

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Names of the fields every entity carries implicitly.
const (
	IDColumn        = "id"
	CreatedAtColumn = "created_at"
	UpdatedAtColumn = "updated_at"
)

// Definition is the input to Define: the entity's logical name, its declared
// fields in order, and any parent schemas to inherit fields from.
type Definition struct {
	// Name is the dotted logical name, e.g. "res.user". It is lowercased,
	// trimmed and dots become underscores to form the table name.
	Name string
	// Type is the entity's type name, used verbatim as the table name when
	// Name is empty.
	Type string
	// Fields are the entity's own field descriptors, in declaration order.
	Fields []*Field
	// Parents are inherited from first to last; later parents and own
	// fields override same-named earlier ones, keeping the original slot.
	Parents []*Schema
}

// Schema is the resolved metadata for one entity: its table name and the
// full ordered field set, inherited fields first. It is built exactly once
// per entity definition and never mutated afterward, so it is safe to share
// across goroutines and across every record of the entity.
type Schema struct {
	Table    string
	Fields   []*Field // declaration order: id, inherited, own, timestamps
	FieldMap map[string]*Field
	PKField  *Field
}

var titleCaser = cases.Title(language.English)

// Define resolves an entity definition into its Schema. It is pure: no
// database access happens here. Field merging follows base-to-derived
// order, an override keeps the overridden field's position. Every entity
// receives an integer primary key `id` plus `created_at`/`updated_at`
// timestamps.
func Define(def Definition) (*Schema, error) {
	table, err := tableName(def)
	if err != nil {
		return nil, err
	}

	var fields []*Field
	index := make(map[string]int)
	put := func(f *Field) {
		if i, ok := index[f.Name]; ok {
			fields[i] = f
			return
		}
		index[f.Name] = len(fields)
		fields = append(fields, f)
	}

	put(Integer(IDColumn, PrimaryKey(), DisplayName(IDColumn)))

	for _, parent := range def.Parents {
		for _, f := range parent.Fields {
			if implicitField(f.Name) {
				continue
			}
			put(f.clone())
		}
	}

	for _, f := range def.Fields {
		if f.Name == "" {
			return nil, &ConfigurationError{Entity: table, Reason: "field declared without a name"}
		}
		put(f.clone())
	}

	for _, name := range []string{CreatedAtColumn, UpdatedAtColumn} {
		if _, ok := index[name]; !ok {
			put(DateTime(name, DisplayName(name)))
		}
	}

	s := &Schema{
		Table:    table,
		Fields:   fields,
		FieldMap: make(map[string]*Field, len(fields)),
	}
	for _, f := range fields {
		if f.DisplayName == "" {
			f.DisplayName = deriveDisplayName(f.Name)
		}
		if f.Kind == KindSelector && f.Default != nil {
			if err := f.Validate(f.Default); err != nil {
				return nil, &ConfigurationError{
					Entity: table,
					Field:  f.Name,
					Reason: "default value must be one of the declared options",
				}
			}
		}
		s.FieldMap[f.Name] = f
		if f.PrimaryKey {
			s.PKField = f
		}
	}
	return s, nil
}

// MustDefine is Define for schemas declared at package level, where a bad
// declaration is a programming error.
func MustDefine(def Definition) *Schema {
	s, err := Define(def)
	if err != nil {
		panic(err)
	}
	return s
}

func implicitField(name string) bool {
	return name == IDColumn || name == CreatedAtColumn || name == UpdatedAtColumn
}

// tableName applies the dotted-name rule: "res.user" becomes "res_user",
// while an entity without a logical name stores under its type name
// verbatim.
func tableName(def Definition) (string, error) {
	if name := strings.TrimSpace(def.Name); name != "" {
		return strings.ReplaceAll(strings.ToLower(name), ".", "_"), nil
	}
	if def.Type != "" {
		return def.Type, nil
	}
	return "", &ConfigurationError{Entity: "(unnamed)", Reason: "entity needs a logical name or a type name"}
}

// deriveDisplayName turns an attribute name into a human label:
// "is_active" becomes "Is Active".
func deriveDisplayName(name string) string {
	return titleCaser.String(strings.ReplaceAll(name, "_", " "))
}
