package schema_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/okulov/accrete/schema"
)

func TestDefineImplicitFields(t *testing.T) {
	c := qt.New(t)

	s, err := schema.Define(schema.Definition{
		Name: "res.user",
		Fields: []*schema.Field{
			schema.String("username", 100, schema.Required()),
		},
	})
	c.Assert(err, qt.IsNil)

	names := fieldNames(s)
	c.Assert(names, qt.DeepEquals, []string{"id", "username", "created_at", "updated_at"})

	c.Assert(s.PKField, qt.Not(qt.IsNil))
	c.Assert(s.PKField.Name, qt.Equals, "id")
	c.Assert(s.PKField.Kind, qt.Equals, schema.KindInteger)
	c.Assert(s.FieldMap["created_at"].Kind, qt.Equals, schema.KindDateTime)
}

func TestDefineInheritanceOrder(t *testing.T) {
	c := qt.New(t)

	base, err := schema.Define(schema.Definition{
		Name: "test.base",
		Fields: []*schema.Field{
			schema.String("a", 50),
			schema.Integer("b"),
		},
	})
	c.Assert(err, qt.IsNil)

	derived, err := schema.Define(schema.Definition{
		Name: "test.derived",
		Fields: []*schema.Field{
			schema.Text("b"), // overrides the inherited integer, keeps its slot
			schema.Boolean("c"),
		},
		Parents: []*schema.Schema{base},
	})
	c.Assert(err, qt.IsNil)

	names := fieldNames(derived)
	c.Assert(names, qt.DeepEquals, []string{"id", "a", "b", "c", "created_at", "updated_at"})
	c.Assert(derived.FieldMap["b"].Kind, qt.Equals, schema.KindText)

	// The parent schema is untouched by the override.
	c.Assert(base.FieldMap["b"].Kind, qt.Equals, schema.KindInteger)
}

func TestDefineDisplayNames(t *testing.T) {
	c := qt.New(t)

	s, err := schema.Define(schema.Definition{
		Name: "test.display",
		Fields: []*schema.Field{
			schema.Boolean("is_active"),
			schema.String("email", 255, schema.DisplayName("E-Mail")),
		},
	})
	c.Assert(err, qt.IsNil)

	c.Assert(s.FieldMap["is_active"].DisplayName, qt.Equals, "Is Active")
	c.Assert(s.FieldMap["email"].DisplayName, qt.Equals, "E-Mail")
}

func TestDefineSelectorDefault(t *testing.T) {
	c := qt.New(t)

	options := []schema.Option{{Code: "x", Label: "X"}, {Code: "y", Label: "Y"}}

	_, err := schema.Define(schema.Definition{
		Name: "test.selector",
		Fields: []*schema.Field{
			schema.Selector("status", []schema.Option{{Code: "y", Label: "Y"}}, schema.Default("x")),
		},
	})
	var cfgErr *schema.ConfigurationError
	c.Assert(err, qt.ErrorAs, &cfgErr)
	c.Assert(cfgErr.Field, qt.Equals, "status")

	s, err := schema.Define(schema.Definition{
		Name: "test.selector",
		Fields: []*schema.Field{
			schema.Selector("status", options, schema.Default("x")),
		},
	})
	c.Assert(err, qt.IsNil)
	c.Assert(s.FieldMap["status"].Default, qt.Equals, "x")
}

func TestTableNaming(t *testing.T) {
	c := qt.New(t)

	dotted, err := schema.Define(schema.Definition{Name: "res.user"})
	c.Assert(err, qt.IsNil)
	c.Assert(dotted.Table, qt.Equals, "res_user")

	spaced, err := schema.Define(schema.Definition{Name: "  Res.Partner.Category  "})
	c.Assert(err, qt.IsNil)
	c.Assert(spaced.Table, qt.Equals, "res_partner_category")

	typed, err := schema.Define(schema.Definition{Type: "User"})
	c.Assert(err, qt.IsNil)
	c.Assert(typed.Table, qt.Equals, "User")

	_, err = schema.Define(schema.Definition{})
	var cfgErr *schema.ConfigurationError
	c.Assert(err, qt.ErrorAs, &cfgErr)
}

func TestDefineDoesNotAliasInputFields(t *testing.T) {
	c := qt.New(t)

	shared := schema.String("name", 50)

	first, err := schema.Define(schema.Definition{
		Name:   "test.first",
		Fields: []*schema.Field{shared},
	})
	c.Assert(err, qt.IsNil)

	second, err := schema.Define(schema.Definition{
		Name:   "test.second",
		Fields: []*schema.Field{shared},
	})
	c.Assert(err, qt.IsNil)

	c.Assert(first.FieldMap["name"], qt.Not(qt.Equals), second.FieldMap["name"])
	c.Assert(shared.DisplayName, qt.Equals, "")
}

func fieldNames(s *schema.Schema) []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}
