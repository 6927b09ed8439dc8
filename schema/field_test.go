package schema_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/okulov/accrete/schema"
)

func TestFieldConstructors(t *testing.T) {
	c := qt.New(t)

	f := schema.String("username", 100, schema.Required(), schema.Unique(), schema.Indexed())
	c.Assert(f.Kind, qt.Equals, schema.KindString)
	c.Assert(f.Size, qt.Equals, 100)
	c.Assert(f.Required, qt.IsTrue)
	c.Assert(f.Unique, qt.IsTrue)
	c.Assert(f.Indexed, qt.IsTrue)
	c.Assert(f.PrimaryKey, qt.IsFalse)

	b := schema.Boolean("is_active", schema.Default(true))
	c.Assert(b.Kind, qt.Equals, schema.KindBoolean)
	c.Assert(b.Default, qt.Equals, true)

	pk := schema.Integer("id", schema.PrimaryKey())
	c.Assert(pk.PrimaryKey, qt.IsTrue)
}

func TestSelectorValidate(t *testing.T) {
	c := qt.New(t)

	f := schema.Selector("status", []schema.Option{
		{Code: "pending", Label: "Pending"},
		{Code: "done", Label: "Done"},
	})

	c.Assert(f.Validate("pending"), qt.IsNil)
	c.Assert(f.Validate("done"), qt.IsNil)
	c.Assert(f.Validate("bogus"), qt.ErrorMatches, `.*not one of the declared options`)
	c.Assert(f.Validate(42), qt.ErrorMatches, `.*must be a string.*`)

	// Non-selector fields accept anything.
	c.Assert(schema.Integer("n").Validate("whatever"), qt.IsNil)
}
