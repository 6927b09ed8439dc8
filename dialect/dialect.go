package dialect

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/okulov/accrete/schema"
)

// Dialect is the interface for database-specific DDL generation. Each
// supported database (PostgreSQL, MySQL, SQLite) implements it and registers
// itself under its driver name.
type Dialect interface {
	// DataTypeOf returns the database-specific column type for a field
	DataTypeOf(f *schema.Field) string
	// Quote wraps a name (table or column) in database-specific quotes
	Quote(name string) string
	// EnsureTableSQL generates the create-if-absent statement holding only
	// the primary-key column
	EnsureTableSQL(table, pk string) (string, []any)
	// ColumnsSQL generates the catalog query listing a table's columns
	ColumnsSQL(table string) (string, []any)
	// ParseColumns reads the ColumnsSQL result set into column names
	ParseColumns(rows *sql.Rows) ([]string, error)
	// ColumnSQL compiles a field into its column definition fragment
	ColumnSQL(f *schema.Field) (string, error)
	// AddColumnSQL generates the statement adding one missing column
	AddColumnSQL(table string, f *schema.Field) (string, []any, error)
	// HasIndexSQL generates the catalog query counting a named index
	HasIndexSQL(table, index string) (string, []any)
	// CreateIndexSQL generates the statement creating a secondary index
	CreateIndexSQL(table, index, column string, unique bool) (string, []any)
	// UniqueViaIndex reports whether the dialect enforces column
	// uniqueness with a separate unique index because its ALTER TABLE
	// cannot add an inline UNIQUE constraint
	UniqueViaIndex() bool
	// InsertSQL generates the INSERT statement for the given columns
	InsertSQL(table string, columns []string) (string, []any)
}

var dialects = make(map[string]Dialect)

// Register registers a dialect for a given driver name
func Register(name string, d Dialect) {
	dialects[name] = d
}

// Get retrieves a registered dialect by driver name
func Get(name string) (Dialect, bool) {
	d, ok := dialects[name]
	return d, ok
}

// columnDef renders the dialect-independent part of a column definition:
// base type, constraints and defaults. Selector fields become their varchar
// base type plus a membership CHECK over the lowercased option codes, which
// keeps the enumerated values honest without a lookup table. The two
// implicit timestamp fields get a current-time default.
func columnDef(d Dialect, f *schema.Field) (string, error) {
	if f.Kind == schema.KindSelector {
		if len(f.Options) == 0 {
			return "", &schema.ConfigurationError{
				Field:  f.Name,
				Reason: "selector has no options, its check constraint would be unsatisfiable",
			}
		}
		codes := make([]string, len(f.Options))
		for i, opt := range f.Options {
			codes[i] = quoteLiteral(strings.ToLower(opt.Code))
		}
		def, _ := f.Default.(string)
		if def == "" {
			def = f.Options[0].Code
		}
		return fmt.Sprintf("%s %s DEFAULT %s CHECK (%s IN (%s))",
			d.Quote(f.Name),
			d.DataTypeOf(f),
			quoteLiteral(strings.ToLower(def)),
			d.Quote(f.Name),
			strings.Join(codes, ", "),
		), nil
	}

	col := fmt.Sprintf("%s %s", d.Quote(f.Name), d.DataTypeOf(f))
	if f.Unique {
		col += " UNIQUE"
	}
	if f.Required {
		col += " NOT NULL"
	}
	if f.Default != nil {
		col += " DEFAULT " + literal(f.Default)
	}
	if f.Kind == schema.KindDateTime &&
		(f.Name == schema.CreatedAtColumn || f.Name == schema.UpdatedAtColumn) {
		col += " DEFAULT CURRENT_TIMESTAMP"
	}
	return col, nil
}

// literal renders a default value as a SQL literal.
func literal(v any) string {
	switch val := v.(type) {
	case string:
		return quoteLiteral(val)
	case bool:
		if val {
			return "TRUE"
		}
		return "FALSE"
	default:
		return fmt.Sprintf("%v", val)
	}
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// IndexName is the convention for migrator-managed secondary indexes.
func IndexName(table, column string) string {
	return fmt.Sprintf("idx_%s_%s", table, column)
}
