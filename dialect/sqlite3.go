package dialect

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/okulov/accrete/schema"
)

// SQLite dialect implementation
type sqlite3 struct{}

func init() {
	Register("sqlite3", &sqlite3{})
}

func (d *sqlite3) DataTypeOf(f *schema.Field) string {
	// SQLite ignores varchar sizes, everything textual maps to text affinity.
	switch f.Kind {
	case schema.KindInteger:
		return "integer"
	case schema.KindString, schema.KindText, schema.KindSelector:
		return "text"
	case schema.KindBoolean:
		return "boolean"
	case schema.KindDateTime:
		return "datetime"
	case schema.KindFloat:
		return "real"
	}
	panic(fmt.Sprintf("invalid field kind %s", f.Kind))
}

func (d *sqlite3) Quote(name string) string {
	return fmt.Sprintf("`%s`", name)
}

func (d *sqlite3) EnsureTableSQL(table, pk string) (string, []any) {
	sql := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s integer PRIMARY KEY AUTOINCREMENT)",
		d.Quote(table), d.Quote(pk))
	return sql, nil
}

func (d *sqlite3) ColumnsSQL(table string) (string, []any) {
	return fmt.Sprintf("PRAGMA table_info(%s)", d.Quote(table)), nil
}

func (d *sqlite3) ParseColumns(rows *sql.Rows) ([]string, error) {
	var columns []string
	for rows.Next() {
		var cid int
		var name string
		var typ string
		var notnull int
		var dfltValue any
		var pk int
		if err := rows.Scan(&cid, &name, &typ, &notnull, &dfltValue, &pk); err != nil {
			return nil, err
		}
		columns = append(columns, name)
	}
	return columns, rows.Err()
}

// ColumnSQL deviates from the shared compiler because SQLite's ALTER TABLE
// ADD COLUMN rejects inline UNIQUE constraints, NOT NULL without a non-null
// default, and non-constant defaults like CURRENT_TIMESTAMP. Uniqueness is
// enforced through a unique index instead (see UniqueViaIndex), the other
// constraints are dropped rather than failing every migration.
func (d *sqlite3) ColumnSQL(f *schema.Field) (string, error) {
	if f.Kind == schema.KindSelector {
		return columnDef(d, f)
	}
	col := fmt.Sprintf("%s %s", d.Quote(f.Name), d.DataTypeOf(f))
	if f.Required && f.Default != nil {
		col += " NOT NULL"
	}
	if f.Default != nil {
		col += " DEFAULT " + literal(f.Default)
	}
	return col, nil
}

func (d *sqlite3) AddColumnSQL(table string, f *schema.Field) (string, []any, error) {
	col, err := d.ColumnSQL(f)
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", d.Quote(table), col), nil, nil
}

func (d *sqlite3) HasIndexSQL(table, index string) (string, []any) {
	return "SELECT count(*) FROM sqlite_master WHERE type = 'index' AND tbl_name = ? AND name = ?", []any{table, index}
}

func (d *sqlite3) CreateIndexSQL(table, index, column string, unique bool) (string, []any) {
	kind := "INDEX"
	if unique {
		kind = "UNIQUE INDEX"
	}
	sql := fmt.Sprintf("CREATE %s IF NOT EXISTS %s ON %s (%s)",
		kind, d.Quote(index), d.Quote(table), d.Quote(column))
	return sql, nil
}

func (d *sqlite3) UniqueViaIndex() bool {
	return true
}

func (d *sqlite3) InsertSQL(table string, columns []string) (string, []any) {
	quoted := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = d.Quote(c)
		placeholders[i] = "?"
	}
	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		d.Quote(table),
		strings.Join(quoted, ", "),
		strings.Join(placeholders, ", "),
	)
	return sql, nil
}
