package dialect

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/okulov/accrete/schema"
)

// PostgreSQL dialect implementation
type postgres struct{}

func init() {
	// lib/pq registers as "postgres", the pgx stdlib adapter as "pgx";
	// both speak the same DDL.
	Register("postgres", &postgres{})
	Register("pgx", &postgres{})
}

func (d *postgres) DataTypeOf(f *schema.Field) string {
	switch f.Kind {
	case schema.KindInteger:
		return "integer"
	case schema.KindString:
		size := f.Size
		if size <= 0 {
			size = 255
		}
		return fmt.Sprintf("varchar(%d)", size)
	case schema.KindBoolean:
		return "boolean"
	case schema.KindDateTime:
		return "timestamp"
	case schema.KindFloat:
		return "real"
	case schema.KindText:
		return "text"
	case schema.KindSelector:
		return "varchar(50)"
	}
	panic(fmt.Sprintf("invalid field kind %s", f.Kind))
}

func (d *postgres) Quote(name string) string {
	// PostgreSQL uses double quotes for identifiers
	return fmt.Sprintf(`"%s"`, name)
}

func (d *postgres) EnsureTableSQL(table, pk string) (string, []any) {
	sql := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s SERIAL PRIMARY KEY)",
		d.Quote(table), d.Quote(pk))
	return sql, nil
}

func (d *postgres) ColumnsSQL(table string) (string, []any) {
	return "SELECT column_name FROM information_schema.columns WHERE table_schema = 'public' AND table_name = $1", []any{table}
}

func (d *postgres) ParseColumns(rows *sql.Rows) ([]string, error) {
	var columns []string
	for rows.Next() {
		var colName string
		if err := rows.Scan(&colName); err != nil {
			return nil, err
		}
		columns = append(columns, colName)
	}
	return columns, rows.Err()
}

func (d *postgres) ColumnSQL(f *schema.Field) (string, error) {
	return columnDef(d, f)
}

func (d *postgres) AddColumnSQL(table string, f *schema.Field) (string, []any, error) {
	col, err := d.ColumnSQL(f)
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", d.Quote(table), col), nil, nil
}

func (d *postgres) HasIndexSQL(table, index string) (string, []any) {
	return "SELECT count(*) FROM pg_indexes WHERE schemaname = 'public' AND tablename = $1 AND indexname = $2", []any{table, index}
}

func (d *postgres) CreateIndexSQL(table, index, column string, unique bool) (string, []any) {
	kind := "INDEX"
	if unique {
		kind = "UNIQUE INDEX"
	}
	sql := fmt.Sprintf("CREATE %s %s ON %s (%s)",
		kind, d.Quote(index), d.Quote(table), d.Quote(column))
	return sql, nil
}

func (d *postgres) UniqueViaIndex() bool {
	return false
}

func (d *postgres) InsertSQL(table string, columns []string) (string, []any) {
	quoted := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	// PostgreSQL uses $1, $2, $3... for placeholders
	for i, c := range columns {
		quoted[i] = d.Quote(c)
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		d.Quote(table),
		strings.Join(quoted, ", "),
		strings.Join(placeholders, ", "),
	)
	return sql, nil
}
