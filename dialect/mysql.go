package dialect

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/okulov/accrete/schema"
)

// MySQL dialect implementation
type mysql struct{}

func init() {
	Register("mysql", &mysql{})
}

func (d *mysql) DataTypeOf(f *schema.Field) string {
	switch f.Kind {
	case schema.KindInteger:
		return "int"
	case schema.KindString:
		size := f.Size
		if size <= 0 {
			size = 255
		}
		return fmt.Sprintf("varchar(%d)", size)
	case schema.KindBoolean:
		return "boolean"
	case schema.KindDateTime:
		return "datetime"
	case schema.KindFloat:
		return "double"
	case schema.KindText:
		return "text"
	case schema.KindSelector:
		return "varchar(50)"
	}
	panic(fmt.Sprintf("invalid field kind %s", f.Kind))
}

func (d *mysql) Quote(name string) string {
	return fmt.Sprintf("`%s`", name)
}

func (d *mysql) EnsureTableSQL(table, pk string) (string, []any) {
	sql := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s int AUTO_INCREMENT PRIMARY KEY)",
		d.Quote(table), d.Quote(pk))
	return sql, nil
}

func (d *mysql) ColumnsSQL(table string) (string, []any) {
	return "SELECT column_name FROM information_schema.columns WHERE table_schema = DATABASE() AND table_name = ?", []any{table}
}

func (d *mysql) ParseColumns(rows *sql.Rows) ([]string, error) {
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

func (d *mysql) ColumnSQL(f *schema.Field) (string, error) {
	return columnDef(d, f)
}

func (d *mysql) AddColumnSQL(table string, f *schema.Field) (string, []any, error) {
	col, err := d.ColumnSQL(f)
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", d.Quote(table), col), nil, nil
}

func (d *mysql) HasIndexSQL(table, index string) (string, []any) {
	return "SELECT count(*) FROM information_schema.statistics WHERE table_schema = DATABASE() AND table_name = ? AND index_name = ?", []any{table, index}
}

func (d *mysql) CreateIndexSQL(table, index, column string, unique bool) (string, []any) {
	kind := "INDEX"
	if unique {
		kind = "UNIQUE INDEX"
	}
	sql := fmt.Sprintf("CREATE %s %s ON %s (%s)",
		kind, d.Quote(index), d.Quote(table), d.Quote(column))
	return sql, nil
}

func (d *mysql) UniqueViaIndex() bool {
	return false
}

func (d *mysql) InsertSQL(table string, columns []string) (string, []any) {
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
