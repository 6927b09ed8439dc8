package core

import (
	"context"

	"github.com/okulov/accrete/dialect"
	"github.com/okulov/accrete/lock"
	"github.com/okulov/accrete/schema"
)

// Migrator converges live tables with their declared schemas. Migration is
// strictly additive: missing tables are created with only their primary
// key, missing columns are added in declaration order, and nothing present
// is ever dropped, renamed or altered. The whole operation is idempotent:
// convergence is re-derived from the live column set on every run, there is
// no stored migration ledger.
type Migrator struct {
	gw   Gateway
	lock lock.Locker
}

// NewMigrator creates a Migrator over the given gateway.
func NewMigrator(gw Gateway) *Migrator {
	return &Migrator{gw: gw}
}

// WithLock makes every Apply hold the given lock for the duration of each
// table's convergence. Without one, two concurrent runs against the same
// table can race on add-column.
func (m *Migrator) WithLock(l lock.Locker) *Migrator {
	m.lock = l
	return m
}

// Apply converges each schema in turn. Statements are issued strictly
// sequentially; the first failure surfaces immediately and leaves the table
// partially migrated. Re-running is the intended recovery: columns already
// added are skipped, only the failing one is attempted again.
func (m *Migrator) Apply(ctx context.Context, schemas ...*schema.Schema) error {
	for _, s := range schemas {
		if err := m.apply(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func (m *Migrator) apply(ctx context.Context, s *schema.Schema) error {
	if m.lock != nil {
		release, err := m.lock.Acquire(ctx, "accrete:migrate:"+s.Table)
		if err != nil {
			return err
		}
		defer release()
	}

	d := m.gw.Dialect()

	pk := schema.IDColumn
	if s.PKField != nil {
		pk = s.PKField.Name
	}

	// Phase 1: ensure the table exists, holding only the primary key.
	// Creation is conditional, so re-issuing is always safe and the column
	// query below is always well-defined.
	stmt, args := d.EnsureTableSQL(s.Table, pk)
	if _, err := m.gw.ExecContext(ctx, stmt, args...); err != nil {
		return &ExecutionError{Table: s.Table, Statement: stmt, Err: err}
	}

	// Phase 2: add every declared column the live set is missing.
	existing, err := m.Columns(ctx, s.Table)
	if err != nil {
		return err
	}
	for _, f := range s.Fields {
		if f.PrimaryKey {
			continue
		}
		if existing[f.Name] {
			continue
		}
		stmt, args, err := d.AddColumnSQL(s.Table, f)
		if err != nil {
			return err
		}
		if _, err := m.gw.ExecContext(ctx, stmt, args...); err != nil {
			return &ExecutionError{Table: s.Table, Statement: stmt, Err: err}
		}
	}

	return m.ensureIndexes(ctx, s)
}

// Columns returns the live column set for a table as reported by the
// database catalog. A table that does not exist yields an empty set, not an
// error. The set is re-read on every run, never cached.
func (m *Migrator) Columns(ctx context.Context, table string) (map[string]bool, error) {
	d := m.gw.Dialect()
	stmt, args := d.ColumnsSQL(table)
	rows, err := m.gw.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, &ExecutionError{Table: table, Statement: stmt, Err: err}
	}
	defer rows.Close()

	names, err := d.ParseColumns(rows)
	if err != nil {
		return nil, &ExecutionError{Table: table, Statement: stmt, Err: err}
	}
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return set, nil
}

// ensureIndexes creates the missing secondary indexes: one per indexed
// field, plus unique indexes where the dialect cannot add an inline UNIQUE
// constraint through ALTER TABLE.
func (m *Migrator) ensureIndexes(ctx context.Context, s *schema.Schema) error {
	d := m.gw.Dialect()
	for _, f := range s.Fields {
		if f.PrimaryKey {
			continue
		}
		unique := f.Unique && d.UniqueViaIndex()
		if !f.Indexed && !unique {
			continue
		}
		index := dialect.IndexName(s.Table, f.Name)
		probe, probeArgs := d.HasIndexSQL(s.Table, index)
		count, err := m.count(ctx, s.Table, probe, probeArgs)
		if err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		stmt, args := d.CreateIndexSQL(s.Table, index, f.Name, unique)
		if _, err := m.gw.ExecContext(ctx, stmt, args...); err != nil {
			return &ExecutionError{Table: s.Table, Statement: stmt, Err: err}
		}
	}
	return nil
}

func (m *Migrator) count(ctx context.Context, table string, stmt string, args []any) (int, error) {
	rows, err := m.gw.QueryContext(ctx, stmt, args...)
	if err != nil {
		return 0, &ExecutionError{Table: table, Statement: stmt, Err: err}
	}
	defer rows.Close()

	var n int
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return 0, &ExecutionError{Table: table, Statement: stmt, Err: err}
		}
	}
	return n, rows.Err()
}
