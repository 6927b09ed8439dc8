package dialect_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/okulov/accrete/dialect"
	"github.com/okulov/accrete/schema"
)

func mustDialect(t *testing.T, name string) dialect.Dialect {
	t.Helper()
	d, ok := dialect.Get(name)
	if !ok {
		t.Fatalf("%s dialect not registered", name)
	}
	return d
}

func TestRegisteredDialects(t *testing.T) {
	for _, name := range []string{"postgres", "pgx", "mysql", "sqlite3"} {
		if _, ok := dialect.Get(name); !ok {
			t.Errorf("dialect %s should be registered", name)
		}
	}
}

func TestPostgresColumnSQL(t *testing.T) {
	d := mustDialect(t, "postgres")

	sql, err := d.ColumnSQL(schema.String("username", 100, schema.Required()))
	if err != nil {
		t.Fatalf("ColumnSQL failed: %v", err)
	}
	if sql != `"username" varchar(100) NOT NULL` {
		t.Errorf("unexpected column SQL: %s", sql)
	}

	sql, _ = d.ColumnSQL(schema.String("email", 255, schema.Unique()))
	if sql != `"email" varchar(255) UNIQUE` {
		t.Errorf("unexpected column SQL: %s", sql)
	}

	sql, _ = d.ColumnSQL(schema.Boolean("is_active", schema.Default(true)))
	if sql != `"is_active" boolean DEFAULT TRUE` {
		t.Errorf("unexpected column SQL: %s", sql)
	}

	sql, _ = d.ColumnSQL(schema.Integer("age", schema.Default(18)))
	if !strings.Contains(sql, "DEFAULT 18") {
		t.Errorf("expected DEFAULT 18, got: %s", sql)
	}
}

func TestPostgresTimestampDefaults(t *testing.T) {
	d := mustDialect(t, "postgres")

	for _, name := range []string{"created_at", "updated_at"} {
		sql, err := d.ColumnSQL(schema.DateTime(name))
		if err != nil {
			t.Fatalf("ColumnSQL failed: %v", err)
		}
		if !strings.Contains(sql, "DEFAULT CURRENT_TIMESTAMP") {
			t.Errorf("%s should default to the current time, got: %s", name, sql)
		}
	}

	// Only the implicit bookkeeping timestamps get the automatic default.
	sql, _ := d.ColumnSQL(schema.DateTime("published_at"))
	if strings.Contains(sql, "CURRENT_TIMESTAMP") {
		t.Errorf("plain timestamp should not get an automatic default: %s", sql)
	}
}

func TestSelectorColumnSQL(t *testing.T) {
	d := mustDialect(t, "postgres")

	f := schema.Selector("status", []schema.Option{
		{Code: "Pending", Label: "Pending"},
		{Code: "done", Label: "Done"},
	})
	sql, err := d.ColumnSQL(f)
	if err != nil {
		t.Fatalf("ColumnSQL failed: %v", err)
	}
	if sql != `"status" varchar(50) DEFAULT 'pending' CHECK ("status" IN ('pending', 'done'))` {
		t.Errorf("unexpected selector SQL: %s", sql)
	}

	withDefault := schema.Selector("status", []schema.Option{
		{Code: "pending", Label: "Pending"},
		{Code: "done", Label: "Done"},
	}, schema.Default("done"))
	sql, _ = d.ColumnSQL(withDefault)
	if !strings.Contains(sql, "DEFAULT 'done'") {
		t.Errorf("declared default should win: %s", sql)
	}
}

func TestSelectorWithoutOptions(t *testing.T) {
	d := mustDialect(t, "postgres")

	_, err := d.ColumnSQL(schema.Selector("status", nil))
	var cfgErr *schema.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if cfgErr.Field != "status" {
		t.Errorf("error should name the field, got %q", cfgErr.Field)
	}
}

func TestEnsureTableSQL(t *testing.T) {
	tests := []struct {
		driver string
		want   string
	}{
		{"postgres", `CREATE TABLE IF NOT EXISTS "res_user" ("id" SERIAL PRIMARY KEY)`},
		{"mysql", "CREATE TABLE IF NOT EXISTS `res_user` (`id` int AUTO_INCREMENT PRIMARY KEY)"},
		{"sqlite3", "CREATE TABLE IF NOT EXISTS `res_user` (`id` integer PRIMARY KEY AUTOINCREMENT)"},
	}
	for _, tt := range tests {
		d := mustDialect(t, tt.driver)
		sql, _ := d.EnsureTableSQL("res_user", "id")
		if sql != tt.want {
			t.Errorf("%s: got %q, want %q", tt.driver, sql, tt.want)
		}
	}
}

func TestAddColumnSQL(t *testing.T) {
	d := mustDialect(t, "postgres")

	sql, _, err := d.AddColumnSQL("res_user", schema.String("username", 100, schema.Required()))
	if err != nil {
		t.Fatalf("AddColumnSQL failed: %v", err)
	}
	want := `ALTER TABLE "res_user" ADD COLUMN "username" varchar(100) NOT NULL`
	if sql != want {
		t.Errorf("got %q, want %q", sql, want)
	}
}

func TestSQLiteAlterRestrictions(t *testing.T) {
	d := mustDialect(t, "sqlite3")

	// SQLite cannot add a UNIQUE column through ALTER TABLE; uniqueness
	// moves to a unique index.
	if !d.UniqueViaIndex() {
		t.Fatal("sqlite should enforce uniqueness via index")
	}
	sql, _ := d.ColumnSQL(schema.String("email", 255, schema.Unique()))
	if strings.Contains(sql, "UNIQUE") {
		t.Errorf("sqlite column SQL must not contain inline UNIQUE: %s", sql)
	}

	// NOT NULL is only addable with a non-null default.
	sql, _ = d.ColumnSQL(schema.String("username", 100, schema.Required()))
	if strings.Contains(sql, "NOT NULL") {
		t.Errorf("sqlite must drop NOT NULL without a default: %s", sql)
	}
	sql, _ = d.ColumnSQL(schema.String("role", 50, schema.Required(), schema.Default("user")))
	if !strings.Contains(sql, "NOT NULL DEFAULT 'user'") {
		t.Errorf("sqlite should keep NOT NULL alongside a default: %s", sql)
	}

	// Non-constant defaults are rejected by sqlite's ALTER TABLE.
	sql, _ = d.ColumnSQL(schema.DateTime("created_at"))
	if strings.Contains(sql, "CURRENT_TIMESTAMP") {
		t.Errorf("sqlite must not emit CURRENT_TIMESTAMP in added columns: %s", sql)
	}
}

func TestMySQLColumnSQL(t *testing.T) {
	d := mustDialect(t, "mysql")

	sql, err := d.ColumnSQL(schema.String("username", 100, schema.Required()))
	if err != nil {
		t.Fatalf("ColumnSQL failed: %v", err)
	}
	if sql != "`username` varchar(100) NOT NULL" {
		t.Errorf("unexpected column SQL: %s", sql)
	}

	sql, _ = d.ColumnSQL(schema.Float("score"))
	if sql != "`score` double" {
		t.Errorf("unexpected column SQL: %s", sql)
	}
}

func TestInsertSQLPlaceholders(t *testing.T) {
	pg := mustDialect(t, "postgres")
	sql, _ := pg.InsertSQL("res_user", []string{"username", "email"})
	if sql != `INSERT INTO "res_user" ("username", "email") VALUES ($1, $2)` {
		t.Errorf("unexpected postgres insert SQL: %s", sql)
	}

	my := mustDialect(t, "mysql")
	sql, _ = my.InsertSQL("res_user", []string{"username", "email"})
	if sql != "INSERT INTO `res_user` (`username`, `email`) VALUES (?, ?)" {
		t.Errorf("unexpected mysql insert SQL: %s", sql)
	}
}

func TestCreateIndexSQL(t *testing.T) {
	d := mustDialect(t, "postgres")

	sql, _ := d.CreateIndexSQL("res_user", dialect.IndexName("res_user", "username"), "username", false)
	if sql != `CREATE INDEX "idx_res_user_username" ON "res_user" ("username")` {
		t.Errorf("unexpected index SQL: %s", sql)
	}

	sql, _ = d.CreateIndexSQL("res_user", "idx_res_user_email", "email", true)
	if !strings.HasPrefix(sql, "CREATE UNIQUE INDEX") {
		t.Errorf("unique index expected: %s", sql)
	}
}
