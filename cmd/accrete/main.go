package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/okulov/accrete"
	"github.com/okulov/accrete/schema"
)

// User is the demo entity: a flat user table under the logical name
// "res.user", stored as res_user.
var userSchema = schema.MustDefine(schema.Definition{
	Name: "res.user",
	Fields: []*schema.Field{
		schema.String("username", 100, schema.Required(), schema.Indexed()),
		schema.String("email", 255, schema.Unique(), schema.Indexed()),
		schema.Boolean("is_active", schema.Default(true)),
		schema.Selector("status", []schema.Option{
			{Code: "pending", Label: "Pending"},
		}),
	},
})

func main() {
	root := &cobra.Command{
		Use:   "accrete",
		Short: "Grow database schemas from declared entities",
	}
	root.AddCommand(newMigrateCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Converge the demo entity's table with its declared schema",
		Long: `Converge the database with the declared schema: create the table if it
is missing and add any columns it does not have yet. Safe to re-run; an
unchanged schema issues no DDL.`,
		RunE: runMigrate,
	}

	cmd.Flags().String("driver", "postgres", "database driver (postgres, pgx, mysql, sqlite3)")
	cmd.Flags().String("dsn", "", "database connection string")
	cmd.Flags().String("redis-lock", "", "redis address to serialize concurrent migration runs (optional)")
	cmd.Flags().Bool("seed", false, "insert a sample row after migrating")

	viper.SetEnvPrefix("accrete")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	_ = viper.BindPFlags(cmd.Flags())

	return cmd
}

func runMigrate(cmd *cobra.Command, args []string) error {
	dsn := viper.GetString("dsn")
	if dsn == "" {
		return fmt.Errorf("no DSN given: set --dsn or ACCRETE_DSN")
	}

	db, err := accrete.Open(viper.GetString("driver"), dsn, nil)
	if err != nil {
		return err
	}
	defer db.Close()

	migrator := accrete.NewMigrator(db)
	if addr := viper.GetString("redis-lock"); addr != "" {
		locker := accrete.NewRedisLock(&redis.Options{Addr: addr})
		defer locker.Close()
		migrator.WithLock(locker)
	}

	if err := migrator.Apply(context.Background(), userSchema); err != nil {
		return err
	}

	if viper.GetBool("seed") {
		rec := schema.NewRecord(userSchema, map[string]any{
			"username": "demo",
			"email":    "demo@example.com",
		})
		if _, err := db.Insert(rec); err != nil {
			return err
		}
		fmt.Println(rec)
	}
	return nil
}
