package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"hardware_shop_backend/internal/config"
	"hardware_shop_backend/internal/repositories"
	"hardware_shop_backend/pkg/utils"
)

//go:embed schema.sql
var schema string

// Schema returns the tables followed by one unique index per unique column of defs.
// Active-only columns get a partial index on is_active, the others a full one. An
// existing index of the other kind is dropped first, so switching the reuse policy
// and migrating again rebuilds it.
func Schema(defs []repositories.TableDef) string {
	var b strings.Builder
	b.WriteString(schema)
	for _, def := range defs {
		for _, u := range def.Unique {
			b.WriteString("\n")
			b.WriteString(uniqueIndexDDL(def.Name, u))
		}
	}
	return b.String()
}

func uniqueIndexDDL(table string, u repositories.UniqueIndex) string {
	where, stale := "", "LIKE"
	if u.ActiveOnly {
		where, stale = " WHERE is_active", "NOT LIKE"
	}
	return fmt.Sprintf(`DO $$
BEGIN
    IF EXISTS (SELECT 1 FROM pg_indexes
               WHERE schemaname = current_schema() AND indexname = '%[1]s'
                 AND indexdef %[4]s '%% WHERE %%') THEN
        DROP INDEX %[1]s;
    END IF;
END $$;
CREATE UNIQUE INDEX IF NOT EXISTS %[1]s ON %[2]s (%[3]s)%[5]s;
`, u.Name, table, u.Column, stale, where)
}

// Open opens and pings a PostgreSQL connection pool.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	utils.LogInfo("Successfully connected to the database", map[string]interface{}{
		"host": cfg.Host,
		"name": cfg.Name,
	})
	return db, nil
}

// ApplySchema creates the tables and indexes of defs that do not exist yet.
func ApplySchema(ctx context.Context, db *sql.DB, defs []repositories.TableDef) error {
	if _, err := db.ExecContext(ctx, Schema(defs)); err != nil {
		return fmt.Errorf("could not execute schema script: %w", err)
	}
	utils.LogInfo("Database schema applied successfully")
	return nil
}
