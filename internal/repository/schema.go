package repository

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// SchemaSQL 方言对应的建表语句
func SchemaSQL(d Dialect) (string, error) {
	name := "schema/postgres.sql"
	if d == DialectSQLite {
		name = "schema/sqlite.sql"
	}
	b, err := schemaFS.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("failed to read schema %s: %w", name, err)
	}
	return string(b), nil
}

// ApplySchema 执行 CREATE TABLE IF NOT EXISTS（启动引导用，不是迁移工具）
func ApplySchema(ctx context.Context, db *sql.DB, d Dialect) error {
	ddl, err := SchemaSQL(d)
	if err != nil {
		return err
	}
	for _, stmt := range strings.Split(ddl, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
