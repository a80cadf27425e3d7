package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/JakeSchindel1/JHOnboard-sub001/common/config"

	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx"
	_ "github.com/lib/pq"              // registers "postgres"
	_ "modernc.org/sqlite"             // registers "sqlite"
)

// DriverName 把配置里的 driver 归一化为 database/sql 注册名
func DriverName(driver string) string {
	switch driver {
	case "pgx":
		return "pgx"
	case "sqlite", "sqlite3":
		return "sqlite"
	default:
		return "postgres"
	}
}

// NewDB 根据配置创建数据库连接（postgres / pgx / sqlite）
func NewDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	driver := DriverName(cfg.Driver)
	db, err := sql.Open(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// 设置连接池参数
	if driver == "sqlite" {
		// 单连接：sqlite 内存库每个连接是独立的库
		db.SetMaxOpenConns(1)
	} else {
		if cfg.MaxConns > 0 {
			db.SetMaxOpenConns(cfg.MaxConns)
		}
		if cfg.MaxIdle > 0 {
			db.SetMaxIdleConns(cfg.MaxIdle)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// Close 关闭数据库连接
func Close(db *sql.DB) error {
	if db != nil {
		return db.Close()
	}
	return nil
}
