package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JakeSchindel1/JHOnboard-sub001/common/config"
)

func TestDriverName(t *testing.T) {
	assert.Equal(t, "pgx", DriverName("pgx"))
	assert.Equal(t, "sqlite", DriverName("sqlite3"))
	assert.Equal(t, "postgres", DriverName(""))
	assert.Equal(t, "postgres", DriverName("postgres"))
}

func TestNewDB_SQLiteMemory(t *testing.T) {
	db, err := NewDB(&config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"})
	require.NoError(t, err)
	defer Close(db)

	_, err = db.Exec(`CREATE TABLE t (id INTEGER PRIMARY KEY)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO t (id) VALUES (1)`)
	require.NoError(t, err)

	// 单连接：后续查询看到同一个内存库
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM t`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestNewDB_SQLite3Alias(t *testing.T) {
	path := filepath.Join(t.TempDir(), "intake.db")
	db, err := NewDB(&config.DatabaseConfig{Driver: "sqlite3", Path: path})
	require.NoError(t, err)
	defer Close(db)

	_, err = db.Exec(`CREATE TABLE t (id INTEGER PRIMARY KEY)`)
	require.NoError(t, err)
	_, err = os.Stat(path)
	assert.NoError(t, err)
}
