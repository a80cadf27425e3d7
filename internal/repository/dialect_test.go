package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDialect_Rebind(t *testing.T) {
	q := `SELECT * FROM t WHERE a = ? AND b = '?' AND c = ?`
	assert.Equal(t, `SELECT * FROM t WHERE a = $1 AND b = '?' AND c = $2`, DialectPostgres.Rebind(q))
	assert.Equal(t, q, DialectSQLite.Rebind(q))
}

func TestDialectFor(t *testing.T) {
	assert.Equal(t, DialectSQLite, DialectFor("sqlite"))
	assert.Equal(t, DialectPostgres, DialectFor("pgx"))
	assert.Equal(t, DialectPostgres, DialectFor("postgres"))
}
