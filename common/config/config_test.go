package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDatabaseConfig_GetDSN(t *testing.T) {
	c := DatabaseConfig{Driver: "postgres", Host: "db", Port: 5432, User: "u", Password: "p", Database: "intake", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=intake sslmode=disable", c.GetDSN())

	assert.Equal(t, ":memory:", (&DatabaseConfig{Driver: "sqlite"}).GetDSN())
	assert.Equal(t, "/tmp/intake.db", (&DatabaseConfig{Driver: "sqlite", Path: "/tmp/intake.db"}).GetDSN())
	assert.Equal(t, "intake.db", (&DatabaseConfig{Driver: "sqlite3", Path: "intake.db"}).GetDSN())
	assert.Equal(t, ":memory:", (&DatabaseConfig{Driver: "sqlite3"}).GetDSN())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "pgx")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_NAME", "intake_test")
	t.Setenv("DB_MAX_CONNS", "nope")
	db := DatabaseConfig{Port: 5432, MaxConns: 10}
	db.LoadFromEnv("DB")
	assert.Equal(t, "pgx", db.Driver)
	assert.Equal(t, 6543, db.Port)
	assert.Equal(t, "intake_test", db.Database)
	assert.Equal(t, 10, db.MaxConns)

	t.Setenv("MQTT_QOS", "3")
	t.Setenv("MQTT_BROKER", "tcp://broker:1883")
	m := MQTTConfig{QoS: 1}
	m.LoadFromEnv("MQTT")
	assert.Equal(t, "tcp://broker:1883", m.Broker)
	assert.Equal(t, byte(1), m.QoS)
}
