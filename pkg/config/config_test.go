package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/posync/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, 24*time.Hour, cfg.Reconcile.DedupTTL)
	assert.InDelta(t, 0.5, cfg.Reconcile.RestockRatio, 1e-9)
	assert.Equal(t, 5, cfg.Reconcile.MaxAttempts)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, "https://connect.squareupsandbox.com", cfg.Square.BaseURL)
}

func TestLoad_VariablesDeEntorno(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("RECONCILE_DEDUP_TTL", "90m")
	t.Setenv("RECONCILE_SWEEP_INTERVAL", "30")
	t.Setenv("RECONCILE_RESTOCK_RATIO", "0.6")
	t.Setenv("RECONCILE_WORKERS", "8")
	t.Setenv("STORE_MIGRATE", "false")
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, 90*time.Minute, cfg.Reconcile.DedupTTL)
	assert.Equal(t, 30*time.Second, cfg.Reconcile.SweepInterval, "entero = segundos")
	assert.InDelta(t, 0.6, cfg.Reconcile.RestockRatio, 1e-9)
	assert.Equal(t, 8, cfg.Reconcile.Workers)
	assert.False(t, cfg.Store.Migrate)
	assert.Equal(t, 9090, cfg.HTTP.Port)
}

func TestLoad_DriverInvalido(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mongo")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "posync", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/posync?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://otro"
	assert.Equal(t, "postgres://otro", c.ConnectionString())
}
