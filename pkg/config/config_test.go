package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Quotation.ValidityDays)
	assert.Equal(t, "0.085", cfg.Quotation.TaxRate.String())
	assert.False(t, cfg.Quotation.AllowBackorder)
	assert.Equal(t, 3*time.Second, cfg.Quotation.LockTimeout)
	assert.Equal(t, 3, cfg.Quotation.MaxRetries)
	assert.Equal(t, 50*time.Millisecond, cfg.Quotation.RetryBackoff)
	assert.Equal(t, time.Hour, cfg.Quotation.SweepInterval)
	assert.Equal(t, "COT", cfg.Quotation.NumberPrefix)
	assert.Equal(t, "FAC", cfg.Quotation.InvoicePrefix)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("QUOTE_VALIDITY_DAYS", "15")
	t.Setenv("QUOTE_TAX_RATE", "0.19")
	t.Setenv("QUOTE_ALLOW_BACKORDER", "true")
	t.Setenv("QUOTE_EXPIRY_SWEEP_INTERVAL", "10m")
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 15, cfg.Quotation.ValidityDays)
	assert.Equal(t, "0.19", cfg.Quotation.TaxRate.String())
	assert.True(t, cfg.Quotation.AllowBackorder)
	assert.Equal(t, 10*time.Minute, cfg.Quotation.SweepInterval)
	assert.Equal(t, 9090, cfg.HTTP.Port)
}

func TestLoad_TasaInvalida(t *testing.T) {
	t.Setenv("QUOTE_TAX_RATE", "8.5")
	_, err := Load()
	assert.Error(t, err)
}

func TestDSN_EscapaPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:w/rd", DBName: "repuestos", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aw%2Frd@db:5432/repuestos?sslmode=disable", c.DSN())
	c.DatabaseURL = "postgres://otro"
	assert.Equal(t, "postgres://otro", c.ConnectionString())
}
