package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default("Padaria Central")
	cfg.Company.Document = "11.222.333/0001-81"
	cfg.Database.Path = "/var/lib/jcf/db.sqlite"
	cfg.Reconcile.ToleranceDays = 3

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Padaria Central", got.Company.Name)
	assert.Equal(t, "11.222.333/0001-81", got.Company.Document)
	assert.Equal(t, "/var/lib/jcf/db.sqlite", got.Database.Path)
	assert.Equal(t, 3, got.Reconcile.ToleranceDays)
	assert.InDelta(t, 0.05, got.Reconcile.ToleranceAmount, 0.0001)
	assert.True(t, got.Reconcile.GroupByDay)
	assert.Equal(t, 12, got.Auth.TokenTTLHours)
}

func TestDefaults(t *testing.T) {
	cfg := Default("Minha Empresa")

	assert.Equal(t, "Minha Empresa", cfg.Company.Name)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "data", cfg.Data.Dir)
	assert.NoError(t, cfg.Validate())
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default("Loja")))

	t.Setenv("JCF_SERVER_ADDRESS", ":9090")
	t.Setenv("JCF_AUTH_JWT_SECRET", "s3cret")

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", got.Server.Address)
	assert.Equal(t, "s3cret", got.Auth.JWTSecret)
}

func TestYAMLFormat(t *testing.T) {
	cfg := Default("Loja")
	cfg.Auth.JWTSecret = "never-written"
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "name: Loja")
	assert.Contains(t, contents, "tolerance_days: 2")
	assert.Contains(t, contents, "group_by_day: true")
	assert.NotContains(t, contents, "never-written")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad level", func(c *Config) { c.Log.Level = "loud" }},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }},
		{"bad mode", func(c *Config) { c.Server.Mode = "prod" }},
		{"empty db", func(c *Config) { c.Database.Path = " " }},
		{"bad document", func(c *Config) { c.Company.Document = "11.222.333/0001-82" }},
		{"zero ttl", func(c *Config) { c.Auth.TokenTTLHours = 0 }},
		{"negative days", func(c *Config) { c.Reconcile.ToleranceDays = -1 }},
		{"negative amount", func(c *Config) { c.Reconcile.ToleranceAmount = -0.01 }},
	}
	for _, tt := range tests {
		cfg := Default("X")
		tt.mutate(cfg)
		assert.Error(t, cfg.Validate(), tt.name)
	}
}

func TestResolve(t *testing.T) {
	cfg := Default("x")
	cfg.Resolve("/srv/jcf")
	assert.Equal(t, filepath.Join("/srv/jcf", "data", "jcfinanceiro.db"), cfg.Database.Path)
	assert.Equal(t, filepath.Join("/srv/jcf", "data"), cfg.Data.Dir)

	cfg.Database.Path = "/var/lib/jcf.db"
	cfg.Resolve("/elsewhere")
	assert.Equal(t, "/var/lib/jcf.db", cfg.Database.Path)
	assert.Equal(t, filepath.Join("/srv/jcf", "data"), cfg.Data.Dir)
}
