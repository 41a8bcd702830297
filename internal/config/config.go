// Package config loads and writes jcfinanceiro.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/jcfinanceiro/jcfinanceiro/internal/document"
	"github.com/jcfinanceiro/jcfinanceiro/internal/logging"
)

// FileName is the default config file name.
const FileName = "jcfinanceiro.yaml"

// EnvPrefix prefixes environment overrides, e.g. JCF_SERVER_ADDRESS.
const EnvPrefix = "JCF"

// Config represents the top-level jcfinanceiro.yaml configuration.
type Config struct {
	Company   CompanyConfig   `mapstructure:"company" yaml:"company"`
	Server    ServerConfig    `mapstructure:"server" yaml:"server"`
	Database  DatabaseConfig  `mapstructure:"database" yaml:"database"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
	Auth      AuthConfig      `mapstructure:"auth" yaml:"auth"`
	Data      DataConfig      `mapstructure:"data" yaml:"data"`
	Reconcile ReconcileConfig `mapstructure:"reconcile" yaml:"reconcile"`
}

// CompanyConfig identifies the business.
type CompanyConfig struct {
	Name     string `mapstructure:"name" yaml:"name"`
	Document string `mapstructure:"document" yaml:"document,omitempty"` // CNPJ or CPF
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Address string `mapstructure:"address" yaml:"address"`
	Mode    string `mapstructure:"mode" yaml:"mode"` // gin mode: debug, release, test
}

// DatabaseConfig points at the SQLite file.
type DatabaseConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// LogConfig configures zap.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"` // json or console
}

// AuthConfig configures token signing.
type AuthConfig struct {
	JWTSecret     string `mapstructure:"jwt_secret" yaml:"-"` // env only
	TokenTTLHours int    `mapstructure:"token_ttl_hours" yaml:"token_ttl_hours"`
}

// DataConfig locates import inboxes and the audit log.
type DataConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// ReconcileConfig sets terminal reconciliation tolerances.
type ReconcileConfig struct {
	ToleranceDays   int     `mapstructure:"tolerance_days" yaml:"tolerance_days"`
	ToleranceAmount float64 `mapstructure:"tolerance_amount" yaml:"tolerance_amount"`
	GroupByDay      bool    `mapstructure:"group_by_day" yaml:"group_by_day"`
}

// Load reads configuration from path (or the default search locations when
// path is empty), applying defaults, a .env file and JCF_ environment
// variables. A missing config file is not an error.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(strings.TrimSuffix(FileName, filepath.Ext(FileName)))
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".jcfinanceiro"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("auth.jwt_secret"); err != nil {
		return nil, fmt.Errorf("binding jwt secret: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default("")
	v.SetDefault("company.name", d.Company.Name)
	v.SetDefault("company.document", "")
	v.SetDefault("server.address", d.Server.Address)
	v.SetDefault("server.mode", d.Server.Mode)
	v.SetDefault("database.path", d.Database.Path)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("auth.token_ttl_hours", d.Auth.TokenTTLHours)
	v.SetDefault("data.dir", d.Data.Dir)
	v.SetDefault("reconcile.tolerance_days", d.Reconcile.ToleranceDays)
	v.SetDefault("reconcile.tolerance_amount", d.Reconcile.ToleranceAmount)
	v.SetDefault("reconcile.group_by_day", d.Reconcile.GroupByDay)
}

// Validate checks values that would otherwise fail later at runtime.
func (c *Config) Validate() error {
	if !logging.ValidLevel(c.Log.Level) {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}
	if c.Log.Format != "json" && c.Log.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be 'json' or 'console')", c.Log.Format)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("invalid server mode: %s", c.Server.Mode)
	}
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Company.Document != "" {
		if _, err := document.Detect(c.Company.Document); err != nil {
			return fmt.Errorf("company.document: %w", err)
		}
	}
	if c.Auth.TokenTTLHours < 1 {
		return fmt.Errorf("auth.token_ttl_hours must be at least 1, got: %d", c.Auth.TokenTTLHours)
	}
	if c.Reconcile.ToleranceDays < 0 {
		return fmt.Errorf("reconcile.tolerance_days must not be negative, got: %d", c.Reconcile.ToleranceDays)
	}
	if c.Reconcile.ToleranceAmount < 0 {
		return fmt.Errorf("reconcile.tolerance_amount must not be negative, got: %f", c.Reconcile.ToleranceAmount)
	}
	return nil
}

// Save writes a Config to a YAML file. The JWT secret is never written.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new installation.
func Default(companyName string) *Config {
	return &Config{
		Company:  CompanyConfig{Name: companyName},
		Server:   ServerConfig{Address: ":8080", Mode: "release"},
		Database: DatabaseConfig{Path: "data/jcfinanceiro.db"},
		Log:      LogConfig{Level: "info", Format: "json"},
		Auth:     AuthConfig{TokenTTLHours: 12},
		Data:     DataConfig{Dir: "data"},
		Reconcile: ReconcileConfig{
			ToleranceDays:   2,
			ToleranceAmount: 0.05,
			GroupByDay:      true,
		},
	}
}

// Resolve makes relative database and data paths relative to baseDir,
// usually the directory holding the config file.
func (c *Config) Resolve(baseDir string) {
	if !filepath.IsAbs(c.Database.Path) {
		c.Database.Path = filepath.Join(baseDir, c.Database.Path)
	}
	if !filepath.IsAbs(c.Data.Dir) {
		c.Data.Dir = filepath.Join(baseDir, c.Data.Dir)
	}
}
