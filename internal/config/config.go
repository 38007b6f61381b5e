package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kibe0711-png/financial-report-creator/internal/model"
)

// FileName is the project config file at the root of a project directory.
const FileName = "frc.yaml"

// Config represents the top-level frc.yaml configuration.
type Config struct {
	Project ProjectConfig `yaml:"project"`
	Store   StoreConfig   `yaml:"store"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Import  ImportConfig  `yaml:"import"`
}

// ProjectConfig identifies the trial balance this directory reports on.
type ProjectConfig struct {
	ID          string `yaml:"id,omitempty"`
	Name        string `yaml:"name"`
	CompanyName string `yaml:"company_name"`
	PeriodEnd   string `yaml:"period_end"` // YYYY-MM-DD
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Driver string `yaml:"driver"` // sqlite or postgres
	DSN    string `yaml:"dsn"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes"`
}

// LoggingConfig controls zerolog output.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console or json
}

// ImportConfig locates import inputs, relative to the project directory.
type ImportConfig struct {
	Dir          string `yaml:"dir"`
	ProcessedDir string `yaml:"processed_dir"`
	RulesFile    string `yaml:"rules_file"`
}

// Load reads a frc.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default("", "", "")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
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

// Default returns a Config with sensible defaults for a new project.
func Default(name, companyName, periodEnd string) *Config {
	return &Config{
		Project: ProjectConfig{
			Name:        name,
			CompanyName: companyName,
			PeriodEnd:   periodEnd,
		},
		Store: StoreConfig{
			Driver: "sqlite",
			DSN:    "frc.db",
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxUploadBytes:  32 << 20,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Import: ImportConfig{
			Dir:          "import",
			ProcessedDir: "import/processed",
			RulesFile:    "rules/classification-rules.csv",
		},
	}
}

// ApplyEnv overrides settings from environment variables read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	set := func(dst *string, names ...string) {
		for _, n := range names {
			if v := getenv(n); v != "" {
				*dst = v
				return
			}
		}
	}
	set(&c.Store.Driver, "FRC_STORE_DRIVER")
	set(&c.Store.DSN, "FRC_STORE_DSN", "DATABASE_URL")
	set(&c.Server.Addr, "FRC_SERVER_ADDR")
	set(&c.Logging.Level, "FRC_LOG_LEVEL")
	set(&c.Logging.Format, "FRC_LOG_FORMAT")
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	if _, err := c.ProjectInfo(); err != nil {
		errs = append(errs, err.Error())
	}

	switch c.Store.Driver {
	case "sqlite", "postgres":
	default:
		errs = append(errs, fmt.Sprintf("store.driver (%q) must be one of: sqlite, postgres", c.Store.Driver))
	}
	if c.Store.DSN == "" {
		errs = append(errs, "store.dsn is required")
	}

	if c.Server.Addr == "" {
		errs = append(errs, "server.addr is required")
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 {
		errs = append(errs, "server timeouts must be non-negative")
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "server.shutdown_timeout must be positive")
	}
	if c.Server.MaxUploadBytes <= 0 {
		errs = append(errs, "server.max_upload_bytes must be positive")
	}

	validLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("logging.level (%q) must be one of: trace, debug, info, warn, error", c.Logging.Level))
	}
	validFormats := map[string]bool{"console": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("logging.format (%q) must be one of: console, json", c.Logging.Format))
	}

	if c.Import.Dir == "" || c.Import.ProcessedDir == "" {
		errs = append(errs, "import.dir and import.processed_dir are required")
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// ProjectInfo returns the validated project descriptor.
func (c *Config) ProjectInfo() (model.ProjectInfo, error) {
	periodEnd, err := model.ParsePeriodEnd(c.Project.PeriodEnd)
	if err != nil {
		return model.ProjectInfo{}, err
	}
	info := model.ProjectInfo{
		Name:        c.Project.Name,
		CompanyName: c.Project.CompanyName,
		PeriodEnd:   periodEnd,
	}
	if err := info.Validate(); err != nil {
		return model.ProjectInfo{}, err
	}
	return info, nil
}

// Resolve joins a configured path onto root unless it is absolute.
func Resolve(root, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

// StoreDSN returns the store DSN, resolving a SQLite file against root.
func (c *Config) StoreDSN(root string) string {
	if c.Store.Driver == "sqlite" && c.Store.DSN != ":memory:" && !strings.HasPrefix(c.Store.DSN, "file:") {
		return Resolve(root, c.Store.DSN)
	}
	return c.Store.DSN
}
