package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default("FY24", "Acme Ltd", "2024-12-31")
	cfg.Project.ID = "5b6f"
	cfg.Store = StoreConfig{Driver: "postgres", DSN: "postgres://localhost/frc"}

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestDefaults(t *testing.T) {
	cfg := Default("FY24", "Acme Ltd", "2024-12-31")

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "frc.db", cfg.Store.DSN)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "rules/classification-rules.csv", cfg.Import.RulesFile)
	assert.NoError(t, cfg.Validate())
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("project:\n  name: FY24\nserver:\n  read_timeout: 5s\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "FY24", cfg.Project.Name)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 60*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default("FY24", "Acme Ltd", "2024-12-31")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "company_name: Acme Ltd")
	assert.Contains(t, contents, `period_end: "2024-12-31"`)
	assert.Contains(t, contents, "driver: sqlite")
	assert.Contains(t, contents, "shutdown_timeout: 10s")
	assert.NotContains(t, contents, "id:")
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"FRC_STORE_DRIVER": "postgres",
		"DATABASE_URL":     "postgres://db/frc",
		"FRC_LOG_LEVEL":    "debug",
	}
	cfg := Default("FY24", "Acme Ltd", "2024-12-31")
	cfg.ApplyEnv(func(k string) string { return env[k] })

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://db/frc", cfg.Store.DSN)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, ":8080", cfg.Server.Addr)

	env["FRC_STORE_DSN"] = "postgres://primary/frc"
	cfg.ApplyEnv(func(k string) string { return env[k] })
	assert.Equal(t, "postgres://primary/frc", cfg.Store.DSN, "FRC_STORE_DSN wins over DATABASE_URL")
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := Default("", "Acme Ltd", "31/12/2024")
	cfg.Store.Driver = "mysql"
	cfg.Logging.Format = "xml"
	cfg.Server.ShutdownTimeout = 0

	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "period end")
	assert.Contains(t, msg, "store.driver")
	assert.Contains(t, msg, "logging.format")
	assert.Contains(t, msg, "shutdown_timeout")
}

func TestProjectInfo(t *testing.T) {
	info, err := Default("FY24", "Acme Ltd", "2024-06-30").ProjectInfo()
	require.NoError(t, err)
	assert.Equal(t, "Acme Ltd", info.CompanyName)
	assert.Equal(t, time.June, info.PeriodEnd.Month())

	_, err = Default("FY24", "", "2024-06-30").ProjectInfo()
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	assert.Equal(t, filepath.Join("root", "import"), Resolve("root", "import"))
	assert.Equal(t, "/abs/import", Resolve("root", "/abs/import"))

	cfg := Default("FY24", "Acme Ltd", "2024-06-30")
	assert.Equal(t, filepath.Join("root", "frc.db"), cfg.StoreDSN("root"))
	cfg.Store = StoreConfig{Driver: "postgres", DSN: "postgres://x"}
	assert.Equal(t, "postgres://x", cfg.StoreDSN("root"))
}
