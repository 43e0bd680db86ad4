package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
[database]
host = "db"
user = "app"
dbname = "appointments"

[schedule]
timezone = "Europe/Moscow"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, "db", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 31, cfg.Schedule.MaxRangeDays)
	assert.Equal(t, time.Minute, cfg.Schedule.RefreshInterval())
	assert.Equal(t, "schedule.changed", cfg.Redis.Channel)

	loc, err := cfg.Schedule.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Moscow", loc.String())
}

func TestLoad_EnvOverridesSecrets(t *testing.T) {
	t.Setenv("DB_PASSWORD", "from-env")
	t.Setenv("REDIS_PASSWORD", "redis-secret")

	path := writeConfig(t, `
[database]
host = "db"
password = "from-file"
dbname = "appointments"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, "redis-secret", cfg.Redis.Password)
	assert.Contains(t, cfg.Database.DSN(), "password=from-env")
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, ErrReadConfig)

	_, err = Load(writeConfig(t, `[server`))
	assert.ErrorIs(t, err, ErrReadConfig)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "bad port", mutate: func(c *Config) { c.Server.HTTPPort = 0 }},
		{name: "unknown timezone", mutate: func(c *Config) { c.Schedule.Timezone = "Mars/Olympus" }},
		{name: "zero range", mutate: func(c *Config) { c.Schedule.MaxRangeDays = 0 }},
		{name: "metrics path", mutate: func(c *Config) { c.Metrics.Enabled = true; c.Metrics.Path = "metrics" }},
		{name: "redis without addr", mutate: func(c *Config) { c.Redis.Enabled = true; c.Redis.Addr = "" }},
		{name: "kafka without brokers", mutate: func(c *Config) { c.Kafka.Enabled = true }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Database.DBName = "appointments"
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}

	cfg := Default()
	cfg.Database.DBName = "appointments"
	assert.NoError(t, cfg.Validate())
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "h", Port: 5433, User: "u", Password: "p", DBName: "d", SSLMode: "disable"}
	assert.Equal(t, "host=h port=5433 user=u password=p dbname=d sslmode=disable", d.DSN())
}
