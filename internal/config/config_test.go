package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PORT", "DB_DSN", "LOG_LEVEL", "LOG_FORMAT", "APP_NAME", "VETCARE_SERVER_ADDR"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, DefaultAddr, cfg.Server.Addr)
	assert.Equal(t, "Asia/Kolkata", cfg.Schedule.Timezone)
	assert.Equal(t, DefaultWorkers, cfg.Schedule.Workers)
	assert.Equal(t, DefaultSendTimeout, cfg.Schedule.SendTimeout)
	assert.Equal(t, "91", cfg.Schedule.DefaultCountryCode)
	assert.Equal(t, DefaultClaimTTL, cfg.Redis.ClaimTTL)
	assert.Empty(t, cfg.Database.DSN)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFromEnv_PrefixedOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("VETCARE_SCHEDULE_WORKERS", "16")
	t.Setenv("VETCARE_SCHEDULE_SEND_TIMEOUT", "3s")
	t.Setenv("VETCARE_REDIS_ADDR", "localhost:6379")
	t.Setenv("VETCARE_DATABASE_DSN", "postgres://u:p@localhost/vet")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, 16, cfg.Schedule.Workers)
	assert.Equal(t, 3*time.Second, cfg.Schedule.SendTimeout)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "postgres://u:p@localhost/vet", cfg.Database.DSN)
}

func TestLoadFromEnv_LegacyAliases(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DSN", "postgres://legacy")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "postgres://legacy", cfg.Database.DSN)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":7000"
schedule:
  timezone: "UTC"
  workers: 2
whatsapp:
  token: "secret"
  phone_number_id: "12345"
`), 0o600))

	t.Setenv("PORT", "9999")
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.Server.Addr, "file wins over PORT")
	assert.Equal(t, "UTC", cfg.Schedule.Timezone)
	assert.Equal(t, 2, cfg.Schedule.Workers)
	assert.Equal(t, "12345", cfg.WhatsApp.PhoneNumberID)
	assert.Equal(t, DefaultWhatsAppBaseURL, cfg.WhatsApp.BaseURL)
	assert.Equal(t, DefaultWhatsAppRate, cfg.WhatsApp.RatePerSecond)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		c := Config{}
		ApplyDefaults(&c)
		return c
	}

	c := base()
	require.NoError(t, c.Validate())

	c = base()
	c.Schedule.Timezone = "Mars/Olympus"
	assert.Error(t, c.Validate())

	c = base()
	c.Schedule.DefaultCountryCode = "9a"
	assert.Error(t, c.Validate())

	c = base()
	c.Schedule.Workers = -1
	assert.Error(t, c.Validate())

	c = base()
	c.WhatsApp.Token = "tok"
	assert.Error(t, c.Validate())

	c = base()
	c.WhatsApp.RatePerSecond = -1
	assert.Error(t, c.Validate())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
