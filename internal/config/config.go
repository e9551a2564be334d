// Package config carga la configuración del servicio desde un YAML opcional y
// variables VETCARE_*.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"vet-care-reminders/internal/domain/calendar"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	NATS     NATSConfig     `mapstructure:"nats"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
	WhatsApp WhatsAppConfig `mapstructure:"whatsapp"`
	Auth     AuthConfig     `mapstructure:"auth"`
}

type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	App    string `mapstructure:"app"`
}

// DatabaseConfig: DSN vacío = stores en memoria.
type DatabaseConfig struct {
	DSN            string `mapstructure:"dsn"`
	MigrateOnStart bool   `mapstructure:"migrate_on_start"`
}

// RedisConfig: Addr vacío = guard en proceso.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	ClaimTTL time.Duration `mapstructure:"claim_ttl"`
}

// NATSConfig: URL vacía = sin publicación de resultados.
type NATSConfig struct {
	URL           string `mapstructure:"url"`
	SubjectPrefix string `mapstructure:"subject_prefix"`
}

type ScheduleConfig struct {
	Timezone           string        `mapstructure:"timezone"`
	Workers            int           `mapstructure:"workers"`
	SendTimeout        time.Duration `mapstructure:"send_timeout"`
	DefaultCountryCode string        `mapstructure:"default_country_code"`
	DryRun             bool          `mapstructure:"dry_run"`
}

// WhatsAppConfig: sin token se usa el gateway de log (no envía).
type WhatsAppConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	PhoneNumberID string        `mapstructure:"phone_number_id"`
	Token         string        `mapstructure:"token"`
	Timeout       time.Duration `mapstructure:"timeout"`
	RatePerSecond float64       `mapstructure:"rate_per_second"`
}

// AuthConfig: sin VerifyURL el servicio corre en modo dev (X-Debug-User-ID).
type AuthConfig struct {
	VerifyURL string        `mapstructure:"verify_url"`
	APIKey    string        `mapstructure:"api_key"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Server.Addr) == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if c.Schedule.Workers <= 0 {
		errs = append(errs, fmt.Errorf("schedule.workers must be > 0 (got %d)", c.Schedule.Workers))
	}
	if c.Schedule.SendTimeout <= 0 {
		errs = append(errs, errors.New("schedule.send_timeout must be > 0"))
	}
	if _, err := calendar.LoadLocation(c.Schedule.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("schedule.timezone: %w", err))
	}
	if cc := strings.TrimPrefix(c.Schedule.DefaultCountryCode, "+"); cc == "" || strings.Trim(cc, "0123456789") != "" {
		errs = append(errs, fmt.Errorf("schedule.default_country_code must be digits (got %q)", c.Schedule.DefaultCountryCode))
	}
	if c.WhatsApp.Token != "" && strings.TrimSpace(c.WhatsApp.PhoneNumberID) == "" {
		errs = append(errs, errors.New("whatsapp.phone_number_id is required when whatsapp.token is set"))
	}
	if c.WhatsApp.RatePerSecond < 0 {
		errs = append(errs, errors.New("whatsapp.rate_per_second must be >= 0"))
	}
	if c.Redis.DB < 0 {
		errs = append(errs, errors.New("redis.db must be >= 0"))
	}

	return errors.Join(errs...)
}
