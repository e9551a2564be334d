package config

import (
	"time"

	"vet-care-reminders/internal/domain/calendar"

	"github.com/spf13/viper"
)

const (
	DefaultAddr              = ":8080"
	DefaultWorkers           = 4
	DefaultSendTimeout       = 10 * time.Second
	DefaultClaimTTL          = 10 * time.Minute
	DefaultCountryCode       = "91"
	DefaultWhatsAppBaseURL   = "https://graph.facebook.com/v19.0"
	DefaultSubjectPrefix     = "vetcare.reminders"
	DefaultWhatsAppRate      = 20.0
	defaultReadTimeout       = 10 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultHTTPClientTimeout = 10 * time.Second
	defaultLogLevel          = "info"
	defaultLogFormat         = "text"
)

// setDefaults registra todas las keys en viper; sin esto AutomaticEnv no las ve al hacer Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", DefaultAddr)
	v.SetDefault("server.read_timeout", defaultReadTimeout)
	v.SetDefault("server.write_timeout", defaultWriteTimeout)

	v.SetDefault("log.level", defaultLogLevel)
	v.SetDefault("log.format", defaultLogFormat)
	v.SetDefault("log.app", "vet-care-reminders")

	v.SetDefault("database.dsn", "")
	v.SetDefault("database.migrate_on_start", false)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.claim_ttl", DefaultClaimTTL)

	v.SetDefault("nats.url", "")
	v.SetDefault("nats.subject_prefix", DefaultSubjectPrefix)

	v.SetDefault("schedule.timezone", calendar.DefaultTimezone)
	v.SetDefault("schedule.workers", DefaultWorkers)
	v.SetDefault("schedule.send_timeout", DefaultSendTimeout)
	v.SetDefault("schedule.default_country_code", DefaultCountryCode)
	v.SetDefault("schedule.dry_run", false)

	v.SetDefault("whatsapp.base_url", DefaultWhatsAppBaseURL)
	v.SetDefault("whatsapp.phone_number_id", "")
	v.SetDefault("whatsapp.token", "")
	v.SetDefault("whatsapp.timeout", defaultHTTPClientTimeout)
	v.SetDefault("whatsapp.rate_per_second", DefaultWhatsAppRate)

	v.SetDefault("auth.verify_url", "")
	v.SetDefault("auth.api_key", "")
	v.SetDefault("auth.timeout", 5*time.Second)
}

// ApplyDefaults completa valores cero que el archivo pudo dejar explícitamente vacíos.
func ApplyDefaults(c *Config) {
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Schedule.Timezone == "" {
		c.Schedule.Timezone = calendar.DefaultTimezone
	}
	if c.Schedule.Workers == 0 {
		c.Schedule.Workers = DefaultWorkers
	}
	if c.Schedule.SendTimeout == 0 {
		c.Schedule.SendTimeout = DefaultSendTimeout
	}
	if c.Schedule.DefaultCountryCode == "" {
		c.Schedule.DefaultCountryCode = DefaultCountryCode
	}
	if c.Redis.ClaimTTL == 0 {
		c.Redis.ClaimTTL = DefaultClaimTTL
	}
	if c.NATS.SubjectPrefix == "" {
		c.NATS.SubjectPrefix = DefaultSubjectPrefix
	}
	if c.WhatsApp.BaseURL == "" {
		c.WhatsApp.BaseURL = DefaultWhatsAppBaseURL
	}
}
