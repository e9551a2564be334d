package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "VETCARE"

// Variables heredadas que siguen funcionando como alias.
var legacyEnv = map[string]string{
	"database.dsn": "DB_DSN",
	"log.level":    "LOG_LEVEL",
	"log.format":   "LOG_FORMAT",
	"log.app":      "APP_NAME",
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	for key, legacy := range legacyEnv {
		prefixed := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		_ = v.BindEnv(key, prefixed, legacy)
	}
	return v
}

// Load lee el YAML en path (si path no está vacío), aplica overrides VETCARE_*
// y valida.
func Load(path string) (*Config, error) {
	v := newViper()
	if strings.TrimSpace(path) != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %q: %w", path, err)
		}
	}
	return unmarshalAndFinalize(v)
}

// LoadFromEnv arma la configuración sólo con variables de entorno y defaults.
func LoadFromEnv() (*Config, error) {
	return Load("")
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	// PORT (convención de PaaS) sólo si server.addr no vino del archivo ni de VETCARE_SERVER_ADDR.
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" &&
		!v.InConfig("server.addr") && os.Getenv(envPrefix+"_SERVER_ADDR") == "" {
		cfg.Server.Addr = ":" + port
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}
	return cfg, nil
}
