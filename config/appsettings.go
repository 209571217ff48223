package config

import (
	"strings"

	"github.com/spf13/viper"
)

// AppSettings are process level knobs, separate from the per run config.
// Each can be overridden through the environment with the CTABT prefix,
// for example CTABT_LOG_LEVEL=debug
type AppSettings struct {
	LogLevel      string
	CacheCapacity uint64
	Workers       int
}

// LoadAppSettings resolves process settings from defaults and environment
func LoadAppSettings() *AppSettings {
	v := viper.New()
	v.SetEnvPrefix("CTABT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	v.SetDefault("log-level", "info")
	v.SetDefault("cache-capacity", 1000)
	v.SetDefault("workers", 0)

	return &AppSettings{
		LogLevel:      v.GetString("log-level"),
		CacheCapacity: v.GetUint64("cache-capacity"),
		Workers:       v.GetInt("workers"),
	}
}
