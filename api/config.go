package api

import (
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Config holds server configuration
type Config struct {
	Host            string
	Port            string
	CORSOrigins     []string
	RateLimitRPS    int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DefaultConfig returns default server configuration
func DefaultConfig() *Config {
	return &Config{
		Host:            "0.0.0.0",
		Port:            "5000",
		CORSOrigins:     []string{"http://localhost:3000", "http://localhost:8080"},
		RateLimitRPS:    100,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// LoadConfig overlays viper-provided settings onto the defaults, so a partial
// config file or environment override never zeroes a field.
func LoadConfig(v *viper.Viper) *Config {
	cfg := DefaultConfig()
	if v == nil {
		return cfg
	}

	if v.IsSet("api.host") {
		cfg.Host = v.GetString("api.host")
	}
	if v.IsSet("api.port") {
		cfg.Port = cast.ToString(v.Get("api.port"))
	}
	if v.IsSet("api.cors_origins") {
		cfg.CORSOrigins = v.GetStringSlice("api.cors_origins")
	}
	if v.IsSet("api.rate_limit_rps") {
		cfg.RateLimitRPS = cast.ToInt(v.Get("api.rate_limit_rps"))
	}
	if v.IsSet("api.read_timeout") {
		cfg.ReadTimeout = cast.ToDuration(v.Get("api.read_timeout"))
	}
	if v.IsSet("api.write_timeout") {
		cfg.WriteTimeout = cast.ToDuration(v.Get("api.write_timeout"))
	}
	if v.IsSet("api.shutdown_timeout") {
		cfg.ShutdownTimeout = cast.ToDuration(v.Get("api.shutdown_timeout"))
	}
	return cfg
}
