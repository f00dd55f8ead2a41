package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// SRTConfig agrupa lo necesario para hablar con el sitio de SRT.
// La CLI solo carga esta parte.
type SRTConfig struct {
	SRTBaseURL         string        `env:"SRT_BASE_URL" envDefault:"https://etk.srail.kr"`
	SRTTimeout         time.Duration `env:"SRT_TIMEOUT" envDefault:"15s"`
	SRTUserAgent       string        `env:"SRT_USER_AGENT"`
	SRTDateWindowDays  int           `env:"SRT_DATE_WINDOW_DAYS" envDefault:"14"`
	SRTDateConcurrency int           `env:"SRT_DATE_CONCURRENCY" envDefault:"4"`
}

// Config centraliza la configuración del servicio.
type Config struct {
	SRTConfig

	HTTPPort            string `env:"HTTP_PORT" envDefault:"8080"`
	SessionSecret       string `env:"SESSION_SECRET,required,notEmpty"`
	SessionTTLMinutes   int    `env:"SESSION_TTL_MINUTES" envDefault:"1440"`
	CookieSecure        bool   `env:"COOKIE_SECURE" envDefault:"false"`
	LoginRateWindowMins int    `env:"LOGIN_RATE_WINDOW_MINUTES" envDefault:"10"`
	LoginRateMax        int    `env:"LOGIN_RATE_MAX" envDefault:"5"`
	DatabaseURL         string `env:"DATABASE_URL"`
	RedisAddr           string `env:"REDIS_ADDR"`
	RedisPassword       string `env:"REDIS_PASSWORD"`
	RedisDB             int    `env:"REDIS_DB" envDefault:"0"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadSRTConfig carga solo la parte de SRT; no exige SESSION_SECRET.
func LoadSRTConfig() (*SRTConfig, error) {
	var cfg SRTConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
