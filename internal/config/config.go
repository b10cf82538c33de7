package config

import (
	"os"
)

type Config struct {
	Port             string
	Env              string
	RedisAddr        string
	DatabasePath     string
	StripeKey        string
	FacebookGraphURL string
	RabbitURL        string
	RabbitExchange   string
	SMTPAddr         string
	SMTPFrom         string
}

func Load() Config {
	return Config{
		Port:             getenv("APP_PORT", "8080"),
		Env:              getenv("ENV", "dev"),
		RedisAddr:        getenv("REDIS_ADDR", "localhost:6379"),
		DatabasePath:     getenv("DATABASE_PATH", "contrib.db"),
		StripeKey:        getenv("STRIPE_KEY", ""),
		FacebookGraphURL: getenv("FACEBOOK_GRAPH_URL", "https://graph.facebook.com"),
		RabbitURL:        getenv("RABBIT_URL", ""),
		RabbitExchange:   getenv("RABBIT_EXCHANGE", "contrib.events"),
		SMTPAddr:         getenv("SMTP_ADDR", ""),
		SMTPFrom:         getenv("SMTP_FROM", "no-reply@localhost"),
	}
}

func (c Config) Prod() bool { return c.Env == "prod" }

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
