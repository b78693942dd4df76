package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
)

// Storage backends selectable with STUDIO_STORAGE.
const (
	StorageFile     = "file"
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
)

type Config struct {
	Addr          string        `env:"STUDIO_ADDR" envDefault:":8080"`
	Storage       string        `env:"STUDIO_STORAGE" envDefault:"file"`
	DataFile      string        `env:"STUDIO_DATA_FILE" envDefault:"data/post-studio-data.json"`
	SlotKey       string        `env:"STUDIO_SLOT_KEY" envDefault:"post-studio-data"`
	Locale        string        `env:"STUDIO_LOCALE" envDefault:"ru-RU"`
	PublishSecret string        `env:"STUDIO_PUBLISH_SECRET"`
	ReceiptTTL    time.Duration `env:"STUDIO_RECEIPT_TTL" envDefault:"24h"`
	CORSOrigin    string        `env:"STUDIO_CORS_ORIGIN" envDefault:"*"`
	LogLevel      string        `env:"LOG_LEVEL" envDefault:"info"`
	RedisURL      string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	Database      Database
}

// Database takes either a full DATABASE_URL or the individual connection
// variables.
type Database struct {
	URL      string `env:"DATABASE_URL"`
	User     string `env:"user"`
	Password string `env:"password"`
	Host     string `env:"host"`
	Port     string `env:"port" envDefault:"5432"`
	Name     string `env:"dbname"`
	SSLMode  string `env:"sslmode" envDefault:"require"`
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	switch cfg.Storage {
	case StorageFile, StorageMemory, StoragePostgres, StorageRedis:
	default:
		return Config{}, fmt.Errorf("unknown STUDIO_STORAGE %q", cfg.Storage)
	}
	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (d Database) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     d.Host + ":" + d.Port,
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + d.SSLMode,
	}
	return u.String()
}
