package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"shorturl-go/pkg/logging"
)

// EnvPrefix namespaces environment overrides, e.g. SHORTURL_DB_DSN.
const EnvPrefix = "SHORTURL"

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	DB        DBConfig        `mapstructure:"db"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Log       logging.Config  `mapstructure:"log"`
	Shortener ShortenerConfig `mapstructure:"shortener"`
	Cron      CronConfig      `mapstructure:"cron"`
	I18n      I18nConfig      `mapstructure:"i18n"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	// BaseURL prefixes short links in pages and API responses. Empty means
	// derive it from the incoming request.
	BaseURL string `mapstructure:"base_url"`
}

type DBConfig struct {
	Driver string `mapstructure:"driver"` // mysql, postgres or sqlite
	DSN    string `mapstructure:"dsn"`
}

// RedisConfig configures the flash store. An empty Addr selects the in-memory store.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
}

type ShortenerConfig struct {
	MaxAttempts   int           `mapstructure:"max_attempts"`
	RetryInterval time.Duration `mapstructure:"retry_interval"`
}

type CronConfig struct {
	LogRotation string `mapstructure:"log_rotation"`
}

type I18nConfig struct {
	DefaultLanguage string `mapstructure:"default_language"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.base_url", "")

	v.SetDefault("db.driver", "mysql")
	v.SetDefault("db.dsn", "root:root@tcp(127.0.0.1:3306)/shorturl?charset=utf8mb4&parseTime=True&loc=Local")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.path", "logs/shorturl.log")
	v.SetDefault("log.max_size", 10)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age", 7)
	v.SetDefault("log.compress", false)

	v.SetDefault("shortener.max_attempts", 5)
	v.SetDefault("shortener.retry_interval", 5*time.Millisecond)

	v.SetDefault("cron.log_rotation", "0 0 * * *")

	v.SetDefault("i18n.default_language", "en")
}

// Load reads .env (if present), then the YAML file at path, or config.yaml in
// the working directory when path is empty, then SHORTURL_* overrides.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.DB.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported db.driver %q", c.DB.Driver)
	}
	if c.DB.DSN == "" {
		return errors.New("db.dsn is required")
	}
	if c.Shortener.MaxAttempts < 1 {
		return fmt.Errorf("shortener.max_attempts must be at least 1, got %d", c.Shortener.MaxAttempts)
	}
	if c.Shortener.RetryInterval < 0 {
		return errors.New("shortener.retry_interval must not be negative")
	}
	return nil
}
