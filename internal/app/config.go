package app

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configFileEnvName = "MARKETHUB_CONFIG_FILE"
	envPrefix         = "MARKETHUB"
)

// Поддерживаемые драйверы хранилища корзины.
const (
	StorageDriverMemory   = "memory"
	StorageDriverLevelDB  = "leveldb"
	StorageDriverRedis    = "redis"
	StorageDriverPostgres = "postgres"
)

// StorageConfig описывает KV-хранилище, в котором живут корзина и токен сессии.
type StorageConfig struct {
	Driver              string `mapstructure:"driver"`
	Path                string `mapstructure:"path"`
	RedisAddr           string `mapstructure:"redis_addr"`
	RedisPassword       string `mapstructure:"redis_password"`
	RedisDB             int    `mapstructure:"redis_db"`
	RedisPrefix         string `mapstructure:"redis_prefix"`
	PostgresDSN         string `mapstructure:"postgres_dsn"`
	PostgresAutoMigrate bool   `mapstructure:"postgres_auto_migrate"`
}

// KafkaConfig — публикация событий корзины; пустой Brokers отключает Kafka.
type KafkaConfig struct {
	Brokers  []string `mapstructure:"brokers"`
	Topic    string   `mapstructure:"topic"`
	ClientID string   `mapstructure:"client_id"`
}

// CatalogConfig — источник каталога товаров.
type CatalogConfig struct {
	File string `mapstructure:"file"`
}

// Config описывает настройки запуска cartd и cartctl.
type Config struct {
	LogLevel    string        `mapstructure:"log_level"`
	HTTPAddr    string        `mapstructure:"http_addr"`
	MetricsAddr string        `mapstructure:"metrics_addr"`
	ProbeAddr   string        `mapstructure:"probe_addr"`
	APIBaseURL  string        `mapstructure:"api_base_url"`
	APITimeout  time.Duration `mapstructure:"api_timeout"`
	Storage     StorageConfig `mapstructure:"storage"`
	Kafka       KafkaConfig   `mapstructure:"kafka"`
	Catalog     CatalogConfig `mapstructure:"catalog"`
}

// DefaultConfig возвращает настройки для локального запуска без внешних зависимостей.
// Корзина и токен по умолчанию хранятся в LevelDB и переживают перезапуск.
func DefaultConfig() Config {
	return Config{
		LogLevel:    "info",
		HTTPAddr:    ":8080",
		MetricsAddr: ":9090",
		ProbeAddr:   ":50051",
		APITimeout:  5 * time.Second,
		Storage: StorageConfig{
			Driver:              StorageDriverLevelDB,
			Path:                "./data/cart",
			RedisPrefix:         "markethub:",
			PostgresAutoMigrate: true,
		},
		Kafka: KafkaConfig{
			ClientID: "markethub-cart",
		},
	}
}

// Validate проверяет согласованность настроек хранилища.
func (c Config) Validate() error {
	switch c.Storage.Driver {
	case "", StorageDriverMemory:
	case StorageDriverLevelDB:
		if c.Storage.Path == "" {
			return errors.New("storage.path is required for leveldb driver")
		}
	case StorageDriverRedis:
		if c.Storage.RedisAddr == "" {
			return errors.New("storage.redis_addr is required for redis driver")
		}
	case StorageDriverPostgres:
		if c.Storage.PostgresDSN == "" {
			return errors.New("storage.postgres_dsn is required for postgres driver")
		}
	default:
		return fmt.Errorf("unsupported storage driver %q", c.Storage.Driver)
	}
	if c.APITimeout <= 0 {
		return errors.New("api_timeout must be positive")
	}
	return nil
}

// flagKeys связывает CLI-флаги с ключами конфигурации.
var flagKeys = map[string]string{
	"log-level":      "log_level",
	"http-addr":      "http_addr",
	"metrics-addr":   "metrics_addr",
	"probe-addr":     "probe_addr",
	"api-base-url":   "api_base_url",
	"api-timeout":    "api_timeout",
	"storage-driver": "storage.driver",
	"storage-path":   "storage.path",
	"redis-addr":     "storage.redis_addr",
	"postgres-dsn":   "storage.postgres_dsn",
	"kafka-brokers":  "kafka.brokers",
	"catalog-file":   "catalog.file",
}

// RegisterFlags добавляет общие флаги конфигурации в набор.
func RegisterFlags(fs *pflag.FlagSet) {
	def := DefaultConfig()
	fs.String("config", "", "config file (yaml, json or toml)")
	fs.String("log-level", def.LogLevel, "log level")
	fs.String("http-addr", def.HTTPAddr, "cart HTTP API listen address")
	fs.String("metrics-addr", def.MetricsAddr, "metrics and health listen address")
	fs.String("probe-addr", def.ProbeAddr, "gRPC health probe listen address")
	fs.String("api-base-url", def.APIBaseURL, "remote marketplace API base URL")
	fs.Duration("api-timeout", def.APITimeout, "remote API request timeout")
	fs.String("storage-driver", def.Storage.Driver, "storage driver: memory|leveldb|redis|postgres")
	fs.String("storage-path", def.Storage.Path, "leveldb directory")
	fs.String("redis-addr", def.Storage.RedisAddr, "redis address")
	fs.String("postgres-dsn", def.Storage.PostgresDSN, "postgres DSN")
	fs.StringSlice("kafka-brokers", nil, "kafka brokers for cart events")
	fs.String("catalog-file", def.Catalog.File, "product catalog JSON file")
}

// LoadConfig собирает конфигурацию: значения по умолчанию, файл, переменные MARKETHUB_*, флаги.
// fs должен быть уже разобран; флаги учитываются, только если заданы явно.
func LoadConfig(fs *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for name, key := range flagKeys {
			if flag := fs.Lookup(name); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if path := configFilePath(fs); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, def Config) {
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("http_addr", def.HTTPAddr)
	v.SetDefault("metrics_addr", def.MetricsAddr)
	v.SetDefault("probe_addr", def.ProbeAddr)
	v.SetDefault("api_base_url", def.APIBaseURL)
	v.SetDefault("api_timeout", def.APITimeout)
	v.SetDefault("storage.driver", def.Storage.Driver)
	v.SetDefault("storage.path", def.Storage.Path)
	v.SetDefault("storage.redis_addr", def.Storage.RedisAddr)
	v.SetDefault("storage.redis_password", def.Storage.RedisPassword)
	v.SetDefault("storage.redis_db", def.Storage.RedisDB)
	v.SetDefault("storage.redis_prefix", def.Storage.RedisPrefix)
	v.SetDefault("storage.postgres_dsn", def.Storage.PostgresDSN)
	v.SetDefault("storage.postgres_auto_migrate", def.Storage.PostgresAutoMigrate)
	// Пустой срез, а не nil: ключ должен существовать, чтобы MARKETHUB_KAFKA_BROKERS попал в Unmarshal.
	v.SetDefault("kafka.brokers", append([]string{}, def.Kafka.Brokers...))
	v.SetDefault("kafka.topic", def.Kafka.Topic)
	v.SetDefault("kafka.client_id", def.Kafka.ClientID)
	v.SetDefault("catalog.file", def.Catalog.File)
}

func configFilePath(fs *pflag.FlagSet) string {
	if env, ok := os.LookupEnv(configFileEnvName); ok {
		return env
	}
	if fs == nil {
		return ""
	}
	path, err := fs.GetString("config")
	if err != nil {
		return ""
	}
	return path
}
