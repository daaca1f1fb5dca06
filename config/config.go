package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Log     Logger   `mapstructure:"logger"`
	DB      Database `mapstructure:"database"`
	API     API      `mapstructure:"api"`
	Cache   Cache    `mapstructure:"cache"`
	Auth    Auth     `mapstructure:"auth"`
	Journal Journal  `mapstructure:"journal"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type Database struct {
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"name"`
	SSLMode         string `mapstructure:"ssl_mode"`
	TimeZone        string `mapstructure:"time_zone"`
	Path            string `mapstructure:"path"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
	LogLevel        string `mapstructure:"log_level"`
}

type API struct {
	Port              int           `mapstructure:"port"`
	AuthRatePerSecond float64       `mapstructure:"auth_rate_per_second"`
	AuthRateBurst     int           `mapstructure:"auth_rate_burst"`
	AuthRateExpiresIn time.Duration `mapstructure:"auth_rate_expires_in"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
}

type Cache struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
	PublicSummaryTTL  time.Duration `mapstructure:"public_summary_ttl"`
}

type Auth struct {
	SessionTTL              time.Duration `mapstructure:"session_ttl"`
	BcryptCost              int           `mapstructure:"bcrypt_cost"`
	LoginPath               string        `mapstructure:"login_path"`
	SignInAttemptsPerMinute int           `mapstructure:"sign_in_attempts_per_minute"`
}

type Journal struct {
	// SortByDate orders trades chronologically before deriving the equity curve.
	SortByDate bool `mapstructure:"sort_by_date"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.encoding", "json")

	// Every key needs a default so AutomaticEnv can override it without a file.
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.time_zone", "")
	v.SetDefault("database.path", "trade-journal.db")
	v.SetDefault("database.max_idle_conns", 0)
	v.SetDefault("database.max_open_conns", 0)
	v.SetDefault("database.conn_max_lifetime", "")
	v.SetDefault("database.log_level", "Warn")

	v.SetDefault("api.port", 8080)
	v.SetDefault("api.auth_rate_per_second", 5)
	v.SetDefault("api.auth_rate_burst", 10)
	v.SetDefault("api.auth_rate_expires_in", 3*time.Minute)
	v.SetDefault("api.shutdown_timeout", 10*time.Second)

	v.SetDefault("cache.default_expiration", 10*time.Minute)
	v.SetDefault("cache.cleanup_interval", 15*time.Minute)
	v.SetDefault("cache.public_summary_ttl", 30*time.Second)

	v.SetDefault("auth.session_ttl", 24*time.Hour)
	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("auth.login_path", "/login")
	v.SetDefault("auth.sign_in_attempts_per_minute", 10)

	v.SetDefault("journal.sort_by_date", true)
}

// LoadFrom reads config.yaml from path, then lets the environment (and an
// optional .env file) override individual keys, e.g. DATABASE_HOST.
func LoadFrom(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AddConfigPath(path)
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
