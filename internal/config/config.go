package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"todone/internal/productivity"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	RepositoryInMemory = "inmemory"
	RepositoryPostgres = "postgres"

	envPrefix = "TODONE"
)

type Config struct {
	Server       ServerConfig          `mapstructure:"server"`
	Database     DatabaseConfig        `mapstructure:"database"`
	Logging      LoggingConfig         `mapstructure:"logging"`
	Repository   RepositoryConfig      `mapstructure:"repository"`
	Worker       WorkerConfig          `mapstructure:"worker"`
	Productivity productivity.Settings `mapstructure:"productivity"`
	Seed         SeedConfig            `mapstructure:"seed"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	RateLimit       int           `mapstructure:"rate_limit"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

type DatabaseConfig struct {
	URL            string        `mapstructure:"url"`
	MaxConnections int           `mapstructure:"max_connections"`
	MinConnections int           `mapstructure:"min_connections"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	MigrateOnStart bool          `mapstructure:"migrate_on_start"`
}

type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

type RepositoryConfig struct {
	Type string `mapstructure:"type"` // "postgres" или "inmemory"
}

type WorkerConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Interval  time.Duration `mapstructure:"interval"`
	BatchSize int           `mapstructure:"batch_size"`
}

// SeedConfig - YAML с задачами, которые загружаются в пустое хранилище
type SeedConfig struct {
	File string `mapstructure:"file"`
}

// Flags описывает флаги командной строки, которые перекрывают файл и окружение
func Flags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("todone", pflag.ContinueOnError)
	fs.String("config", "config.yml", "путь к файлу конфигурации")
	fs.String("port", "", "порт HTTP сервера")
	fs.String("repository", "", "тип хранилища: inmemory или postgres")
	fs.String("database-url", "", "строка подключения к postgres")
	fs.Bool("dev", false, "режим разработки для логов")
	fs.String("seed", "", "YAML с начальными задачами")
	return fs
}

var flagKeys = map[string]string{
	"port":         "server.port",
	"repository":   "repository.type",
	"database-url": "database.url",
	"dev":          "logging.development",
	"seed":         "seed.file",
}

// Load читает конфигурацию: значения по умолчанию, затем файл path,
// затем .env и переменные окружения TODONE_*, затем явно заданные флаги.
// Отсутствующие файл и .env не ошибка, битый .env - ошибка.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("ошибка чтения .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("ошибка парсинга %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			flag := flags.Lookup(name)
			if flag == nil || !flag.Changed {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("флаг %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("ошибка разбора конфигурации: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.request_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.rate_limit", 100)
	v.SetDefault("server.cors_origins", []string{"*"})

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.min_connections", 2)
	v.SetDefault("database.idle_timeout", 5*time.Minute)
	v.SetDefault("database.migrate_on_start", true)

	v.SetDefault("logging.development", false)
	v.SetDefault("repository.type", RepositoryInMemory)

	v.SetDefault("worker.enabled", true)
	v.SetDefault("worker.interval", 5*time.Minute)
	v.SetDefault("worker.batch_size", 100)

	defaults := productivity.DefaultSettings()
	v.SetDefault("productivity.daily_goal", defaults.DailyGoal)
	v.SetDefault("productivity.weekly_goal", defaults.WeeklyGoal)

	v.SetDefault("seed.file", "")
}

func (c *Config) Validate() error {
	switch c.Repository.Type {
	case RepositoryInMemory:
	case RepositoryPostgres:
		if c.Database.URL == "" {
			return errors.New("для postgres нужен database.url")
		}
	default:
		return fmt.Errorf("неизвестный тип хранилища %q", c.Repository.Type)
	}

	if c.Server.Port == "" {
		return errors.New("не задан порт сервера")
	}
	if c.Server.RateLimit <= 0 {
		return errors.New("rate_limit должен быть положительным")
	}
	return nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}
