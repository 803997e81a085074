package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultConfigFile = "inventory.yaml"

const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMySQL  = "mysql"
	BackendSQLite = "sqlite"
)

var ErrUnknownBackend = errors.New("unknown backend")

// Config holds all inventory-tracker configuration. The zero-config defaults
// reproduce the plain file-backed run.
type Config struct {
	DataFile          string `yaml:"data_file"`
	Backend           string `yaml:"backend"` // file, redis, mysql, sqlite
	LowStockThreshold int    `yaml:"low_stock_threshold"`
	QueryItem         string `yaml:"query_item"`

	Logging LoggingConfig `yaml:"logging"`
	Redis   RedisConfig   `yaml:"redis"`
	MySQL   MySQLConfig   `yaml:"mysql"`
	SQLite  SQLiteConfig  `yaml:"sqlite"`
	Server  ServerConfig  `yaml:"server"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console, json
}

type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
}

type MySQLConfig struct {
	DSN string `yaml:"dsn"`
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// ServerConfig configures `inventory serve`.
type ServerConfig struct {
	HTTPAddr        string `yaml:"http_addr"`
	GRPCAddr        string `yaml:"grpc_addr"`
	QueueSize       int    `yaml:"queue_size"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
	SaveTimeout     string `yaml:"save_timeout"`
}

func DefaultConfig() *Config {
	return &Config{
		DataFile:          "inventory.json",
		Backend:           BackendFile,
		LowStockThreshold: 5,
		QueryItem:         "apple",
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Redis: RedisConfig{
			Addr:      "localhost:6379",
			KeyPrefix: "inventory",
		},
		MySQL: MySQLConfig{
			DSN: "root:root@tcp(localhost:3306)/inventory?parseTime=true",
		},
		SQLite: SQLiteConfig{
			Path: "inventory.db",
		},
		Server: ServerConfig{
			HTTPAddr:        ":8080",
			GRPCAddr:        ":50051",
			QueueSize:       1000,
			ShutdownTimeout: "5s",
			SaveTimeout:     "5s",
		},
	}
}

// Load reads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// defaults only
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if path := os.Getenv("INVENTORY_FILE"); path != "" {
		c.DataFile = path
	}
	if backend := os.Getenv("INVENTORY_BACKEND"); backend != "" {
		c.Backend = strings.ToLower(backend)
	}
	if level := os.Getenv("INVENTORY_LOG_LEVEL"); level != "" {
		c.Logging.Level = strings.ToLower(level)
	}

	// Same variable names the storage tests use
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		c.Redis.Addr = addr
	}
	if dsn := os.Getenv("MYSQL_DSN"); dsn != "" {
		c.MySQL.DSN = dsn
	}
	if path := os.Getenv("SQLITE_PATH"); path != "" {
		c.SQLite.Path = path
	}
}

// Validate checks the fields the selected backend and server depend on.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendFile:
		if c.DataFile == "" {
			return errors.New("data_file is required for the file backend")
		}
	case BackendRedis:
		if c.Redis.Addr == "" {
			return errors.New("redis.addr is required for the redis backend")
		}
	case BackendMySQL:
		if c.MySQL.DSN == "" {
			return errors.New("mysql.dsn is required for the mysql backend")
		}
	case BackendSQLite:
		if c.SQLite.Path == "" {
			return errors.New("sqlite.path is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Backend)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging.level %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("invalid logging.format %q", c.Logging.Format)
	}

	if c.Server.QueueSize <= 0 {
		return fmt.Errorf("server.queue_size must be positive, got %d", c.Server.QueueSize)
	}
	return nil
}

func (c *Config) GetShutdownTimeout() time.Duration {
	return parseDuration(c.Server.ShutdownTimeout, 5*time.Second)
}

func (c *Config) GetSaveTimeout() time.Duration {
	return parseDuration(c.Server.SaveTimeout, 5*time.Second)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
