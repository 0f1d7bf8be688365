package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server            ServerConfig      `yaml:"server"`
	Logger            LoggerConfig      `yaml:"logger"`
	Databases         Databases         `yaml:"databases"`
	Query             QuerySettings     `yaml:"query"`
	Generator         GeneratorSettings `yaml:"generator"`
	BenchmarkSettings BenchmarkSettings `yaml:"benchmark_settings"`
}

type ServerConfig struct {
	AppEnv   string `yaml:"app_env"`
	Addr     string `yaml:"addr"`
	BasePath string `yaml:"base_path"`
}

type LoggerConfig struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
}

type Databases struct {
	Mongo         string `yaml:"mongo"`
	MongoDatabase string `yaml:"mongo_database"`
	Postgres      string `yaml:"postgres"`
	MySQL         string `yaml:"mysql"`
}

// QuerySettings controls the workshop's deliberate slowness. Indexes are
// off by default so the labs start from collection scans.
type QuerySettings struct {
	CreateIndexes bool `yaml:"create_indexes"`
}

type GeneratorSettings struct {
	Seed       int64  `yaml:"seed"`
	Stores     int    `yaml:"stores"`
	Products   int    `yaml:"products"`
	Customers  int    `yaml:"customers"`
	Orders     int    `yaml:"orders"`
	BatchSize  int    `yaml:"batch_size"`
	OutputDir  string `yaml:"output_dir"`
	OrdersFrom string `yaml:"orders_from"`
	OrdersTo   string `yaml:"orders_to"`
}

type BenchmarkSettings struct {
	DefaultDuration    string `yaml:"default_duration"`
	DefaultConcurrency int    `yaml:"default_concurrency"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			AppEnv:   "development",
			Addr:     ":4000",
			BasePath: "/api",
		},
		Logger: LoggerConfig{
			Level:    "info",
			Encoding: "console",
		},
		Databases: Databases{
			Mongo:         "mongodb://localhost:27017/pos?replicaSet=rs0",
			MongoDatabase: "pos",
		},
		Generator: GeneratorSettings{
			Seed:       42,
			Stores:     5,
			Products:   500,
			Customers:  2000,
			Orders:     50000,
			BatchSize:  5000,
			OutputDir:  "seed/imports",
			OrdersFrom: "2024-06-01T00:00:00Z",
			OrdersTo:   "2025-12-31T23:59:59Z",
		},
		BenchmarkSettings: BenchmarkSettings{
			DefaultDuration:    "30s",
			DefaultConcurrency: 10,
		},
	}
}

// LoadConfig reads path over the defaults. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	config := Default()

	file, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return nil, err
	}

	err = yaml.Unmarshal(file, config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return config, nil
}

// envKeys maps config keys to the environment variables that may set them.
var envKeys = map[string][]string{
	"server.app_env":                         {"APP_ENV"},
	"server.addr":                            {"POS_ADDR"},
	"server.base_path":                       {"POS_BASE_PATH"},
	"logger.level":                           {"LOGGER_LEVEL"},
	"logger.encoding":                        {"LOGGER_ENCODING"},
	"databases.mongo":                        {"POS_MONGO_URI", "MONGODB_URI"},
	"databases.mongo_database":               {"POS_MONGO_DATABASE"},
	"databases.postgres":                     {"POS_POSTGRES_DSN"},
	"databases.mysql":                        {"POS_MYSQL_DSN"},
	"query.create_indexes":                   {"POS_CREATE_INDEXES"},
	"generator.seed":                         {"POS_SEED"},
	"generator.orders":                       {"POS_ORDERS"},
	"generator.batch_size":                   {"POS_BATCH_SIZE"},
	"generator.output_dir":                   {"POS_OUTPUT_DIR"},
	"benchmark_settings.default_duration":    {"POS_BENCH_DURATION"},
	"benchmark_settings.default_concurrency": {"POS_BENCH_CONCURRENCY"},
}

// BindEnv registers the environment variables above with v.
func BindEnv(v *viper.Viper) error {
	for key, names := range envKeys {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return err
		}
	}
	return nil
}

// ApplyOverrides copies every key that v has an explicit value for (env,
// changed flag or Set) onto c.
func (c *Config) ApplyOverrides(v *viper.Viper) {
	str := func(key string, dst *string) {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}
	num := func(key string, dst *int) {
		if v.IsSet(key) {
			*dst = v.GetInt(key)
		}
	}

	str("server.app_env", &c.Server.AppEnv)
	str("server.addr", &c.Server.Addr)
	str("server.base_path", &c.Server.BasePath)
	str("logger.level", &c.Logger.Level)
	str("logger.encoding", &c.Logger.Encoding)
	str("databases.mongo", &c.Databases.Mongo)
	str("databases.mongo_database", &c.Databases.MongoDatabase)
	str("databases.postgres", &c.Databases.Postgres)
	str("databases.mysql", &c.Databases.MySQL)
	if v.IsSet("query.create_indexes") {
		c.Query.CreateIndexes = v.GetBool("query.create_indexes")
	}
	if v.IsSet("generator.seed") {
		c.Generator.Seed = v.GetInt64("generator.seed")
	}
	num("generator.stores", &c.Generator.Stores)
	num("generator.products", &c.Generator.Products)
	num("generator.customers", &c.Generator.Customers)
	num("generator.orders", &c.Generator.Orders)
	num("generator.batch_size", &c.Generator.BatchSize)
	str("generator.output_dir", &c.Generator.OutputDir)
	str("benchmark_settings.default_duration", &c.BenchmarkSettings.DefaultDuration)
	num("benchmark_settings.default_concurrency", &c.BenchmarkSettings.DefaultConcurrency)
}

// IsDevelopment reports whether the app runs with development defaults.
func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development" || c.Server.AppEnv == "dev"
}

// OrderWindow parses the generator's createdAt window.
func (g GeneratorSettings) OrderWindow() (time.Time, time.Time, error) {
	from, err := time.Parse(time.RFC3339, g.OrdersFrom)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid orders_from: %w", err)
	}
	to, err := time.Parse(time.RFC3339, g.OrdersTo)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid orders_to: %w", err)
	}
	if !to.After(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("orders_to %s must be after orders_from %s", g.OrdersTo, g.OrdersFrom)
	}
	return from.UTC(), to.UTC(), nil
}

func (b BenchmarkSettings) Duration() (time.Duration, error) {
	return time.ParseDuration(b.DefaultDuration)
}
