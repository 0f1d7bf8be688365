package main

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"pos-workshop/internal/config"
	"pos-workshop/internal/logger"
)

var (
	cfgFile string
	cfg     *config.Config
	log     *zap.Logger
)

// flagKeys maps config keys to the flag that overrides them, on whichever
// command defines it.
var flagKeys = map[string]string{
	"server.addr":                            "addr",
	"server.base_path":                       "base-path",
	"databases.mongo":                        "mongo-uri",
	"databases.postgres":                     "postgres-dsn",
	"databases.mysql":                        "mysql-dsn",
	"query.create_indexes":                   "create-indexes",
	"generator.seed":                         "seed",
	"generator.stores":                       "stores",
	"generator.products":                     "products",
	"generator.customers":                    "customers",
	"generator.orders":                       "orders",
	"generator.batch_size":                   "batch-size",
	"generator.output_dir":                   "output-dir",
	"benchmark_settings.default_duration":    "duration",
	"benchmark_settings.default_concurrency": "concurrency",
}

var rootCmd = &cobra.Command{
	Use:   "posctl",
	Short: "POS workshop toolkit: seed data, serve the API, benchmark the slow queries",
	Long: `posctl generates the deterministic point-of-sale dataset used in the
MongoDB performance labs, serves the deliberately unoptimized POS API on top
of it, and benchmarks the API's queries.`,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file")
	rootCmd.PersistentFlags().String("mongo-uri", "", "MongoDB connection string")

	rootCmd.AddCommand(serveCmd, seedCmd, benchCmd)
}

func Execute() error {
	return rootCmd.Execute()
}

func initConfig(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil {
		_ = godotenv.Load(".env.local")
	}

	c, err := config.LoadConfig(cfgFile)
	if err != nil {
		return err
	}

	v := viper.New()
	if err := config.BindEnv(v); err != nil {
		return err
	}
	if err := bindFlags(v, cmd.Flags()); err != nil {
		return err
	}
	c.ApplyOverrides(v)
	cfg = c

	l, err := logger.NewZapLogger(&logger.ZapLoggerConfig{
		IsDevelopment:     cfg.IsDevelopment(),
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableStacktrace: !cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("invalid logger config: %w", err)
	}
	log = l
	return nil
}

// bindFlags binds every known flag the command has. Viper only reports a
// bound flag as set once the user changed it, so defaults stay with config.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for key, name := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return err
		}
	}
	return nil
}
