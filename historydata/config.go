package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "HISTORYDATA"

// Config is the merged configuration for one invocation.
type Config struct {
	BaseDir    string
	DataDir    string
	FormatFile string
	IndexFile  string
	PriceFile  string
	OutputFile string
	Encoding   string

	ParquetFile string
	PostgresURL string

	LogLevel  string
	LogFormat string
}

// loadConfig merges, highest precedence first: command-line flags,
// HISTORYDATA_* environment variables (including those from a .env file),
// the YAML config file, flag defaults.
func loadConfig(cmd *cobra.Command) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	if configFile := v.GetString("config"); configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("historydata")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	return &Config{
		BaseDir:     v.GetString("base-dir"),
		DataDir:     v.GetString("data-dir"),
		FormatFile:  v.GetString("format-file"),
		IndexFile:   v.GetString("index-file"),
		PriceFile:   v.GetString("price-file"),
		OutputFile:  v.GetString("output"),
		Encoding:    v.GetString("encoding"),
		ParquetFile: v.GetString("parquet"),
		PostgresURL: v.GetString("pg"),
		LogLevel:    v.GetString("log-level"),
		LogFormat:   v.GetString("log-format"),
	}, nil
}

// loadEnvFiles loads .env and .env.local from the working directory if
// present. Variables already set in the environment win.
func loadEnvFiles() {
	for _, name := range []string{".env.local", ".env"} {
		if _, err := os.Stat(name); err == nil {
			_ = godotenv.Load(name)
		}
	}
}
