// Package config loads dawgdict configuration from an optional YAML
// file overlaid with environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root configuration.
type Config struct {
	Data  DataConfig  `yaml:"data"`
	SCOWL ScowlConfig `yaml:"scowl"`
	Log   LogConfig   `yaml:"log"`
	Serve ServeConfig `yaml:"serve"`
}

// DataConfig holds filesystem locations for inputs and artifacts.
type DataConfig struct {
	Dir         string `yaml:"dir"          env:"DAWGDICT_DATA_DIR"     env-default:"data"`
	WordsFile   string `yaml:"words_file"   env:"DAWGDICT_WORDS_FILE"   env-default:"words.txt"`
	DawgFile    string `yaml:"dawg_file"    env:"DAWGDICT_DAWG_FILE"    env-default:"dict.dawg"`
	MetaFile    string `yaml:"meta_file"    env:"DAWGDICT_META_FILE"    env-default:"dict.meta.json"`
	LicensesDir string `yaml:"licenses_dir" env:"DAWGDICT_LICENSES_DIR" env-default:"licenses"`
}

// ScowlConfig selects the SCOWL profile and optional checksum pin.
type ScowlConfig struct {
	Size          int    `yaml:"size"           env:"DAWGDICT_SCOWL_SIZE"           env-default:"80"`
	Spellings     string `yaml:"spellings"      env:"DAWGDICT_SCOWL_SPELLINGS"      env-default:"A,B,Z,C,D"`
	VariantLevel  int    `yaml:"variant_level"  env:"DAWGDICT_SCOWL_VARIANT_LEVEL"  env-default:"5"`
	ArchiveSHA256 string `yaml:"archive_sha256" env:"DAWGDICT_SCOWL_ARCHIVE_SHA256"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"DAWGDICT_LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"DAWGDICT_LOG_FORMAT" env-default:"text"`
}

// ServeConfig holds HTTP server settings for the serve command.
type ServeConfig struct {
	Host            string        `yaml:"host"             env:"DAWGDICT_SERVE_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"DAWGDICT_SERVE_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"DAWGDICT_SERVE_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"DAWGDICT_SERVE_WRITE_TIMEOUT"    env-default:"30s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"DAWGDICT_SERVE_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// Load reads configuration from path if it exists, then applies
// environment overrides. An empty path skips the file entirely.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, &cfg); err != nil {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
			return &cfg, nil
		}
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read config from environment: %w", err)
	}
	return &cfg, nil
}
