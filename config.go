package main

import (
	"errors"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type LogConfig struct {
	File       string `yaml:"file" env:"LOG_FILE"`
	MaxSizeMB  int    `yaml:"max_size_mb" env:"LOG_MAX_SIZE_MB" env-default:"10"`
	MaxBackups int    `yaml:"max_backups" env:"LOG_MAX_BACKUPS" env-default:"3"`
	MaxAgeDays int    `yaml:"max_age_days" env:"LOG_MAX_AGE_DAYS" env-default:"28"`
}

type HTTPConfig struct {
	Address        string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":3001"`
	ReadTimeout    time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"15s"`
	WriteTimeout   time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"15s"`
	AllowedOrigins []string      `yaml:"allowed_origins" env:"HTTP_ALLOWED_ORIGINS" env-default:"*" env-separator:","`
	StaticDir      string        `yaml:"static_dir" env:"HTTP_STATIC_DIR"`
}

type StorageConfig struct {
	Backend      string `yaml:"backend" env:"STORAGE_BACKEND" env-default:"sqlite"`
	TasksBackend string `yaml:"tasks_backend" env:"STORAGE_TASKS_BACKEND"`
	SQLitePath   string `yaml:"sqlite_path" env:"SQLITE_PATH" env-default:"data/workbench.db"`
}

type CacheConfig struct {
	Path string `yaml:"path" env:"CACHE_PATH" env-default:"data/cache.db"`
}

type GistConfig struct {
	ID     string `yaml:"id" env:"GIST_ID"`
	Token  string `yaml:"token" env:"GIST_TOKEN"`
	APIURL string `yaml:"api_url" env:"GIST_API_URL" env-default:"https://api.github.com"`
}

type ConvexConfig struct {
	URL string `yaml:"url" env:"CONVEX_URL"`
}

type TelegramConfig struct {
	Token  string `yaml:"token" env:"TELEGRAM_BOT_TOKEN"`
	APIURL string `yaml:"api_url" env:"TELEGRAM_API_URL" env-default:"https://api.telegram.org"`
}

type SyncConfig struct {
	Timeout time.Duration `yaml:"timeout" env:"SYNC_TIMEOUT" env-default:"15s"`
}

type Config struct {
	LogLevel string         `yaml:"log_level" env:"LOG_LEVEL" env-default:"INFO"`
	Log      LogConfig      `yaml:"log"`
	HTTP     HTTPConfig     `yaml:"http"`
	Storage  StorageConfig  `yaml:"storage"`
	Cache    CacheConfig    `yaml:"cache"`
	Gist     GistConfig     `yaml:"gist"`
	Convex   ConvexConfig   `yaml:"convex"`
	Telegram TelegramConfig `yaml:"telegram"`
	Sync     SyncConfig     `yaml:"sync"`
}

// LoadConfig reads the YAML (or .env) file at path with environment
// overrides. A missing file falls back to the environment alone.
func LoadConfig(path string) (Config, error) {
	var cfg Config

	if path == "" {
		err := cleanenv.ReadEnv(&cfg)
		return cfg, err
	}

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		var pe *os.PathError
		if errors.As(err, &pe) {
			err = cleanenv.ReadEnv(&cfg)
			return cfg, err
		}
		return cfg, err
	}
	return cfg, nil
}

func MustLoad(path string) Config {
	cfg, err := LoadConfig(path)
	if err != nil {
		log.Fatalf("cannot read config %q: %s", path, err)
	}
	return cfg
}
