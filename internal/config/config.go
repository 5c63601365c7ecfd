package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/saravenpi/duet/internal/chat"
	"github.com/saravenpi/duet/internal/logger"
	"github.com/saravenpi/duet/internal/storage"
	"gopkg.in/yaml.v3"
)

type Config struct {
	DataDir     string        `yaml:"data_dir"`
	Backend     string        `yaml:"backend"`
	LogLevel    string        `yaml:"log_level"`
	IDPolicy    string        `yaml:"id_policy"`
	TypingDelay time.Duration `yaml:"typing_delay"`
}

// DefaultDataDir returns ~/.duet.
func DefaultDataDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".duet")
}

func Default() Config {
	return Config{
		DataDir:     DefaultDataDir(),
		Backend:     storage.BackendSQLite,
		LogLevel:    "info",
		IDPolicy:    string(chat.IDSequential),
		TypingDelay: time.Second,
	}
}

// Load builds the config from defaults, an optional .env file, the
// environment and finally <dataDir>/config.yml.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if v := os.Getenv("DUET_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}

	if err := cfg.mergeFile(filepath.Join(cfg.DataDir, "config.yml")); err != nil {
		return cfg, err
	}

	if v := os.Getenv("DUET_BACKEND"); v != "" {
		cfg.Backend = v
	}
	if v := os.Getenv("DUET_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("DUET_ID_POLICY"); v != "" {
		cfg.IDPolicy = v
	}

	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if fileCfg.DataDir != "" {
		c.DataDir = fileCfg.DataDir
	}
	if fileCfg.Backend != "" {
		c.Backend = fileCfg.Backend
	}
	if fileCfg.LogLevel != "" {
		c.LogLevel = fileCfg.LogLevel
	}
	if fileCfg.IDPolicy != "" {
		c.IDPolicy = fileCfg.IDPolicy
	}
	if fileCfg.TypingDelay > 0 {
		c.TypingDelay = fileCfg.TypingDelay
	}
	return nil
}

func (c Config) Validate() error {
	switch c.Backend {
	case storage.BackendSQLite, storage.BackendPebble, storage.BackendMemory:
	default:
		return fmt.Errorf("unknown backend %q (want sqlite, pebble or memory)", c.Backend)
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if _, err := chat.ParseIDPolicy(c.IDPolicy); err != nil {
		return err
	}
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}
	return nil
}

func (c Config) LogPath() string {
	return filepath.Join(c.DataDir, "duet.log")
}
