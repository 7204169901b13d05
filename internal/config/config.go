package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// EngineConfig sizes the worker pool.
type EngineConfig struct {
	Workers   int `yaml:"workers"`
	QueueSize int `yaml:"queue_size"`
}

// CorpusConfig selects the training corpus. An empty path means the built-in seed.
type CorpusConfig struct {
	Path string `yaml:"path"`
}

// CacheConfig sizes the result cache. Zero disables it.
type CacheConfig struct {
	Size int `yaml:"size"`
}

// JournalConfig controls the SQLite request journal.
type JournalConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// LogConfig selects log level (debug, info, warn, error) and format (text, json).
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Engine  EngineConfig  `yaml:"engine"`
	Corpus  CorpusConfig  `yaml:"corpus"`
	Cache   CacheConfig   `yaml:"cache"`
	Journal JournalConfig `yaml:"journal"`
	Log     LogConfig     `yaml:"log"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			return cfg, applyEnv(cfg)
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, applyEnv(&cfg)
}

// LoadDefault tries ./config.yaml first, then ~/.config/cvscore/config.yaml.
// If neither exists, it writes defaults to ~/.config/cvscore/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, applyEnv(cfg)
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "cvscore", "config.yaml"), nil
}

func defaultJournalPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "cvscore-journal.db"
	}
	return filepath.Join(home, ".local", "share", "cvscore", "journal.db")
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		Engine:  EngineConfig{Workers: 1, QueueSize: 64},
		Cache:   CacheConfig{Size: 256},
		Journal: JournalConfig{Enabled: false, Path: defaultJournalPath()},
		Log:     LogConfig{Level: "info", Format: "text"},
	}
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Engine.Workers <= 0 {
		cfg.Engine.Workers = 1
	}
	if cfg.Engine.QueueSize <= 0 {
		cfg.Engine.QueueSize = 64
	}
	if cfg.Cache.Size < 0 {
		cfg.Cache.Size = 0
	}
	if cfg.Journal.Path == "" {
		cfg.Journal.Path = defaultJournalPath()
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}

// applyEnv overrides file values with CVSCORE_* environment variables.
func applyEnv(cfg *AppConfig) error {
	if v := os.Getenv("CVSCORE_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("CVSCORE_WORKERS: invalid worker count %q", v)
		}
		cfg.Engine.Workers = n
	}
	if v := os.Getenv("CVSCORE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("CVSCORE_JOURNAL_PATH"); v != "" {
		cfg.Journal.Enabled = true
		cfg.Journal.Path = v
	}
	return nil
}
