// Package config loads application settings from a yaml file and LOCALTRANSLATE_* environment variables.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "LOCALTRANSLATE"

type Config struct {
	Ollama  OllamaConfig  `mapstructure:"ollama"`
	Monitor MonitorConfig `mapstructure:"monitor"`
	Storage StorageConfig `mapstructure:"storage"`
	Log     LogConfig     `mapstructure:"log"`
	Window  WindowConfig  `mapstructure:"window"`
	Prompt  PromptConfig  `mapstructure:"prompt"`
}

type OllamaConfig struct {
	BaseURL string `mapstructure:"base_url"`
	// Timeout bounds one translate call; generation on large models is slow.
	Timeout      time.Duration `mapstructure:"timeout"`
	ProbeTimeout time.Duration `mapstructure:"probe_timeout"`
}

type MonitorConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

type StorageConfig struct {
	DBPath string `mapstructure:"db_path"`
}

type LogConfig struct {
	Dir        string `mapstructure:"dir"`
	Level      string `mapstructure:"level"`
	Console    bool   `mapstructure:"console"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

type WindowConfig struct {
	Title  string `mapstructure:"title"`
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
}

type PromptConfig struct {
	// Template overrides the built-in TranslateGemma prompt (text/template syntax).
	Template string `mapstructure:"template"`
}

// Dir returns ~/.localtranslate, or ".localtranslate" when the home directory is unknown.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".localtranslate"
	}
	return filepath.Join(home, ".localtranslate")
}

func DefaultConfig() *Config {
	dir := Dir()
	return &Config{
		Ollama: OllamaConfig{
			BaseURL:      "http://localhost:11434",
			Timeout:      5 * time.Minute,
			ProbeTimeout: 10 * time.Second,
		},
		Monitor: MonitorConfig{Interval: 30 * time.Second},
		Storage: StorageConfig{DBPath: filepath.Join(dir, "localtranslate.db")},
		Log: LogConfig{
			Dir:        filepath.Join(dir, "logs"),
			Level:      "info",
			Console:    true,
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		Window: WindowConfig{Title: "LocalTranslate", Width: 1024, Height: 720},
	}
}

// Load reads path, or config.yaml from Dir() and the working directory when path is empty.
// A missing file is not an error; defaults and environment apply.
func Load(path string) (*Config, error) {
	def := DefaultConfig()
	v := viper.New()
	setDefaults(v, def)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(Dir())
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return def, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return def, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, c *Config) {
	v.SetDefault("ollama.base_url", c.Ollama.BaseURL)
	v.SetDefault("ollama.timeout", c.Ollama.Timeout)
	v.SetDefault("ollama.probe_timeout", c.Ollama.ProbeTimeout)
	v.SetDefault("monitor.interval", c.Monitor.Interval)
	v.SetDefault("storage.db_path", c.Storage.DBPath)
	v.SetDefault("log.dir", c.Log.Dir)
	v.SetDefault("log.level", c.Log.Level)
	v.SetDefault("log.console", c.Log.Console)
	v.SetDefault("log.max_size_mb", c.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", c.Log.MaxBackups)
	v.SetDefault("window.title", c.Window.Title)
	v.SetDefault("window.width", c.Window.Width)
	v.SetDefault("window.height", c.Window.Height)
	v.SetDefault("prompt.template", c.Prompt.Template)
}
