package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Source names accepted in the sources list.
const (
	SourceLRCLib     = "lrclib"
	SourceLyricsOVH  = "lyricsovh"
	SourceMusixmatch = "musixmatch"
)

// AllSources lists every source in priority order.
var AllSources = []string{SourceLRCLib, SourceLyricsOVH, SourceMusixmatch}

var validate = validator.New()

// Config contains the program configuration
type Config struct {
	Listen           string        `yaml:"listen" validate:"required"`
	MusixmatchAPIKey string        `yaml:"musixmatch_api_key,omitempty"`
	Sources          []string      `yaml:"sources" validate:"min=1,unique,dive,oneof=lrclib lyricsovh musixmatch"`
	SourceTimeout    time.Duration `yaml:"source_timeout" validate:"gt=0"`
	RateLimit        float64       `yaml:"rate_limit" validate:"gte=0"`
	UserAgent        string        `yaml:"user_agent" validate:"required"`
	Verbose          bool          `yaml:"verbose"`
	LogFile          string        `yaml:"log_file,omitempty"`
	AllowedOrigin    string        `yaml:"allowed_origin"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Listen:        ":8080",
		Sources:       slices.Clone(AllSources),
		SourceTimeout: 8 * time.Second,
		UserAgent:     "bestlyrics/1.0",
		AllowedOrigin: "*",
	}
}

// LoadConfigFile loads configuration from a YAML file.
// If path is empty, searches standard locations. Returns defaults if no file found.
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = FindConfigFile()
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.LogFile = ExpandHome(cfg.LogFile)

	return cfg, nil
}

// Load reads the config file, then a .env file in the working directory,
// then applies environment overrides.
func Load(path string) (Config, error) {
	cfg, err := LoadConfigFile(path)
	if err != nil {
		return cfg, err
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("failed to load .env: %w", err)
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// ApplyEnv overrides fields from the environment. BESTLYRICS_LISTEN wins
// over PORT.
func (c *Config) ApplyEnv() {
	if key := os.Getenv("MUSIXMATCH_API_KEY"); key != "" {
		c.MusixmatchAPIKey = key
	}
	if port := os.Getenv("PORT"); port != "" {
		c.Listen = ":" + port
	}
	if listen := os.Getenv("BESTLYRICS_LISTEN"); listen != "" {
		c.Listen = listen
	}
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir(), path[2:])
	}
	return path
}

// FindConfigFile searches for a config file in standard locations
func FindConfigFile() string {
	home := homeDir()
	locations := []string{
		"./bestlyrics.yaml",
		"./bestlyrics.yml",
		filepath.Join(home, ".config", "bestlyrics", "config.yaml"),
		filepath.Join(home, ".config", "bestlyrics", "config.yml"),
		filepath.Join(home, ".bestlyrics.yaml"),
		filepath.Join(home, ".bestlyrics.yml"),
	}

	for _, path := range locations {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// SaveConfigFile saves the configuration to a YAML file
func SaveConfigFile(cfg Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// 0600: the file may hold an API key.
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetDefaultConfigPath returns the default config file path
func GetDefaultConfigPath() string {
	return filepath.Join(homeDir(), ".config", "bestlyrics", "config.yaml")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return os.Getenv("HOME")
	}
	return home
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// HasSource reports whether the named source is enabled.
func (c *Config) HasSource(name string) bool {
	return slices.Contains(c.Sources, name)
}
