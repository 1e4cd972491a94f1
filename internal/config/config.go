package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application. A missing atlas base
// URL, path list, or API key is not a load error: the pipeline answers with
// a degraded-capability response instead, so only malformed values fail Load.
type Config struct {
	AtlasRawBase    string
	AtlasPaths      []string
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	OpenAIModel     string
	APIPort         string
	LogLevel        slog.Level
	LogFormat       string
	FetchTimeout    time.Duration
	CompleteTimeout time.Duration
}

// fileConfig mirrors the optional atlas.yaml file.
type fileConfig struct {
	RawBase string   `yaml:"raw_base"`
	Paths   []string `yaml:"paths"`
	OpenAI  struct {
		APIKey  string `yaml:"api_key"`
		BaseURL string `yaml:"base_url"`
		Model   string `yaml:"model"`
	} `yaml:"openai"`
	Port string `yaml:"port"`
	Log  struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	FetchTimeoutSecs    int `yaml:"fetch_timeout_secs"`
	CompleteTimeoutSecs int `yaml:"complete_timeout_secs"`
}

// Load reads configuration from environment variables, with an optional
// atlas.yaml file filling in anything the environment leaves unset.
// If a .env file exists in the current directory or a parent, it is loaded
// first; variables already set take precedence over .env values.
func Load() (*Config, error) {
	loadDotEnv()
	return load(getEnv("ATLAS_CONFIG_FILE", "atlas.yaml"))
}

// LoadFile is Load with an explicit config file path, used by the CLI.
func LoadFile(path string) (*Config, error) {
	loadDotEnv()
	return load(path)
}

func load(filePath string) (*Config, error) {
	file, err := readFileConfig(filePath)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		AtlasRawBase:  firstNonEmpty(os.Getenv("ATLAS_RAW_BASE"), file.RawBase),
		OpenAIAPIKey:  firstNonEmpty(os.Getenv("OPENAI_API_KEY"), file.OpenAI.APIKey),
		OpenAIBaseURL: firstNonEmpty(os.Getenv("OPENAI_BASE_URL"), file.OpenAI.BaseURL),
		OpenAIModel:   firstNonEmpty(os.Getenv("OPENAI_MODEL"), file.OpenAI.Model),
		APIPort:       firstNonEmpty(os.Getenv("API_PORT"), file.Port, "8787"),
		LogFormat:     firstNonEmpty(os.Getenv("LOG_FORMAT"), file.Log.Format, "text"),
	}

	// Paths come newline-separated from the environment or as a list from
	// the file.
	if raw := os.Getenv("ATLAS_PATHS"); raw != "" {
		cfg.AtlasPaths = splitPaths(raw)
	} else {
		cfg.AtlasPaths = trimPaths(file.Paths)
	}

	level, err := parseLogLevel(firstNonEmpty(os.Getenv("LOG_LEVEL"), file.Log.Level, "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	cfg.FetchTimeout, err = parseTimeout("ATLAS_FETCH_TIMEOUT", file.FetchTimeoutSecs, 10*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.CompleteTimeout, err = parseTimeout("OPENAI_TIMEOUT", file.CompleteTimeoutSecs, 30*time.Second)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadDotEnv tries the current directory, then walks up looking for a .env
// alongside go.mod.
func loadDotEnv() {
	_ = godotenv.Load()

	wd, err := os.Getwd()
	if err != nil {
		return
	}
	dir := wd
	for i := 0; i < 5; i++ {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}

// readFileConfig loads the optional yaml file; a missing file is fine.
func readFileConfig(path string) (*fileConfig, error) {
	var file fileConfig
	if path == "" {
		return &file, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &file, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &file, nil
}

func splitPaths(raw string) []string {
	return trimPaths(strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n"))
}

func trimPaths(paths []string) []string {
	var out []string
	for _, p := range paths {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level %q", level)
	}
}

func parseTimeout(envKey string, fileSecs int, fallback time.Duration) (time.Duration, error) {
	if raw := os.Getenv(envKey); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return 0, fmt.Errorf("%s must be a valid duration: %w", envKey, err)
		}
		if d <= 0 {
			return 0, fmt.Errorf("%s must be greater than 0", envKey)
		}
		return d, nil
	}
	if fileSecs > 0 {
		return time.Duration(fileSecs) * time.Second, nil
	}
	return fallback, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
