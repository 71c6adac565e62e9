package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"ex-console/internal/driver"
	"ex-console/internal/driver/tui"
)

const (
	envConfigFile          = "CONSOLE_CONFIG_FILE"
	defaultConfigFilePath  = "config/console.yaml"
	defaultMaxLines        = 200
	defaultRefreshInterval = 100 * time.Millisecond
	defaultTickInterval    = 50 * time.Millisecond
)

var defaultDemoPlayers = []string{"alice", "bob"}

type appConfig struct {
	frontend string

	maxLines        int
	refreshInterval time.Duration
	tickInterval    time.Duration

	logLevel     slog.Level
	hostLogLevel slog.Level
	logFile      string

	altScreen   bool
	demo        bool
	demoPlayers []string
}

type fileConfig struct {
	Frontend        string         `yaml:"frontend"`
	MaxLines        *int           `yaml:"max_lines"`
	RefreshInterval string         `yaml:"refresh_interval"`
	TickInterval    string         `yaml:"tick_interval"`
	LogLevel        string         `yaml:"log_level"`
	HostLogLevel    string         `yaml:"host_log_level"`
	LogFile         string         `yaml:"log_file"`
	AltScreen       *bool          `yaml:"alt_screen"`
	Demo            fileDemoConfig `yaml:"demo"`
}

type fileDemoConfig struct {
	Enabled *bool    `yaml:"enabled"`
	Players []string `yaml:"players"`
}

// flagOverrides carries command-line values that were explicitly set.
type flagOverrides struct {
	configFile string
	frontend   *string
	maxLines   *int
	logLevel   *string
	noDemo     bool
}

func loadConfig(overrides flagOverrides, registry *driver.Registry) (appConfig, error) {
	cfg := defaultAppConfig()
	configFile, err := resolveConfigFilePath(overrides.configFile)
	if err != nil {
		return appConfig{}, err
	}
	if configFile != "" {
		if err := applyConfigFile(&cfg, configFile); err != nil {
			return appConfig{}, err
		}
	}
	if err := applyFlagOverrides(&cfg, overrides); err != nil {
		return appConfig{}, err
	}
	if err := validateAppConfig(&cfg, registry); err != nil {
		if configFile == "" {
			return appConfig{}, fmt.Errorf("validate config: %w", err)
		}
		return appConfig{}, fmt.Errorf("validate config file %s: %w", configFile, err)
	}

	return cfg, nil
}

// resolveConfigFilePath returns an empty path when no config file exists and
// none was requested explicitly.
func resolveConfigFilePath(explicit string) (string, error) {
	if configFile := strings.TrimSpace(explicit); configFile != "" {
		return configFile, nil
	}
	if configFile := strings.TrimSpace(os.Getenv(envConfigFile)); configFile != "" {
		return configFile, nil
	}

	info, err := os.Stat(defaultConfigFilePath)
	if err == nil {
		if info.IsDir() {
			return "", fmt.Errorf("config file %s is a directory", defaultConfigFilePath)
		}
		return defaultConfigFilePath, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("stat config file %s: %w", defaultConfigFilePath, err)
	}

	return "", nil
}

func defaultAppConfig() appConfig {
	return appConfig{
		frontend: tui.FrontendType,

		maxLines:        defaultMaxLines,
		refreshInterval: defaultRefreshInterval,
		tickInterval:    defaultTickInterval,

		logLevel:     slog.LevelInfo,
		hostLogLevel: slog.LevelInfo,

		altScreen:   true,
		demo:        true,
		demoPlayers: append([]string(nil), defaultDemoPlayers...),
	}
}

func applyConfigFile(cfg *appConfig, path string) error {
	if cfg == nil {
		return fmt.Errorf("apply config file: nil config")
	}
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("config file path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	var parsed fileConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if frontendType := strings.TrimSpace(parsed.Frontend); frontendType != "" {
		cfg.frontend = frontendType
	}
	if parsed.MaxLines != nil {
		if *parsed.MaxLines <= 0 {
			return fmt.Errorf("parse max_lines: must be > 0")
		}
		cfg.maxLines = *parsed.MaxLines
	}
	if raw := strings.TrimSpace(parsed.RefreshInterval); raw != "" {
		interval, err := parsePositiveDuration(raw)
		if err != nil {
			return fmt.Errorf("parse refresh_interval: %w", err)
		}
		cfg.refreshInterval = interval
	}
	if raw := strings.TrimSpace(parsed.TickInterval); raw != "" {
		interval, err := parsePositiveDuration(raw)
		if err != nil {
			return fmt.Errorf("parse tick_interval: %w", err)
		}
		cfg.tickInterval = interval
	}
	if raw := strings.TrimSpace(parsed.LogLevel); raw != "" {
		level, err := parseLogLevel(raw)
		if err != nil {
			return fmt.Errorf("parse log_level: %w", err)
		}
		cfg.logLevel = level
	}
	if raw := strings.TrimSpace(parsed.HostLogLevel); raw != "" {
		level, err := parseLogLevel(raw)
		if err != nil {
			return fmt.Errorf("parse host_log_level: %w", err)
		}
		cfg.hostLogLevel = level
	}
	cfg.logFile = strings.TrimSpace(parsed.LogFile)
	if parsed.AltScreen != nil {
		cfg.altScreen = *parsed.AltScreen
	}
	if parsed.Demo.Enabled != nil {
		cfg.demo = *parsed.Demo.Enabled
	}
	if parsed.Demo.Players != nil {
		cfg.demoPlayers = make([]string, 0, len(parsed.Demo.Players))
		for index, name := range parsed.Demo.Players {
			name = strings.TrimSpace(name)
			if name == "" {
				return fmt.Errorf("parse demo.players[%d]: empty name", index)
			}
			cfg.demoPlayers = append(cfg.demoPlayers, name)
		}
	}

	return nil
}

func applyFlagOverrides(cfg *appConfig, overrides flagOverrides) error {
	if overrides.frontend != nil {
		cfg.frontend = strings.TrimSpace(*overrides.frontend)
	}
	if overrides.maxLines != nil {
		if *overrides.maxLines <= 0 {
			return fmt.Errorf("parse --max-lines: must be > 0")
		}
		cfg.maxLines = *overrides.maxLines
	}
	if overrides.logLevel != nil {
		level, err := parseLogLevel(*overrides.logLevel)
		if err != nil {
			return fmt.Errorf("parse --log-level: %w", err)
		}
		cfg.logLevel = level
	}
	if overrides.noDemo {
		cfg.demo = false
	}

	return nil
}

func validateAppConfig(cfg *appConfig, registry *driver.Registry) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	if registry == nil {
		return fmt.Errorf("nil frontend registry")
	}
	if cfg.frontend == "" {
		return fmt.Errorf("frontend is required")
	}
	if !slices.Contains(registry.Types(), cfg.frontend) {
		return fmt.Errorf("frontend %q: unsupported type, want one of %s", cfg.frontend, strings.Join(registry.Types(), ", "))
	}
	if cfg.maxLines <= 0 {
		return fmt.Errorf("max_lines must be > 0")
	}
	if cfg.refreshInterval <= 0 {
		return fmt.Errorf("refresh_interval must be > 0")
	}
	if cfg.tickInterval <= 0 {
		return fmt.Errorf("tick_interval must be > 0")
	}

	seen := make(map[string]struct{}, len(cfg.demoPlayers))
	for _, name := range cfg.demoPlayers {
		key := strings.ToLower(name)
		if _, exists := seen[key]; exists {
			return fmt.Errorf("demo.players: duplicate name %s", name)
		}
		seen[key] = struct{}{}
	}

	return nil
}

func parsePositiveDuration(raw string) (time.Duration, error) {
	duration, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if duration <= 0 {
		return 0, fmt.Errorf("must be > 0")
	}

	return duration, nil
}

func parseLogLevel(raw string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unsupported level %q", raw)
	}
}
