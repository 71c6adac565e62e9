package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"ex-console/internal/driver"
)

func writeConfigFile(t *testing.T, path string, contents string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		t.Fatalf("create config dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
}

func newTestRegistry(t *testing.T) *driver.Registry {
	t.Helper()

	registry, err := driver.NewBuiltinRegistry()
	if err != nil {
		t.Fatalf("new builtin registry failed: %v", err)
	}

	return registry
}

func stringPtr(value string) *string {
	return &value
}

func intPtr(value int) *int {
	return &value
}

func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    slog.Level
		wantErr bool
	}{
		{name: "debug", input: "debug", want: slog.LevelDebug},
		{name: "info", input: "info", want: slog.LevelInfo},
		{name: "warn", input: "warn", want: slog.LevelWarn},
		{name: "warning", input: " WARNING ", want: slog.LevelWarn},
		{name: "error", input: "error", want: slog.LevelError},
		{name: "invalid", input: "trace", wantErr: true},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got, err := parseLogLevel(testCase.input)
			if testCase.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !testCase.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if testCase.wantErr {
				return
			}
			if got != testCase.want {
				t.Fatalf("level = %v, want %v", got, testCase.want)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("loads all supported fields from config file", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "console.yaml")
		writeConfigFile(t, configPath, `
frontend: line
max_lines: 64
refresh_interval: 250ms
tick_interval: 20ms
log_level: warn
host_log_level: debug
log_file: var/console.jsonl
alt_screen: false
demo:
  enabled: false
  players: [carol, " dave "]
`)
		t.Setenv(envConfigFile, configPath)

		cfg, err := loadConfig(flagOverrides{}, newTestRegistry(t))
		if err != nil {
			t.Fatalf("load config failed: %v", err)
		}

		if cfg.frontend != "line" {
			t.Fatalf("frontend = %q, want line", cfg.frontend)
		}
		if cfg.maxLines != 64 {
			t.Fatalf("max lines = %d, want 64", cfg.maxLines)
		}
		if cfg.refreshInterval != 250*time.Millisecond {
			t.Fatalf("refresh interval = %s, want 250ms", cfg.refreshInterval)
		}
		if cfg.tickInterval != 20*time.Millisecond {
			t.Fatalf("tick interval = %s, want 20ms", cfg.tickInterval)
		}
		if cfg.logLevel != slog.LevelWarn {
			t.Fatalf("log level = %v, want %v", cfg.logLevel, slog.LevelWarn)
		}
		if cfg.hostLogLevel != slog.LevelDebug {
			t.Fatalf("host log level = %v, want %v", cfg.hostLogLevel, slog.LevelDebug)
		}
		if cfg.logFile != "var/console.jsonl" {
			t.Fatalf("log file = %q, want var/console.jsonl", cfg.logFile)
		}
		if cfg.altScreen {
			t.Fatal("alt screen = true, want false")
		}
		if cfg.demo {
			t.Fatal("demo = true, want false")
		}
		if diff := cmp.Diff([]string{"carol", "dave"}, cfg.demoPlayers); diff != "" {
			t.Fatalf("demo players mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("uses defaults when no config file exists", func(t *testing.T) {
		workDir := t.TempDir()
		currentDir, err := os.Getwd()
		if err != nil {
			t.Fatalf("get working directory: %v", err)
		}
		if err := os.Chdir(workDir); err != nil {
			t.Fatalf("chdir to temp work dir: %v", err)
		}
		t.Cleanup(func() {
			if err := os.Chdir(currentDir); err != nil {
				t.Fatalf("restore working directory: %v", err)
			}
		})
		t.Setenv(envConfigFile, "")

		cfg, err := loadConfig(flagOverrides{}, newTestRegistry(t))
		if err != nil {
			t.Fatalf("load config failed: %v", err)
		}
		want := defaultAppConfig()
		if diff := cmp.Diff(want, cfg, cmp.AllowUnexported(appConfig{})); diff != "" {
			t.Fatalf("config mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("flags override file values", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "console.yaml")
		writeConfigFile(t, configPath, "frontend: tui\nmax_lines: 10\nlog_level: error\n")
		t.Setenv(envConfigFile, "")

		cfg, err := loadConfig(flagOverrides{
			configFile: configPath,
			frontend:   stringPtr("line"),
			maxLines:   intPtr(500),
			logLevel:   stringPtr("debug"),
			noDemo:     true,
		}, newTestRegistry(t))
		if err != nil {
			t.Fatalf("load config failed: %v", err)
		}
		if cfg.frontend != "line" || cfg.maxLines != 500 || cfg.logLevel != slog.LevelDebug || cfg.demo {
			t.Fatalf("config = %+v, want flag values", cfg)
		}
	})

	t.Run("invalid config values fail", func(t *testing.T) {
		tests := []struct {
			name       string
			fileYAML   string
			overrides  flagOverrides
			wantErrSub string
		}{
			{
				name:       "invalid log level",
				fileYAML:   "log_level: trace\n",
				wantErrSub: "parse log_level",
			},
			{
				name:       "invalid host log level",
				fileYAML:   "host_log_level: loud\n",
				wantErrSub: "parse host_log_level",
			},
			{
				name:       "invalid refresh interval",
				fileYAML:   "refresh_interval: soon\n",
				wantErrSub: "parse refresh_interval",
			},
			{
				name:       "non-positive tick interval",
				fileYAML:   "tick_interval: 0s\n",
				wantErrSub: "parse tick_interval",
			},
			{
				name:       "non-positive max lines",
				fileYAML:   "max_lines: 0\n",
				wantErrSub: "parse max_lines",
			},
			{
				name:       "unknown frontend",
				fileYAML:   "frontend: gui\n",
				wantErrSub: `frontend "gui": unsupported type`,
			},
			{
				name:       "empty demo player",
				fileYAML:   "demo:\n  players: [alice, \"\"]\n",
				wantErrSub: "parse demo.players[1]",
			},
			{
				name:       "duplicate demo player",
				fileYAML:   "demo:\n  players: [alice, Alice]\n",
				wantErrSub: "demo.players: duplicate name",
			},
			{
				name:       "malformed yaml",
				fileYAML:   "frontend: [line\n",
				wantErrSub: "parse config file",
			},
			{
				name:       "invalid max lines flag",
				fileYAML:   "frontend: line\n",
				overrides:  flagOverrides{maxLines: intPtr(-1)},
				wantErrSub: "parse --max-lines",
			},
			{
				name:       "invalid log level flag",
				fileYAML:   "frontend: line\n",
				overrides:  flagOverrides{logLevel: stringPtr("loud")},
				wantErrSub: "parse --log-level",
			},
		}

		for _, testCase := range tests {
			testCase := testCase
			t.Run(testCase.name, func(t *testing.T) {
				configPath := filepath.Join(t.TempDir(), "console.yaml")
				writeConfigFile(t, configPath, testCase.fileYAML)
				t.Setenv(envConfigFile, configPath)

				_, err := loadConfig(testCase.overrides, newTestRegistry(t))
				if err == nil {
					t.Fatal("expected error")
				}
				if !strings.Contains(err.Error(), testCase.wantErrSub) {
					t.Fatalf("error = %v, want substring %q", err, testCase.wantErrSub)
				}
			})
		}
	})

	t.Run("missing explicit config file fails", func(t *testing.T) {
		t.Setenv(envConfigFile, filepath.Join(t.TempDir(), "missing.yaml"))
		if _, err := loadConfig(flagOverrides{}, newTestRegistry(t)); err == nil {
			t.Fatal("expected error for missing config file")
		}
	})
}

func TestOpenLogWriter(t *testing.T) {
	t.Parallel()

	t.Run("empty path discards", func(t *testing.T) {
		t.Parallel()

		writer, closeLog, err := openLogWriter("")
		if err != nil {
			t.Fatalf("open log writer failed: %v", err)
		}
		if _, err := writer.Write([]byte("ignored")); err != nil {
			t.Fatalf("write failed: %v", err)
		}
		if err := closeLog(); err != nil {
			t.Fatalf("close failed: %v", err)
		}
	})

	t.Run("creates parent directories and appends", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "nested", "log", "console.jsonl")
		for _, line := range []string{"first\n", "second\n"} {
			writer, closeLog, err := openLogWriter(path)
			if err != nil {
				t.Fatalf("open log writer failed: %v", err)
			}
			if _, err := writer.Write([]byte(line)); err != nil {
				t.Fatalf("write failed: %v", err)
			}
			if err := closeLog(); err != nil {
				t.Fatalf("close failed: %v", err)
			}
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read log file failed: %v", err)
		}
		if string(data) != "first\nsecond\n" {
			t.Fatalf("log file = %q, want both lines", data)
		}
	})
}

func TestRuntimeModules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		demo bool
		want []string
	}{
		{name: "with demo", demo: true, want: []string{"help", "maintenance", "pingpong", "demo"}},
		{name: "without demo", demo: false, want: []string{"help", "maintenance", "pingpong"}},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			cfg := defaultAppConfig()
			cfg.demo = testCase.demo
			names := make([]string, 0)
			for _, module := range runtimeModules(cfg) {
				names = append(names, module.Name())
			}
			if diff := cmp.Diff(testCase.want, names); diff != "" {
				t.Fatalf("modules mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRunLineFrontend(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "console.yaml")
	logPath := filepath.Join(t.TempDir(), "console.jsonl")
	writeConfigFile(t, configPath, "frontend: line\ntick_interval: 5ms\nlog_file: "+logPath+"\ndemo:\n  players: [alice]\n")
	t.Setenv(envConfigFile, configPath)

	var output strings.Builder
	input := strings.NewReader("ping\ndamage 25\nfail\nbogus\n")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := run(ctx, flagOverrides{}, terminal{input: input, output: &output}); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	text := output.String()
	for _, want := range []string{
		"[CONSOLE][LOG]: Console linked to host log",
		"> ping",
		"[CONSOLE][LOG]: pong!",
		"alice > took 25.0 damage, health 75.0",
		"[CONSOLE][EXCEPTION]: command fail: panic recovered",
		"[CONSOLE][ERROR]: Unknown command",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("output missing %q:\n%s", want, text)
		}
	}

	logData, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read diagnostic log failed: %v", err)
	}
	if !strings.Contains(string(logData), `"msg":"console started"`) {
		t.Fatalf("diagnostic log missing start record: %s", logData)
	}
}

func TestRootCommandRejectsArgs(t *testing.T) {
	t.Parallel()

	command := newRootCommand()
	command.SetArgs([]string{"unexpected"})
	command.SetOut(&strings.Builder{})
	command.SetErr(&strings.Builder{})
	if err := command.Execute(); err == nil {
		t.Fatal("expected error for positional arguments")
	}
}
