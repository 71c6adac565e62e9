package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"ex-console/internal/driver"
	"ex-console/internal/driver/frontend"
	"ex-console/internal/kernel"
	"ex-console/modules/demo"
	"ex-console/modules/help"
	"ex-console/modules/maintenance"
	"ex-console/modules/pingpong"
	"ex-console/pkg/console"
)

// terminal is the operator side of the process.
type terminal struct {
	input  io.Reader
	output io.Writer
}

func newRootCommand() *cobra.Command {
	var (
		configFile string
		frontendID string
		maxLines   int
		logLevel   string
		noDemo     bool
	)

	command := &cobra.Command{
		Use:           "console",
		Short:         "Run the diagnostic console against the sandbox host",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			overrides := flagOverrides{configFile: configFile, noDemo: noDemo}
			if cmd.Flags().Changed("frontend") {
				overrides.frontend = &frontendID
			}
			if cmd.Flags().Changed("max-lines") {
				overrides.maxLines = &maxLines
			}
			if cmd.Flags().Changed("log-level") {
				overrides.logLevel = &logLevel
			}

			return run(cmd.Context(), overrides, terminal{input: cmd.InOrStdin(), output: cmd.OutOrStdout()})
		},
	}

	flags := command.Flags()
	flags.StringVar(&configFile, "config", "", "config file path (default "+defaultConfigFilePath+" or $"+envConfigFile+")")
	flags.StringVar(&frontendID, "frontend", "", "frontend type: tui or line")
	flags.IntVar(&maxLines, "max-lines", defaultMaxLines, "console log capacity")
	flags.StringVar(&logLevel, "log-level", "info", "diagnostic log level")
	flags.BoolVar(&noDemo, "no-demo", false, "do not register the demo world")

	return command
}

func run(ctx context.Context, overrides flagOverrides, term terminal) error {
	if ctx == nil {
		ctx = context.Background()
	}

	registry, err := driver.NewBuiltinRegistry()
	if err != nil {
		return fmt.Errorf("new builtin frontend registry: %w", err)
	}

	cfg, err := loadConfig(overrides, registry)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logWriter, closeLog, err := openLogWriter(cfg.logFile)
	if err != nil {
		return err
	}
	defer func() {
		_ = closeLog()
	}()

	logger := slog.New(slog.NewJSONHandler(logWriter, &slog.HandlerOptions{Level: cfg.logLevel}))
	consoleKernel := buildKernel(logger, cfg)

	if err := registerModules(ctx, consoleKernel, cfg); err != nil {
		return err
	}

	consoleFrontend, err := registry.Build(ctx, cfg.frontend, consoleKernel, frontend.Settings{
		Input:        term.input,
		Output:       term.output,
		HostLogLevel: cfg.hostLogLevel,
		TickInterval: cfg.tickInterval,
		AltScreen:    cfg.altScreen,
	}, logger)
	if err != nil {
		return fmt.Errorf("build frontend: %w", err)
	}

	previous := slog.Default()
	slog.SetDefault(slog.New(consoleFrontend.LogHandler()))
	defer slog.SetDefault(previous)

	consoleKernel.Start(ctx)
	logger.InfoContext(ctx, "console started", "frontend", consoleFrontend.Name(), "modules", len(consoleKernel.Modules()))

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := consoleFrontend.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("run frontend %s: %w", consoleFrontend.Name(), err)
	}
	logger.InfoContext(ctx, "console stopped", "frontend", consoleFrontend.Name())

	return nil
}

func buildKernel(logger *slog.Logger, cfg appConfig) *kernel.Kernel {
	return kernel.New(
		kernel.WithLogger(logger),
		kernel.WithMaxLines(cfg.maxLines),
		kernel.WithRefreshInterval(cfg.refreshInterval),
		kernel.WithHostLogLevel(cfg.hostLogLevel),
	)
}

func runtimeModules(cfg appConfig) []console.Module {
	modules := []console.Module{
		help.New(),
		maintenance.New(),
		pingpong.New(),
	}
	if cfg.demo {
		modules = append(modules, demo.New(demo.WithPlayers(cfg.demoPlayers...)))
	}

	return modules
}

func registerModules(ctx context.Context, consoleKernel *kernel.Kernel, cfg appConfig) error {
	for _, module := range runtimeModules(cfg) {
		if err := consoleKernel.RegisterModule(ctx, module); err != nil {
			return fmt.Errorf("register %s module: %w", module.Name(), err)
		}
	}

	return nil
}

// openLogWriter opens the diagnostic log file; an empty path discards
// diagnostics because the terminal belongs to the frontend.
func openLogWriter(path string) (io.Writer, func() error, error) {
	if path == "" {
		return io.Discard, func() error { return nil }, nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, nil, fmt.Errorf("create log directory %s: %w", dir, err)
		}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file %s: %w", path, err)
	}

	return file, file.Close, nil
}
