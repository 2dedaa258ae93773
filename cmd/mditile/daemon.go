package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/mditile/internal/config"
	"github.com/1broseidon/mditile/internal/hotkeys"
	"github.com/1broseidon/mditile/internal/ipc"
	"github.com/1broseidon/mditile/internal/logging"
	"github.com/1broseidon/mditile/internal/platform"
	"github.com/1broseidon/mditile/internal/tiling"
	"github.com/charmbracelet/log"
)

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("config", "", "Config file path (default: ~/.config/mditile/config.yaml)")
	verbose := fs.Bool("verbose", false, "Log at debug level regardless of log_level")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: mditile daemon [--config PATH] [--verbose]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Run in the foreground: bind hotkeys and serve IPC requests.")
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "daemon takes no arguments")
		fs.Usage()
		return 2
	}

	cfg, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}
	logger := logging.New(os.Stderr, daemonLevel(cfg, *verbose))
	logger.Info("Configuration loaded",
		"cascade_hotkey", cfg.CascadeHotkey,
		"tile_hotkey", cfg.TileHotkey,
		"undo_hotkey", cfg.UndoHotkey)

	backend, err := platform.NewLinuxBackendFromDisplay(platform.Options{
		Display:       cfg.Display,
		IncludeSticky: cfg.IncludeSticky,
	}, logger)
	if err != nil {
		logger.Error("Failed to connect to display", "err", err)
		return 1
	}
	defer backend.Disconnect()

	arranger := tiling.NewArranger(backend, logger)

	hotkeyHandler, err := hotkeys.NewHandler(backend, arranger, logger)
	if err != nil {
		logger.Error("Failed to set up hotkeys", "err", err)
		return 1
	}
	if err := hotkeyHandler.Bind(cfg); err != nil {
		logger.Warn("Some hotkeys were not registered", "err", err)
	}

	reloadChan := make(chan struct{}, 1)
	ipcServer, err := ipc.NewServer(cfg, arranger, logger, reloadChan)
	if err != nil {
		logger.Error("Failed to create IPC server", "err", err)
		return 1
	}
	ipcServer.SetConfigLoader(func() (*config.Config, error) {
		return loadConfig(*path)
	})
	if err := ipcServer.Start(); err != nil {
		logger.Error("Failed to start IPC server", "err", err)
		return 1
	}
	defer ipcServer.Stop()

	apply := func(newCfg *config.Config) {
		logger.SetLevel(daemonLevel(newCfg, *verbose))
		backend.SetIncludeSticky(newCfg.IncludeSticky)
		if err := hotkeyHandler.Rebind(newCfg); err != nil {
			logger.Warn("Some hotkeys were not registered", "err", err)
		}
		if newCfg.Display != cfg.Display {
			logger.Warn("display changed; restart the daemon to apply", "display", newCfg.Display)
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		for {
			select {
			case sig := <-sigCh:
				switch sig {
				case syscall.SIGHUP:
					logger.Info("Received SIGHUP, reloading config...")
					newCfg, err := loadConfig(*path)
					if err != nil {
						logger.Error("Config reload failed", "err", err)
						continue
					}
					ipcServer.UpdateConfig(newCfg)
					apply(newCfg)
					logger.Info("Config reloaded successfully")

				case os.Interrupt, syscall.SIGTERM:
					logger.Info("Shutting down mditile daemon...")
					ipcServer.Stop()
					backend.Disconnect()
					os.Exit(0)
				}

			case <-reloadChan:
				apply(ipcServer.GetConfig())
			}
		}
	}()

	logger.Info("Entering event loop...")
	backend.EventLoop()
	return 0
}

// daemonLevel resolves the configured log level; verbose forces debug.
func daemonLevel(cfg *config.Config, verbose bool) log.Level {
	if verbose {
		return log.DebugLevel
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}
