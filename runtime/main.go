package main

import (
	"HDRView/internal/assets"
	"HDRView/internal/blob"
	"HDRView/internal/config"
	"HDRView/internal/dispatch"
	"HDRView/internal/dropwatch"
	"HDRView/internal/engine"
	"HDRView/internal/events"
	"HDRView/internal/logger"
	"HDRView/internal/world"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

type options struct {
	configPath string
	debug      bool
	dropDir    string
}

func newFlagSet(opts *options) *pflag.FlagSet {
	fs := pflag.NewFlagSet("HDRView", pflag.ContinueOnError)
	fs.StringVarP(&opts.configPath, "config", "c", "", "viewer config (.json, .toml or .yaml); searched next to the binary when empty")
	fs.BoolVar(&opts.debug, "debug", false, "verbose logging")
	fs.StringVar(&opts.dropDir, "drop-dir", "", "watch this directory and treat new files as drops")
	return fs
}

func main() {
	var opts options
	if err := newFlagSet(&opts).Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if opts.debug {
		logger.InitDebug()
	} else {
		logger.Init()
	}
	defer logger.Sync()

	if err := run(opts.configPath, opts.debug, opts.dropDir); err != nil {
		logger.Log.Error("HDRView failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(configPath string, debug bool, dropDir string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if debug {
		cfg.Debug = true
	}
	if dropDir != "" {
		cfg.DropDir = dropDir
	}
	if err := cfg.Validate(); err != nil {
		logger.Log.Warn("Config has problems", zap.Error(err))
	}

	queue := dispatch.NewQueue()
	bus := events.NewBus()
	blobs := blob.NewStore()
	w := world.New(cfg, queue, bus, blobs, assets.DefaultDecoders(queue, blobs))

	if cfg.DropDir != "" {
		watcher, err := dropwatch.New(cfg.DropDir, queue, func(p assets.DropPayload) {
			if w.Resources != nil {
				w.Resources.AcceptDroppedFile(p)
			}
		})
		if err != nil {
			return fmt.Errorf("drop folder %s: %w", cfg.DropDir, err)
		}
		defer watcher.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go watcher.Run(ctx)
	}

	logger.Log.Info("HDRView starting",
		zap.Int("sources", len(cfg.Sources)),
		zap.Bool("debug", cfg.Debug))
	return engine.NewViewer(cfg, w).Run(100, 100)
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		for _, name := range []string{"hdrview.json", "hdrview.toml", "hdrview.yaml"} {
			if path = findAsset(name); path != "" {
				break
			}
		}
	}
	if path == "" {
		logger.Log.Info("No config file found, using defaults")
		return config.Default(), nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	logger.Log.Info("Config loaded", zap.String("path", path))
	return cfg, nil
}

// findAsset looks for name next to the binary, then in the working directory.
func findAsset(name string) string {
	exePath, _ := os.Executable()
	exeDir := filepath.Dir(exePath)

	paths := []string{
		filepath.Join(exeDir, name),
		filepath.Join(exeDir, "assets", name),
		name,
		filepath.Join("assets", name),
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
