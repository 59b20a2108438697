package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/DevelAngel/swayr/internal/config"
	"github.com/DevelAngel/swayr/internal/control"
	"github.com/DevelAngel/swayr/internal/daemon"
	"github.com/DevelAngel/swayr/internal/ipc"
	"github.com/DevelAngel/swayr/internal/util"
	"github.com/fsnotify/fsnotify"
)

func main() {
	defaultConfig, err := config.Path()
	if err != nil {
		exitErr(fmt.Errorf("resolve config path: %w", err))
	}

	cfgPath := flag.String("config", defaultConfig, "path to TOML config")
	logLevel := flag.String("log-level", "info", "log level (trace|debug|info|warn|error)")
	socketPath := flag.String("socket", "", "control socket path (default derived from the session)")
	flag.Parse()

	logger := util.NewLogger(util.ParseLogLevel(*logLevel))

	cfg := loadOrDefault(logger, *cfgPath)
	cfgFullPath, err := filepath.Abs(*cfgPath)
	if err != nil {
		exitErr(fmt.Errorf("resolve config path: %w", err))
	}
	cfgFullPath = filepath.Clean(cfgFullPath)
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		exitErr(fmt.Errorf("watch config: %w", err))
	}
	defer watcher.Close()
	cfgDir := filepath.Dir(cfgFullPath)
	if err := watcher.Add(cfgDir); err != nil {
		exitErr(fmt.Errorf("watch config dir: %w", err))
	}
	if err := watcher.Add(cfgFullPath); err != nil {
		logger.Debugf("unable to watch config file directly: %v", err)
	}
	reloadRequests := make(chan string, 1)
	go watchConfig(logger, watcher, cfgFullPath, reloadRequests)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	comp := ipc.NewClient()
	if _, err := comp.GetVersion(ctx); err != nil {
		exitErr(fmt.Errorf("connect to compositor: %w", err))
	}

	d := daemon.New(comp, cfg, logger)
	events, err := ipc.Subscribe(ctx, logger, d.Stats(), "window", "workspace", "shutdown")
	if err != nil {
		exitErr(fmt.Errorf("subscribe to compositor events: %w", err))
	}
	reloader := newConfigReloader(cfgFullPath, logger, d, cfg)

	ctrlSrv, err := control.NewServer(d, logger, *socketPath)
	if err != nil {
		exitErr(fmt.Errorf("start control server: %w", err))
	}
	logger.Infof("control socket at %s", ctrlSrv.SocketPath())

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	errs := make(chan error, 2)
	go func() {
		errs <- d.Run(ctx, events)
	}()
	go func() {
		errs <- ctrlSrv.Serve(ctx)
	}()

	for {
		select {
		case err := <-errs:
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Errorf("daemon exited: %v", err)
				os.Exit(1)
			}
			logger.Infof("daemon stopped")
			return
		case reason := <-reloadRequests:
			if err := reloader.Reload(reason); err != nil {
				logger.Errorf("reload failed: %v", err)
			}
		case sig := <-sigs:
			switch sig {
			case syscall.SIGHUP:
				if err := reloader.Reload("received SIGHUP"); err != nil {
					logger.Errorf("reload failed: %v", err)
				}
			case os.Interrupt, syscall.SIGTERM:
				logger.Infof("received %s, shutting down", sig)
				cancel()
			}
		}
	}
}

func watchConfig(logger *util.Logger, watcher *fsnotify.Watcher, target string, reloadRequests chan<- string) {
	const debounceWindow = 250 * time.Millisecond
	var (
		timer   *time.Timer
		timerCh <-chan time.Time
	)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounceWindow)
				timerCh = timer.C
			} else {
				if !timer.Stop() {
					<-timerCh
				}
				timer.Reset(debounceWindow)
			}
		case <-timerCh:
			timer = nil
			timerCh = nil
			select {
			case reloadRequests <- "config file updated":
			default:
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warnf("config watcher error: %v", err)
		}
	}
}

// loadOrDefault reads the config file; an unreadable or invalid file is
// logged and replaced by the defaults so the daemon still starts.
func loadOrDefault(logger *util.Logger, path string) config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		logger.Errorf("load config: %v (continuing with defaults)", err)
		return config.Default()
	}
	return cfg
}

func exitErr(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
