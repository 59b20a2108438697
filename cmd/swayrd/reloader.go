package main

import (
	"fmt"
	"os"

	"github.com/DevelAngel/swayr/internal/config"
	"github.com/DevelAngel/swayr/internal/daemon"
	"github.com/DevelAngel/swayr/internal/util"
)

// configReloader re-reads the config file and hands valid revisions to the
// daemon. Invalid revisions are rejected with a diff against the last
// accepted one so the running state never regresses.
type configReloader struct {
	path           string
	logger         *util.Logger
	daemon         *daemon.Daemon
	lastConfig     config.Config
	lastSerialized []byte
}

func newConfigReloader(path string, logger *util.Logger, d *daemon.Daemon, cfg config.Config) *configReloader {
	r := &configReloader{
		path:       path,
		logger:     logger,
		daemon:     d,
		lastConfig: cfg,
	}
	if raw, err := os.ReadFile(path); err == nil {
		r.lastSerialized = raw
	}
	return r
}

func (r *configReloader) Reload(reason string) error {
	r.logger.Infof("%s, reloading config", reason)
	raw, err := os.ReadFile(r.path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	cfg, err := config.Parse(raw)
	if err != nil {
		r.logDiff(raw)
		return err
	}
	r.daemon.Reload(cfg)
	if diff := config.Diff(r.lastConfig, cfg); diff != "" {
		r.logger.Infof("config changes:\n%s", diff)
	}
	r.lastConfig = cfg
	r.lastSerialized = append([]byte(nil), raw...)
	return nil
}

func (r *configReloader) logDiff(current []byte) {
	diff := config.DiffSerialized(r.lastSerialized, current)
	if diff == "" {
		r.logger.Warnf("config change rejected; unable to compute diff vs last valid config")
		return
	}
	r.logger.Warnf("config change rejected; diff vs last valid config:\n%s", diff)
}
