package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DevelAngel/swayr/internal/config"
	"github.com/DevelAngel/swayr/internal/daemon"
	"github.com/DevelAngel/swayr/internal/ipc"
	"github.com/DevelAngel/swayr/internal/tree"
	"github.com/DevelAngel/swayr/internal/util"
)

type stubCompositor struct{}

func (stubCompositor) GetTree(context.Context) (*tree.Node, error) {
	name := "root"
	return &tree.Node{ID: 1, Type: tree.TypeRoot, Name: &name}, nil
}

func (stubCompositor) RunCommand(context.Context, string) ([]ipc.CommandResult, error) {
	return []ipc.CommandResult{{Success: true}}, nil
}

func (stubCompositor) RunCommandChecked(context.Context, string) error { return nil }

func (stubCompositor) GetOutputs(context.Context) ([]ipc.Output, error) { return nil, nil }

func writeConfig(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func TestReloadAppliesValidRevision(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeConfig(t, path, "[menu]\nexecutable = \"wofi\"\n")
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	logger := util.NewLoggerWithWriter(util.LevelError, os.Stderr)
	d := daemon.New(stubCompositor{}, cfg, logger)
	r := newConfigReloader(path, logger, d, cfg)

	writeConfig(t, path, "[menu]\nexecutable = \"rofi\"\n")
	if err := r.Reload("test"); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if r.lastConfig.Menu.Executable != "rofi" {
		t.Fatalf("last config not updated: %+v", r.lastConfig.Menu)
	}
}

func TestReloadRejectsInvalidRevisionAndKeepsLast(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeConfig(t, path, "[menu]\nexecutable = \"wofi\"\n")
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	logger := util.NewLoggerWithWriter(util.LevelError, os.Stderr)
	d := daemon.New(stubCompositor{}, cfg, logger)
	r := newConfigReloader(path, logger, d, cfg)

	writeConfig(t, path, "[menu]\nexecutable = \"\"\n")
	if err := r.Reload("test"); err == nil {
		t.Fatalf("invalid revision must be rejected")
	}
	if r.lastConfig.Menu.Executable != "wofi" {
		t.Fatalf("last valid config lost: %+v", r.lastConfig.Menu)
	}

	writeConfig(t, path, "not toml at all")
	if err := r.Reload("test"); err == nil {
		t.Fatalf("unparseable revision must be rejected")
	}
}

func TestReloadLogsWhatChanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeConfig(t, path, "[menu]\nexecutable = \"wofi\"\n")
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	var buf bytes.Buffer
	logger := util.NewLoggerWithWriter(util.LevelInfo, &buf)
	d := daemon.New(stubCompositor{}, cfg, logger)
	r := newConfigReloader(path, logger, d, cfg)

	writeConfig(t, path, "[menu]\nexecutable = \"rofi\"\n")
	if err := r.Reload("test"); err != nil {
		t.Fatalf("reload: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "config changes") || !strings.Contains(out, "rofi") {
		t.Fatalf("reload did not log the config diff: %q", out)
	}
}

func TestLoadOrDefaultFallsBackOnInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeConfig(t, path, "not toml at all")
	var buf bytes.Buffer
	logger := util.NewLoggerWithWriter(util.LevelError, &buf)
	cfg := loadOrDefault(logger, path)
	if cfg.Menu.Executable != config.Default().Menu.Executable {
		t.Fatalf("invalid config must fall back to defaults, got %+v", cfg.Menu)
	}
	if !strings.Contains(buf.String(), "continuing with defaults") {
		t.Fatalf("fallback was not logged: %q", buf.String())
	}
}
