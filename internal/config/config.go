package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config is the top-level configuration document.
type Config struct {
	Menu   Menu   `toml:"menu"`
	Format Format `toml:"format"`
	Layout Layout `toml:"layout"`
	Focus  Focus  `toml:"focus"`
	Misc   Misc   `toml:"misc"`
}

// Menu configures the external menu program. Every occurrence of {prompt}
// in Args is substituted per invocation.
type Menu struct {
	Executable string   `toml:"executable"`
	Args       []string `toml:"args"`
}

// Format configures the display strings of menu entries.
type Format struct {
	OutputFormat    string   `toml:"output_format"`
	WorkspaceFormat string   `toml:"workspace_format"`
	ContainerFormat string   `toml:"container_format"`
	WindowFormat    string   `toml:"window_format"`
	Indent          string   `toml:"indent"`
	HTMLEscape      bool     `toml:"html_escape"`
	UrgencyStart    string   `toml:"urgency_start"`
	UrgencyStop     string   `toml:"urgency_stop"`
	IconDirs        []string `toml:"icon_dirs"`
	FallbackIcon    string   `toml:"fallback_icon"`
}

// Layout configures automatic tiling.
type Layout struct {
	AutoTile bool `toml:"auto_tile"`
	// Pairs of [output width, minimum window width]. An output whose pixel
	// width has no entry is never auto-tiled.
	AutoTileMinWindowWidthPerOutputWidth [][2]int32 `toml:"auto_tile_min_window_width_per_output_width"`
}

// Focus configures focus history bookkeeping.
type Focus struct {
	LockinDelayMS int64 `toml:"lockin_delay_ms"`
}

// Misc holds the remaining knobs.
type Misc struct {
	SeqInhibit     bool   `toml:"seq_inhibit"`
	AutoNopDelayMS *int64 `toml:"auto_nop_delay_ms"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Menu: Menu{
			Executable: "wofi",
			Args: []string{
				"--show=dmenu",
				"--allow-markup",
				"--allow-images",
				"--insensitive",
				"--cache-file=/dev/null",
				"--parse-search",
				"--height=40%",
				"--prompt={prompt}",
			},
		},
		Format: Format{
			OutputFormat:    "Output {name}",
			WorkspaceFormat: "Workspace {name} [{layout}] on output {output_name}",
			ContainerFormat: "{indent}Container [{layout}] on workspace {workspace_name}",
			WindowFormat:    "img:{app_icon}:text:{indent}{app_name} — {urgency_start}“{title}”{urgency_stop} on workspace {workspace_name} {marks}",
			Indent:          "    ",
			HTMLEscape:      true,
			UrgencyStart:    `<span background="darkred" foreground="yellow">`,
			UrgencyStop:     "</span>",
			IconDirs: []string{
				"/usr/share/icons/hicolor/scalable/apps",
				"/usr/share/icons/hicolor/48x48/apps",
				"/usr/share/pixmaps",
			},
		},
		Layout: Layout{
			AutoTile: false,
			AutoTileMinWindowWidthPerOutputWidth: [][2]int32{
				{800, 400}, {1024, 500}, {1280, 600}, {1400, 680},
				{1440, 700}, {1600, 780}, {1680, 780}, {1920, 920},
				{2048, 980}, {2560, 1000}, {3440, 1200}, {3840, 1280},
				{4096, 1400}, {4480, 1600}, {7680, 2400},
			},
		},
		Focus: Focus{LockinDelayMS: 750},
		Misc:  Misc{SeqInhibit: false},
	}
}

// MinWindowWidth looks up the minimum window width for an output width.
// The lookup is exact; widths absent from the table report false.
func (l Layout) MinWindowWidth(outputWidth int32) (int32, bool) {
	for _, pair := range l.AutoTileMinWindowWidthPerOutputWidth {
		if pair[0] == outputWidth {
			return pair[1], true
		}
	}
	return 0, false
}

// Path resolves the config file location: the user config dir, or the
// system fallback when the user file does not exist yet.
func Path() (string, error) {
	confDir := os.Getenv("XDG_CONFIG_HOME")
	if confDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("locate config: %w", err)
		}
		confDir = filepath.Join(home, ".config")
	}
	userPath := filepath.Join(confDir, "swayr", "config.toml")
	if _, err := os.Stat(userPath); err == nil {
		return userPath, nil
	}
	sysPath := filepath.Join("/etc/xdg", "swayr", "config.toml")
	if _, err := os.Stat(sysPath); err == nil {
		return sysPath, nil
	}
	return userPath, nil
}

// Load reads the configuration file. A missing file is replaced with the
// written-out defaults so the user has something to edit.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg := Default()
		if werr := writeDefault(path, cfg); werr != nil {
			return cfg, werr
		}
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates a serialized configuration. Settings absent
// from the document keep their defaults.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func writeDefault(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write default config: %w", err)
	}
	return nil
}

// Validate rejects configurations the daemon cannot act on.
func (c Config) Validate() error {
	if c.Menu.Executable == "" {
		return fmt.Errorf("menu.executable must not be empty")
	}
	for _, pair := range c.Layout.AutoTileMinWindowWidthPerOutputWidth {
		if pair[0] <= 0 || pair[1] <= 0 {
			return fmt.Errorf("layout width table entry [%d, %d] must be positive", pair[0], pair[1])
		}
	}
	if c.Focus.LockinDelayMS < 0 {
		return fmt.Errorf("focus.lockin_delay_ms must not be negative")
	}
	if c.Misc.AutoNopDelayMS != nil && *c.Misc.AutoNopDelayMS <= 0 {
		return fmt.Errorf("misc.auto_nop_delay_ms must be positive when set")
	}
	return nil
}
