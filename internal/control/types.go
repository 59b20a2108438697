package control

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/DevelAngel/swayr/internal/cmds"
)

// Response statuses.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Request is one client request: exactly one command per connection.
type Request struct {
	Command cmds.Command `json:"command"`
}

// Response is the single reply written back before the connection closes.
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// DefaultSocketPath returns the daemon socket location. The path embeds
// the Wayland display name so daemons of concurrent sessions do not
// collide.
func DefaultSocketPath() (string, error) {
	if env := os.Getenv("SWAYR_SOCKET"); env != "" {
		return env, nil
	}
	display := os.Getenv("WAYLAND_DISPLAY")
	if display == "" {
		display = "wayland-0"
	}
	base := os.Getenv("XDG_RUNTIME_DIR")
	if base == "" {
		base = os.TempDir()
		if base == "" {
			return "", errors.New("no runtime directory available")
		}
	}
	return filepath.Join(base, fmt.Sprintf("swayr-%s.sock", display)), nil
}
