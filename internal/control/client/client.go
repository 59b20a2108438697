// Package client talks to the running daemon over its control socket.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/DevelAngel/swayr/internal/cmds"
	"github.com/DevelAngel/swayr/internal/control"
)

// defaultTimeout is used when the caller does not provide a context
// deadline. Menu-backed commands wait for the user, so it is generous.
const defaultTimeout = 120 * time.Second

// Client sends one command per connection to the daemon.
type Client struct {
	socketPath string
}

// New creates a client for the provided socket path; an empty path selects
// the default location.
func New(path string) (*Client, error) {
	if path == "" {
		var err error
		path, err = control.DefaultSocketPath()
		if err != nil {
			return nil, err
		}
	}
	return &Client{socketPath: path}, nil
}

// Send dispatches one command and returns the daemon's reply payload.
func (c *Client) Send(ctx context.Context, cmd cmds.Command) (any, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultTimeout)
		defer cancel()
	}
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		return nil, fmt.Errorf("dial daemon socket: %w", err)
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	if err := json.NewEncoder(conn).Encode(control.Request{Command: cmd}); err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	var resp control.Response
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if resp.Status != control.StatusOK {
		if resp.Error == "" {
			resp.Error = "unknown daemon error"
		}
		return nil, errors.New(resp.Error)
	}
	return resp.Data, nil
}
