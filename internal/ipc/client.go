package ipc

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/DevelAngel/swayr/internal/tree"
)

// CommandResult is the compositor's per-command outcome of RUN_COMMAND.
type CommandResult struct {
	Success bool    `json:"success"`
	Error   *string `json:"error"`
}

// Output is one entry of the GET_OUTPUTS reply.
type Output struct {
	Name             string    `json:"name"`
	Make             string    `json:"make"`
	Model            string    `json:"model"`
	Serial           string    `json:"serial"`
	Active           bool      `json:"active"`
	Rect             tree.Rect `json:"rect"`
	CurrentWorkspace *string   `json:"current_workspace"`
}

// Version is the GET_VERSION reply.
type Version struct {
	Major         int    `json:"major"`
	Minor         int    `json:"minor"`
	Patch         int    `json:"patch"`
	HumanReadable string `json:"human_readable"`
}

// Client issues synchronous requests against the compositor socket. Each
// request opens its own connection, so a Client is safe for concurrent use
// and a blocked request never stalls the event stream.
type Client struct{}

// NewClient returns a request client for the socket named by the
// environment.
func NewClient() *Client {
	return &Client{}
}

func (c *Client) roundTrip(ctx context.Context, msgType uint32, payload []byte) ([]byte, error) {
	conn, err := dial()
	if err != nil {
		return nil, err
	}
	defer conn.close()
	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.sock.SetDeadline(deadline); err != nil {
			return nil, err
		}
	}
	return conn.roundTrip(msgType, payload)
}

// GetTree fetches a full snapshot of the compositor tree.
func (c *Client) GetTree(ctx context.Context) (*tree.Node, error) {
	data, err := c.roundTrip(ctx, msgGetTree, nil)
	if err != nil {
		return nil, err
	}
	root := &tree.Node{}
	if err := json.Unmarshal(data, root); err != nil {
		return nil, fmt.Errorf("decode tree: %w", err)
	}
	return root, nil
}

// GetOutputs fetches the output list.
func (c *Client) GetOutputs(ctx context.Context) ([]Output, error) {
	data, err := c.roundTrip(ctx, msgGetOutputs, nil)
	if err != nil {
		return nil, err
	}
	var outputs []Output
	if err := json.Unmarshal(data, &outputs); err != nil {
		return nil, fmt.Errorf("decode outputs: %w", err)
	}
	return outputs, nil
}

// GetVersion fetches the compositor version.
func (c *Client) GetVersion(ctx context.Context) (Version, error) {
	data, err := c.roundTrip(ctx, msgGetVersion, nil)
	if err != nil {
		return Version{}, err
	}
	var v Version
	if err := json.Unmarshal(data, &v); err != nil {
		return Version{}, fmt.Errorf("decode version: %w", err)
	}
	return v, nil
}

// RunCommand submits one command string and returns the per-command
// results. The compositor may split the string on ';' into several
// commands, each with its own result.
func (c *Client) RunCommand(ctx context.Context, command string) ([]CommandResult, error) {
	data, err := c.roundTrip(ctx, msgRunCommand, []byte(command))
	if err != nil {
		return nil, err
	}
	var results []CommandResult
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("decode command results: %w", err)
	}
	return results, nil
}

// RunCommandChecked runs a command and folds failed results into an error.
func (c *Client) RunCommandChecked(ctx context.Context, command string) error {
	results, err := c.RunCommand(ctx, command)
	if err != nil {
		return err
	}
	var failures []string
	for _, res := range results {
		if res.Success {
			continue
		}
		msg := "unknown error"
		if res.Error != nil {
			msg = *res.Error
		}
		failures = append(failures, msg)
	}
	if len(failures) > 0 {
		return fmt.Errorf("command %q rejected: %s", command, strings.Join(failures, "; "))
	}
	return nil
}
