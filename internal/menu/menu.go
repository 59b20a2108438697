// Package menu runs the configured external menu program (wofi, rofi,
// dmenu, …) and returns the user's selection.
package menu

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrCancelled reports that the user dismissed the menu without choosing.
// Callers treat it as a no-op, never as a failure.
var ErrCancelled = errors.New("menu cancelled")

const promptPlaceholder = "{prompt}"

// Runner spawns one menu process per selection.
type Runner struct {
	Executable string
	Args       []string
}

// NewRunner returns a runner for the given program and argument template.
func NewRunner(executable string, args []string) *Runner {
	return &Runner{Executable: executable, Args: args}
}

// Select pipes the items to the menu program, one per line, and returns
// the line the user picked. Menu programs return free text when the input
// matches no item; that text is returned verbatim. A dismissed menu (exit
// status 1 or 130, or empty output) yields ErrCancelled.
func (r *Runner) Select(ctx context.Context, prompt string, items []string) (string, error) {
	args := make([]string, 0, len(r.Args))
	for _, arg := range r.Args {
		args = append(args, strings.ReplaceAll(arg, promptPlaceholder, prompt))
	}
	cmd := exec.CommandContext(ctx, r.Executable, args...)

	var input bytes.Buffer
	for _, item := range items {
		input.WriteString(item)
		input.WriteByte('\n')
	}
	cmd.Stdin = &input

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// 1 is the conventional dmenu-family dismissal status, 130 a
			// SIGINT-terminated picker.
			switch exitErr.ExitCode() {
			case 1, 130:
				return "", ErrCancelled
			}
			return "", fmt.Errorf("menu program %s: %w: %s", r.Executable, err, strings.TrimSpace(stderr.String()))
		}
		return "", fmt.Errorf("run menu program %s: %w", r.Executable, err)
	}

	choice := strings.TrimRight(stdout.String(), "\n")
	if choice == "" {
		return "", ErrCancelled
	}
	return choice, nil
}
