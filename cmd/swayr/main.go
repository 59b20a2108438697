package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/DevelAngel/swayr/internal/cmds"
	"github.com/DevelAngel/swayr/internal/control/client"
)

var (
	socketPath string
	timeout    time.Duration
)

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "swayr",
		Short:         "Window switcher and layout companion for sway",
		Long:          "swayr sends one command per invocation to the running swayrd daemon.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&socketPath, "socket", "", "path to swayrd control socket")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 0, "request timeout (0 waits for menu interaction)")

	for _, c := range subcommands() {
		root.AddCommand(c)
	}
	return root
}

func subcommands() []*cobra.Command {
	var out []*cobra.Command

	plain := func(name, short string) *cobra.Command {
		return &cobra.Command{
			Use:   name,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return send(cmds.Command{Name: name})
			},
		}
	}

	out = append(out,
		plain(cmds.SwitchToUrgentOrLRUWindow, "Focus the urgent window, or the last recently used one"),
		plain(cmds.SwitchWindow, "Pick a window from the menu program and focus it"),
		plain(cmds.SwitchWorkspace, "Pick a workspace from the menu program and switch to it"),
		plain(cmds.SwitchOutput, "Pick an output from the menu program and focus it"),
		plain(cmds.SwitchWorkspaceOrWindow, "Pick a workspace or window from the menu program"),
		plain(cmds.SwitchWorkspaceContainerOrWindow, "Pick a workspace, container or window and focus it"),
		plain(cmds.SwitchTo, "Pick an output, workspace, container or window and focus it"),
		plain(cmds.QuitWorkspaceOrWindow, "Pick a workspace or window and close it"),
		plain(cmds.QuitWorkspaceContainerOrWindow, "Pick a workspace, container or window and close it"),
		plain(cmds.MoveFocusedToWorkspace, "Move the focused window to a picked workspace"),
		plain(cmds.MoveFocusedTo, "Move the focused window to a picked output, workspace, container or window"),
		plain(cmds.SwapFocusedWith, "Swap the focused window with a picked one"),
		plain(cmds.ConfigureOutputs, "Pick an output and apply a configuration subcommand"),
		plain(cmds.ExecuteSwaymsgCommand, "Pick a swaymsg command from the menu program and run it"),
		plain(cmds.ExecuteSwayrCommand, "Pick any swayr command from the menu program and run it"),
		plain(cmds.Nop, "Do nothing but commit a pending focus tick"),
	)

	quit := &cobra.Command{
		Use:   cmds.QuitWindow,
		Short: "Pick a window and close it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kill, _ := cmd.Flags().GetBool("kill")
			return send(cmds.Command{Name: cmds.QuitWindow, Kill: kill})
		},
	}
	quit.Flags().Bool("kill", false, "terminate the window's process instead of asking it to close")
	out = append(out, quit)

	out = append(out,
		matching(cmds.SwitchToAppOrUrgentOrLRUWindow, "application name",
			"Focus a window of the given application, the urgent window, or the LRU one"),
		matching(cmds.SwitchToMarkOrUrgentOrLRUWindow, "mark",
			"Focus the window carrying the given mark, the urgent window, or the LRU one"),
		matching(cmds.SwitchToMatchingOrUrgentOrLRUWindow, "criteria",
			"Focus the window matching the given criteria, the urgent window, or the LRU one"),
	)

	for _, name := range []string{
		cmds.NextWindow, cmds.PrevWindow,
		cmds.NextTiledWindow, cmds.PrevTiledWindow,
		cmds.NextTabbedOrStackedWindow, cmds.PrevTabbedOrStackedWindow,
		cmds.NextFloatingWindow, cmds.PrevFloatingWindow,
		cmds.NextWindowOfSameLayout, cmds.PrevWindowOfSameLayout,
	} {
		out = append(out, cycle(name))
	}
	out = append(out,
		cycleMatching(cmds.NextMatchingWindow),
		cycleMatching(cmds.PrevMatchingWindow),
		plain(cmds.NextWorkspace, "Switch to the next workspace in number order"),
		plain(cmds.PrevWorkspace, "Switch to the previous workspace in number order"),
	)

	for _, name := range []string{
		cmds.TileWorkspace, cmds.TabWorkspace,
		cmds.ShuffleTileWorkspace, cmds.ToggleTabShuffleTileWorkspace,
	} {
		out = append(out, tiling(name))
	}

	out = append(out,
		plain(cmds.DaemonMetrics, "Print the daemon's counters"),
		plain(cmds.DaemonEvents, "Print the daemon's recent compositor events"),
	)
	return out
}

// cycle builds a next/prev subcommand with an optional scope argument.
func cycle(name string) *cobra.Command {
	return &cobra.Command{
		Use:       fmt.Sprintf("%s [%s|%s]", name, cmds.ScopeAllWorkspaces, cmds.ScopeCurrentWorkspace),
		Short:     shortForCycle(name),
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{cmds.ScopeAllWorkspaces, cmds.ScopeCurrentWorkspace},
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cmds.Command{Name: name}
			if len(args) == 1 {
				c.Scope = args[0]
			}
			return send(c)
		},
	}
}

func cycleMatching(name string) *cobra.Command {
	c := &cobra.Command{
		Use:   name + " <criteria>",
		Short: shortForCycle(name),
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cmds.Command{Name: name, Value: strings.Join(args, " ")}
			c.Scope, _ = cmd.Flags().GetString("scope")
			return send(c)
		},
	}
	c.Flags().String("scope", cmds.ScopeAllWorkspaces, "cycle over all-workspaces or current-workspace")
	return c
}

func matching(name, noun, short string) *cobra.Command {
	return &cobra.Command{
		Use:   fmt.Sprintf("%s <%s>", name, strings.ReplaceAll(noun, " ", "-")),
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return send(cmds.Command{Name: name, Value: args[0]})
		},
	}
}

func tiling(name string) *cobra.Command {
	c := &cobra.Command{
		Use:   name,
		Short: shortForTiling(name),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			floating, _ := cmd.Flags().GetString("floating")
			return send(cmds.Command{Name: name, Floating: floating})
		},
	}
	c.Flags().String("floating", cmds.FloatingExclude, "include or exclude floating windows")
	return c
}

func shortForCycle(name string) string {
	direction := "next"
	rest := strings.TrimPrefix(name, "next-")
	if strings.HasPrefix(name, "prev-") {
		direction = "previous"
		rest = strings.TrimPrefix(name, "prev-")
	}
	switch rest {
	case "window":
		return fmt.Sprintf("Focus the %s window in focus-recency order", direction)
	case "matching-window":
		return fmt.Sprintf("Focus the %s window matching the given criteria", direction)
	case "window-of-same-layout":
		return fmt.Sprintf("Focus the %s window sharing the focused window's layout kind", direction)
	case "tiled-window":
		return fmt.Sprintf("Focus the %s tiled window", direction)
	case "tabbed-or-stacked-window":
		return fmt.Sprintf("Focus the %s tabbed or stacked window", direction)
	case "floating-window":
		return fmt.Sprintf("Focus the %s floating window", direction)
	default:
		return ""
	}
}

func shortForTiling(name string) string {
	switch name {
	case cmds.TileWorkspace:
		return "Re-tile the focused workspace in focus-recency order"
	case cmds.TabWorkspace:
		return "Re-insert the focused workspace's windows into a tabbed container"
	case cmds.ShuffleTileWorkspace:
		return "Re-tile the focused workspace in random order"
	case cmds.ToggleTabShuffleTileWorkspace:
		return "Toggle the focused workspace between tabbed and shuffle-tiled"
	default:
		return ""
	}
}

func send(c cmds.Command) error {
	cli, err := client.New(socketPath)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	data, err := cli.Send(ctx, c)
	if err != nil {
		return err
	}
	if data == nil {
		return nil
	}
	switch v := data.(type) {
	case string:
		fmt.Println(v)
	default:
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("render reply: %w", err)
		}
		fmt.Println(string(out))
	}
	return nil
}
