// Package cmds defines the command vocabulary shared by the client and the
// daemon. A Command is created from one client request, dispatched once and
// discarded.
package cmds

import "fmt"

// Command names. The client CLI exposes one subcommand per name.
const (
	SwitchToUrgentOrLRUWindow           = "switch-to-urgent-or-lru-window"
	SwitchToAppOrUrgentOrLRUWindow      = "switch-to-app-or-urgent-or-lru-window"
	SwitchToMarkOrUrgentOrLRUWindow     = "switch-to-mark-or-urgent-or-lru-window"
	SwitchToMatchingOrUrgentOrLRUWindow = "switch-to-matching-or-urgent-or-lru-window"
	SwitchWindow                        = "switch-window"
	SwitchWorkspace                     = "switch-workspace"
	SwitchOutput                        = "switch-output"
	SwitchWorkspaceOrWindow             = "switch-workspace-or-window"
	SwitchWorkspaceContainerOrWindow    = "switch-workspace-container-or-window"
	SwitchTo                            = "switch-to"
	QuitWindow                          = "quit-window"
	QuitWorkspaceOrWindow               = "quit-workspace-or-window"
	QuitWorkspaceContainerOrWindow      = "quit-workspace-container-or-window"
	MoveFocusedToWorkspace              = "move-focused-to-workspace"
	MoveFocusedTo                       = "move-focused-to"
	SwapFocusedWith                     = "swap-focused-with"

	NextWindow                = "next-window"
	PrevWindow                = "prev-window"
	NextTiledWindow           = "next-tiled-window"
	PrevTiledWindow           = "prev-tiled-window"
	NextTabbedOrStackedWindow = "next-tabbed-or-stacked-window"
	PrevTabbedOrStackedWindow = "prev-tabbed-or-stacked-window"
	NextFloatingWindow        = "next-floating-window"
	PrevFloatingWindow        = "prev-floating-window"
	NextWindowOfSameLayout    = "next-window-of-same-layout"
	PrevWindowOfSameLayout    = "prev-window-of-same-layout"
	NextMatchingWindow        = "next-matching-window"
	PrevMatchingWindow        = "prev-matching-window"
	NextWorkspace             = "next-workspace"
	PrevWorkspace             = "prev-workspace"

	TileWorkspace                 = "tile-workspace"
	TabWorkspace                  = "tab-workspace"
	ShuffleTileWorkspace          = "shuffle-tile-workspace"
	ToggleTabShuffleTileWorkspace = "toggle-tab-shuffle-tile-workspace"

	ConfigureOutputs      = "configure-outputs"
	ExecuteSwaymsgCommand = "execute-swaymsg-command"
	ExecuteSwayrCommand   = "execute-swayr-command"
	Nop                   = "nop"

	DaemonMetrics = "daemon-metrics"
	DaemonEvents  = "daemon-events"
)

// Scope values for the cycling commands.
const (
	ScopeAllWorkspaces    = "all-workspaces"
	ScopeCurrentWorkspace = "current-workspace"
)

// Floating values for the workspace re-tiling commands.
const (
	FloatingInclude = "include"
	FloatingExclude = "exclude"
)

// Command is one requested action. Name selects the action; the remaining
// fields carry the options the action uses and stay empty otherwise.
type Command struct {
	Name string `json:"name"`
	// Scope restricts cycling commands, ScopeAllWorkspaces when empty.
	Scope string `json:"scope,omitempty"`
	// Value is the app name, mark or criteria expression of the matching
	// commands.
	Value string `json:"value,omitempty"`
	// Kill selects the forced-termination path of quit-window.
	Kill bool `json:"kill,omitempty"`
	// Floating selects whether re-tiling touches floating windows,
	// FloatingExclude when empty.
	Floating string `json:"floating,omitempty"`
}

// Names lists every dispatchable command, in menu presentation order.
func Names() []string {
	return []string{
		SwitchToUrgentOrLRUWindow,
		SwitchToAppOrUrgentOrLRUWindow,
		SwitchToMarkOrUrgentOrLRUWindow,
		SwitchToMatchingOrUrgentOrLRUWindow,
		SwitchWindow,
		SwitchWorkspace,
		SwitchOutput,
		SwitchWorkspaceOrWindow,
		SwitchWorkspaceContainerOrWindow,
		SwitchTo,
		QuitWindow,
		QuitWorkspaceOrWindow,
		QuitWorkspaceContainerOrWindow,
		MoveFocusedToWorkspace,
		MoveFocusedTo,
		SwapFocusedWith,
		NextWindow, PrevWindow,
		NextTiledWindow, PrevTiledWindow,
		NextTabbedOrStackedWindow, PrevTabbedOrStackedWindow,
		NextFloatingWindow, PrevFloatingWindow,
		NextWindowOfSameLayout, PrevWindowOfSameLayout,
		NextMatchingWindow, PrevMatchingWindow,
		NextWorkspace, PrevWorkspace,
		TileWorkspace, TabWorkspace,
		ShuffleTileWorkspace, ToggleTabShuffleTileWorkspace,
		ConfigureOutputs,
		ExecuteSwaymsgCommand,
		ExecuteSwayrCommand,
		Nop,
		DaemonMetrics,
		DaemonEvents,
	}
}

// IsCycle reports whether the command is part of a next/prev sequence, the
// commands that inhibit focus tick commits while seq_inhibit is enabled.
func (c Command) IsCycle() bool {
	switch c.Name {
	case NextWindow, PrevWindow,
		NextTiledWindow, PrevTiledWindow,
		NextTabbedOrStackedWindow, PrevTabbedOrStackedWindow,
		NextFloatingWindow, PrevFloatingWindow,
		NextWindowOfSameLayout, PrevWindowOfSameLayout,
		NextMatchingWindow, PrevMatchingWindow,
		NextWorkspace, PrevWorkspace:
		return true
	}
	return false
}

// Validate checks option values the daemon would otherwise have to guess.
func (c Command) Validate() error {
	switch c.Scope {
	case "", ScopeAllWorkspaces, ScopeCurrentWorkspace:
	default:
		return fmt.Errorf("unknown scope %q", c.Scope)
	}
	switch c.Floating {
	case "", FloatingInclude, FloatingExclude:
	default:
		return fmt.Errorf("unknown floating spec %q", c.Floating)
	}
	switch c.Name {
	case NextMatchingWindow, PrevMatchingWindow:
		if c.Value == "" {
			return fmt.Errorf("%s needs a criteria expression", c.Name)
		}
	case SwitchToAppOrUrgentOrLRUWindow:
		if c.Value == "" {
			return fmt.Errorf("%s needs an application name", c.Name)
		}
	case SwitchToMarkOrUrgentOrLRUWindow:
		if c.Value == "" {
			return fmt.Errorf("%s needs a mark", c.Name)
		}
	case SwitchToMatchingOrUrgentOrLRUWindow:
		if c.Value == "" {
			return fmt.Errorf("%s needs a criteria expression", c.Name)
		}
	}
	return nil
}
