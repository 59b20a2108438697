package cmds

// SwaymsgCommands lists common compositor commands offered as candidates
// by the execute-swaymsg-command menu. Free text typed into the menu is
// executed verbatim, so the list only needs to cover the usual suspects.
func SwaymsgCommands() []string {
	return []string{
		"border none",
		"border normal",
		"border pixel 1",
		"border toggle",
		"exit",
		"floating disable",
		"floating enable",
		"floating toggle",
		"focus child",
		"focus down",
		"focus left",
		"focus mode_toggle",
		"focus parent",
		"focus right",
		"focus tiling",
		"focus up",
		"fullscreen disable",
		"fullscreen enable",
		"fullscreen toggle",
		"kill",
		"layout default",
		"layout splith",
		"layout splitv",
		"layout stacking",
		"layout tabbed",
		"layout toggle all",
		"layout toggle split",
		"move down",
		"move left",
		"move right",
		"move scratchpad",
		"move up",
		"reload",
		"scratchpad show",
		"split horizontal",
		"split none",
		"split toggle",
		"split vertical",
		"sticky disable",
		"sticky enable",
		"sticky toggle",
		"workspace back_and_forth",
		"workspace next",
		"workspace next_on_output",
		"workspace prev",
		"workspace prev_on_output",
	}
}
