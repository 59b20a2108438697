package cmds

import "testing"

func TestParseNonMatching(t *testing.T) {
	cases := []struct {
		input    string
		kind     InputKind
		text     string
		numbered bool
	}{
		{"mail", InputWorkspace, "mail", false},
		{"5", InputWorkspace, "5", false},
		{"3:mail", InputWorkspace, "3:mail", true},
		{"w:mail", InputWorkspace, "mail", false},
		{"w:3:mail", InputWorkspace, "3:mail", true},
		{"s:reload", InputRawCommand, "reload", false},
		{"s:workspace back_and_forth", InputRawCommand, "workspace back_and_forth", false},
		{"#mail", InputWorkspace, "mail", false},
		{"##s:floating toggle", InputRawCommand, "floating toggle", false},
		{"#w:7:video", InputWorkspace, "7:video", true},
	}
	for _, tc := range cases {
		got := ParseNonMatching(tc.input)
		if got.Kind != tc.kind || got.Text != tc.text || got.Numbered != tc.numbered {
			t.Errorf("ParseNonMatching(%q) = %+v, want kind=%v text=%q numbered=%v",
				tc.input, got, tc.kind, tc.text, tc.numbered)
		}
	}
}

func TestWorkspaceCommands(t *testing.T) {
	plain := ParseNonMatching("mail")
	if got := plain.WorkspaceCommand(); got != "workspace mail" {
		t.Fatalf("workspace command = %q", got)
	}
	if got := plain.MoveToWorkspaceCommand(); got != "move container to workspace mail" {
		t.Fatalf("move command = %q", got)
	}
	numbered := ParseNonMatching("3:mail")
	if got := numbered.WorkspaceCommand(); got != "workspace number 3:mail" {
		t.Fatalf("numbered workspace command = %q", got)
	}
	if got := numbered.MoveToWorkspaceCommand(); got != "move container to workspace number 3:mail" {
		t.Fatalf("numbered move command = %q", got)
	}
}

func TestValidate(t *testing.T) {
	valid := []Command{
		{Name: NextWindow},
		{Name: NextWindow, Scope: ScopeCurrentWorkspace},
		{Name: QuitWindow, Kill: true},
		{Name: TileWorkspace, Floating: FloatingInclude},
		{Name: NextMatchingWindow, Value: "[app_id=foot]"},
		{Name: SwitchToAppOrUrgentOrLRUWindow, Value: "firefox"},
		{Name: SwitchToMatchingOrUrgentOrLRUWindow, Value: "[con_mark=browser]"},
	}
	for _, c := range valid {
		if err := c.Validate(); err != nil {
			t.Errorf("%s: unexpected error %v", c.Name, err)
		}
	}
	invalid := []Command{
		{Name: NextWindow, Scope: "nearby"},
		{Name: TileWorkspace, Floating: "maybe"},
		{Name: NextMatchingWindow},
		{Name: SwitchToAppOrUrgentOrLRUWindow},
		{Name: SwitchToMarkOrUrgentOrLRUWindow},
		{Name: SwitchToMatchingOrUrgentOrLRUWindow},
	}
	for _, c := range invalid {
		if err := c.Validate(); err == nil {
			t.Errorf("%s: expected validation error", c.Name)
		}
	}
}

func TestNamesCoverEveryCycleCommand(t *testing.T) {
	names := map[string]bool{}
	for _, n := range Names() {
		names[n] = true
	}
	cycles := 0
	for n := range names {
		if (Command{Name: n}).IsCycle() {
			cycles++
		}
	}
	if cycles != 14 {
		t.Fatalf("cycle commands in Names() = %d, want 14", cycles)
	}
}
