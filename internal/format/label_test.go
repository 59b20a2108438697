package format

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/DevelAngel/swayr/internal/config"
	"github.com/DevelAngel/swayr/internal/tree"
)

func strp(s string) *string { return &s }

func labelTree() *tree.Tree {
	term := &tree.Node{ID: 12, Type: tree.TypeCon, Name: strp("htop"), AppID: strp("foot"), Marks: []string{"monitor"}}
	con := &tree.Node{ID: 15, Type: tree.TypeCon, Layout: tree.LayoutTabbed, Nodes: []*tree.Node{term}}
	urgentWin := &tree.Node{ID: 13, Type: tree.TypeCon, Name: strp("ping!"), AppID: strp("irc"), Urgent: true}
	ws := &tree.Node{ID: 2, Type: tree.TypeWorkspace, Name: strp("sys"), Layout: tree.LayoutSplitH, Nodes: []*tree.Node{con, urgentWin}}
	out := &tree.Node{ID: 4, Type: tree.TypeOutput, Name: strp("eDP-1"), Nodes: []*tree.Node{ws}}
	return tree.New(&tree.Node{ID: 1, Type: tree.TypeRoot, Name: strp("root"), Nodes: []*tree.Node{out}})
}

func TestWindowLabel(t *testing.T) {
	l := NewLabeler(config.Format{
		WindowFormat: "{indent}{app_name}: {title} on {workspace_name} {marks}",
		Indent:       "  ",
	})
	tr := labelTree()
	w, _ := tr.Get(12)
	got := l.Window(tr, w)
	if got != "  foot: htop on sys [monitor]" {
		t.Fatalf("label = %q", got)
	}
}

func TestWindowLabelUrgencyMarkers(t *testing.T) {
	l := NewLabeler(config.Format{
		WindowFormat: "{urgency_start}{title}{urgency_stop}",
		UrgencyStart: "<u>",
		UrgencyStop:  "</u>",
	})
	tr := labelTree()
	urgent, _ := tr.Get(13)
	if got := l.Window(tr, urgent); got != "<u>ping!</u>" {
		t.Fatalf("urgent label = %q", got)
	}
	calm, _ := tr.Get(12)
	if got := l.Window(tr, calm); got != "htop" {
		t.Fatalf("calm label = %q", got)
	}
}

func TestWindowLabelHTMLEscapesValues(t *testing.T) {
	l := NewLabeler(config.Format{WindowFormat: "{title}", HTMLEscape: true})
	tr := labelTree()
	w, _ := tr.Get(12)
	w.Name = strp("a <b> & c")
	if got := l.Window(tr, w); got != "a &lt;b&gt; &amp; c" {
		t.Fatalf("label = %q", got)
	}
}

func TestWorkspaceAndOutputLabels(t *testing.T) {
	l := NewLabeler(config.Format{
		WorkspaceFormat: "Workspace {name} [{layout}] on {output_name}",
		OutputFormat:    "Output {name}",
	})
	tr := labelTree()
	ws, _ := tr.Get(2)
	if got := l.Workspace(tr, ws); got != "Workspace sys [splith] on eDP-1" {
		t.Fatalf("workspace label = %q", got)
	}
	out, _ := tr.Get(4)
	if got := l.Output(out); got != "Output eDP-1" {
		t.Fatalf("output label = %q", got)
	}
}

func TestAppIconLookup(t *testing.T) {
	dir := t.TempDir()
	icon := filepath.Join(dir, "foot.png")
	if err := os.WriteFile(icon, []byte("png"), 0o644); err != nil {
		t.Fatalf("write icon: %v", err)
	}
	l := NewLabeler(config.Format{
		WindowFormat: "{app_icon}",
		IconDirs:     []string{dir},
		FallbackIcon: "/nope.png",
	})
	tr := labelTree()
	w, _ := tr.Get(12)
	if got := l.Window(tr, w); got != icon {
		t.Fatalf("icon = %q, want %q", got, icon)
	}
	stranger, _ := tr.Get(13)
	if got := l.Window(tr, stranger); got != "/nope.png" {
		t.Fatalf("fallback icon = %q", got)
	}
}
