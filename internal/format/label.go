package format

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/DevelAngel/swayr/internal/config"
	"github.com/DevelAngel/swayr/internal/tree"
)

// Labeler renders display labels for tree nodes according to the format
// configuration.
type Labeler struct {
	cfg config.Format

	iconMu sync.Mutex
	icons  map[string]string
}

// NewLabeler returns a labeler for the given format configuration.
func NewLabeler(cfg config.Format) *Labeler {
	return &Labeler{cfg: cfg, icons: make(map[string]string)}
}

// Window renders the label of a view.
func (l *Labeler) Window(t *tree.Tree, w *tree.Node) string {
	ws, _ := t.WorkspaceOf(w.ID)
	out, _ := t.OutputOf(w.ID)
	return Subst(l.cfg.WindowFormat, l.cfg.HTMLEscape, func(name string) (string, bool) {
		switch name {
		case "id":
			return strconv.FormatInt(w.ID, 10), true
		case "app_name":
			return w.GetAppName(), true
		case "title", "name":
			return w.GetName(), true
		case "pid":
			return strconv.FormatInt(int64(w.GetPID()), 10), true
		case "marks":
			return formatMarks(w.Marks), true
		case "workspace_name":
			return nodeName(ws), true
		case "output_name":
			return nodeName(out), true
		case "indent":
			return strings.Repeat(l.cfg.Indent, l.depth(t, w)), true
		case "urgency_start":
			if w.Urgent {
				return l.cfg.UrgencyStart, true
			}
			return "", true
		case "urgency_stop":
			if w.Urgent {
				return l.cfg.UrgencyStop, true
			}
			return "", true
		case "app_icon":
			return l.appIcon(w.GetAppName()), true
		default:
			return "", false
		}
	})
}

// Workspace renders the label of a workspace.
func (l *Labeler) Workspace(t *tree.Tree, ws *tree.Node) string {
	out, _ := t.OutputOf(ws.ID)
	return Subst(l.cfg.WorkspaceFormat, l.cfg.HTMLEscape, func(name string) (string, bool) {
		switch name {
		case "id":
			return strconv.FormatInt(ws.ID, 10), true
		case "name":
			return ws.GetName(), true
		case "layout":
			return ws.Layout, true
		case "marks":
			return formatMarks(ws.Marks), true
		case "output_name":
			return nodeName(out), true
		default:
			return "", false
		}
	})
}

// Container renders the label of a split/tabbed/stacked container.
func (l *Labeler) Container(t *tree.Tree, c *tree.Node) string {
	ws, _ := t.WorkspaceOf(c.ID)
	return Subst(l.cfg.ContainerFormat, l.cfg.HTMLEscape, func(name string) (string, bool) {
		switch name {
		case "id":
			return strconv.FormatInt(c.ID, 10), true
		case "layout":
			return c.Layout, true
		case "marks":
			return formatMarks(c.Marks), true
		case "workspace_name":
			return nodeName(ws), true
		case "indent":
			return strings.Repeat(l.cfg.Indent, l.depth(t, c)), true
		default:
			return "", false
		}
	})
}

// Output renders the label of an output.
func (l *Labeler) Output(o *tree.Node) string {
	return Subst(l.cfg.OutputFormat, l.cfg.HTMLEscape, func(name string) (string, bool) {
		switch name {
		case "id":
			return strconv.FormatInt(o.ID, 10), true
		case "name":
			return o.GetName(), true
		default:
			return "", false
		}
	})
}

// depth counts the containers between the node and its workspace.
func (l *Labeler) depth(t *tree.Tree, n *tree.Node) int {
	depth := 0
	cur, ok := t.Parent(n.ID)
	for ok && cur.Type != tree.TypeWorkspace && cur.Type != tree.TypeOutput && cur.Type != tree.TypeRoot {
		depth++
		cur, ok = t.Parent(cur.ID)
	}
	return depth
}

// appIcon finds an icon file for the application, trying each configured
// icon dir for a file named after the lowercased app name. Results are
// cached because the menu renders the whole window list per invocation.
func (l *Labeler) appIcon(appName string) string {
	key := strings.ToLower(appName)
	l.iconMu.Lock()
	defer l.iconMu.Unlock()
	if path, ok := l.icons[key]; ok {
		return path
	}
	path := l.cfg.FallbackIcon
	for _, dir := range l.cfg.IconDirs {
		for _, ext := range []string{".svg", ".png", ".xpm"} {
			candidate := filepath.Join(dir, key+ext)
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
		if path != l.cfg.FallbackIcon {
			break
		}
	}
	l.icons[key] = path
	return path
}

func formatMarks(marks []string) string {
	if len(marks) == 0 {
		return ""
	}
	return "[" + strings.Join(marks, ", ") + "]"
}

func nodeName(n *tree.Node) string {
	if n == nil {
		return ""
	}
	return n.GetName()
}
