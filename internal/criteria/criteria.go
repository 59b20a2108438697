// Package criteria implements the window matching language used by the
// matching-window commands: a bracketed list of key/value predicates like
//
//	[app_id=firefox title=/inbox.*/ con_mark="todo"]
//
// Values are bare words, double-quoted strings or /regex/ patterns. The
// special value __focused__ compares against the focused window's own
// property. The keys tiling and floating take no value.
package criteria

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/DevelAngel/swayr/internal/tree"
)

// Criterion is one predicate of a criteria expression.
type Criterion struct {
	Key     string
	Value   string
	Focused bool
	Regex   *regexp.Regexp
}

// Criteria is a conjunction of criterions.
type Criteria []Criterion

var valueKeys = map[string]bool{
	"app_id":    true,
	"class":     true,
	"instance":  true,
	"app_name":  true,
	"title":     true,
	"con_mark":  true,
	"con_id":    true,
	"pid":       true,
	"workspace": true,
}

var flagKeys = map[string]bool{
	"tiling":   true,
	"floating": true,
}

// Parse reads a criteria expression. The surrounding brackets are optional.
func Parse(input string) (Criteria, error) {
	s := strings.TrimSpace(input)
	if strings.HasPrefix(s, "[") {
		if !strings.HasSuffix(s, "]") {
			return nil, fmt.Errorf("criteria %q: missing closing bracket", input)
		}
		s = s[1 : len(s)-1]
	}
	var crit Criteria
	for len(s) > 0 {
		s = strings.TrimLeft(s, " \t")
		if s == "" {
			break
		}
		eq := strings.IndexAny(s, "= \t")
		var key string
		if eq < 0 {
			key, s = s, ""
		} else {
			key = s[:eq]
			if s[eq] != '=' {
				s = s[eq:]
				eq = -1
			} else {
				s = s[eq+1:]
			}
		}
		switch {
		case flagKeys[key] && eq < 0:
			crit = append(crit, Criterion{Key: key})
			continue
		case flagKeys[key]:
			return nil, fmt.Errorf("criteria key %q takes no value", key)
		case !valueKeys[key]:
			return nil, fmt.Errorf("unknown criteria key %q", key)
		case eq < 0:
			return nil, fmt.Errorf("criteria key %q needs a value", key)
		}
		var c Criterion
		c.Key = key
		var err error
		c.Value, c.Regex, s, err = parseValue(s)
		if err != nil {
			return nil, fmt.Errorf("criteria key %q: %w", key, err)
		}
		if c.Value == "__focused__" {
			c.Focused = true
		}
		crit = append(crit, c)
	}
	if len(crit) == 0 {
		return nil, fmt.Errorf("empty criteria %q", input)
	}
	return crit, nil
}

func parseValue(s string) (value string, rx *regexp.Regexp, rest string, err error) {
	switch {
	case strings.HasPrefix(s, `"`):
		end := strings.Index(s[1:], `"`)
		if end < 0 {
			return "", nil, "", fmt.Errorf("unterminated quoted value")
		}
		return s[1 : end+1], nil, s[end+2:], nil
	case strings.HasPrefix(s, "/"):
		end := strings.Index(s[1:], "/")
		if end < 0 {
			return "", nil, "", fmt.Errorf("unterminated regex value")
		}
		rx, err := regexp.Compile(s[1 : end+1])
		if err != nil {
			return "", nil, "", err
		}
		return s[1 : end+1], rx, s[end+2:], nil
	default:
		end := strings.IndexAny(s, " \t")
		if end < 0 {
			return s, nil, "", nil
		}
		return s[:end], nil, s[end:], nil
	}
}

// Matches evaluates the criteria against a window in tree context. The
// focused window is needed to resolve __focused__ values.
func (c Criteria) Matches(t *tree.Tree, w *tree.Node) bool {
	if !w.IsWindow() {
		return false
	}
	focused, _ := t.FocusedWindow()
	for _, crit := range c {
		if !crit.matches(t, w, focused) {
			return false
		}
	}
	return true
}

func (c Criterion) matches(t *tree.Tree, w, focused *tree.Node) bool {
	switch c.Key {
	case "tiling":
		return !w.IsFloating()
	case "floating":
		return w.IsFloating()
	case "con_id":
		if c.Focused {
			return focused != nil && w.ID == focused.ID
		}
		id, err := strconv.ParseInt(c.Value, 10, 64)
		return err == nil && w.ID == id
	case "pid":
		pid, err := strconv.ParseInt(c.Value, 10, 32)
		return err == nil && w.GetPID() == int32(pid)
	case "con_mark":
		if c.Regex != nil {
			for _, m := range w.Marks {
				if c.Regex.MatchString(m) {
					return true
				}
			}
			return false
		}
		return w.HasMark(c.Value)
	case "workspace":
		ws, ok := t.WorkspaceOf(w.ID)
		if !ok {
			return false
		}
		if c.Focused {
			fws, fok := focusedWorkspace(t, focused)
			return fok && ws.ID == fws.ID
		}
		return c.matchString(ws.GetName())
	case "app_name":
		return c.matchProp(w.GetAppName(), focused, func(n *tree.Node) string { return n.GetAppName() })
	case "app_id":
		return c.matchProp(strDeref(w.AppID), focused, func(n *tree.Node) string { return strDeref(n.AppID) })
	case "class":
		return c.matchProp(windowClass(w), focused, windowClass)
	case "instance":
		return c.matchProp(windowInstance(w), focused, windowInstance)
	case "title":
		return c.matchProp(w.GetName(), focused, func(n *tree.Node) string { return n.GetName() })
	default:
		return false
	}
}

func (c Criterion) matchProp(value string, focused *tree.Node, prop func(*tree.Node) string) bool {
	if c.Focused {
		return focused != nil && value == prop(focused)
	}
	return c.matchString(value)
}

func (c Criterion) matchString(value string) bool {
	if c.Regex != nil {
		return c.Regex.MatchString(value)
	}
	return value == c.Value
}

func focusedWorkspace(t *tree.Tree, focused *tree.Node) (*tree.Node, bool) {
	if focused == nil {
		return nil, false
	}
	return t.WorkspaceOf(focused.ID)
}

func windowClass(n *tree.Node) string {
	if n.WindowProperties != nil {
		return strDeref(n.WindowProperties.Class)
	}
	return ""
}

func windowInstance(n *tree.Node) string {
	if n.WindowProperties != nil {
		return strDeref(n.WindowProperties.Instance)
	}
	return ""
}

func strDeref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
