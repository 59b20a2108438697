package tree

// Rect is a pixel rectangle as reported by the compositor.
type Rect struct {
	X      int32 `json:"x"`
	Y      int32 `json:"y"`
	Width  int32 `json:"width"`
	Height int32 `json:"height"`
}

// WindowProperties carries the X11 properties of XWayland views.
type WindowProperties struct {
	Class    *string `json:"class"`
	Instance *string `json:"instance"`
	Title    *string `json:"title"`
}

// Node is one entity of the compositor tree: the root, an output, a
// workspace, a split/tabbed/stacked container or a window. The JSON shape
// follows the GET_TREE reply.
type Node struct {
	ID            int64    `json:"id"`
	Name          *string  `json:"name"`
	Type          string   `json:"type"`
	Layout        string   `json:"layout"`
	Rect          Rect     `json:"rect"`
	WindowRect    Rect     `json:"window_rect"`
	Urgent        bool     `json:"urgent"`
	Focused       bool     `json:"focused"`
	Focus         []int64  `json:"focus"`
	Num           *int32   `json:"num"`
	Output        *string  `json:"output"`
	Marks         []string `json:"marks"`
	Nodes         []*Node  `json:"nodes"`
	FloatingNodes []*Node  `json:"floating_nodes"`

	AppID            *string           `json:"app_id"`
	PID              *int32            `json:"pid"`
	Window           *int64            `json:"window"`
	WindowProperties *WindowProperties `json:"window_properties"`
	Representation   *string           `json:"representation"`
	Percent          *float64          `json:"percent"`
	FullscreenMode   *uint8            `json:"fullscreen_mode"`
	Sticky           bool              `json:"sticky"`
	Visible          *bool             `json:"visible"`
}

// Node type strings used by the compositor.
const (
	TypeRoot        = "root"
	TypeOutput      = "output"
	TypeWorkspace   = "workspace"
	TypeCon         = "con"
	TypeFloatingCon = "floating_con"
)

// Layout strings used by the compositor.
const (
	LayoutSplitH  = "splith"
	LayoutSplitV  = "splitv"
	LayoutTabbed  = "tabbed"
	LayoutStacked = "stacked"
)

const (
	scratchOutputName    = "__i3"
	scratchWorkspaceName = "__i3_scratch"
	unnamed              = "<unnamed>"
	unknownApp           = "<unknown_app>"
)

// GetName returns the node's name or a placeholder when it has none.
func (n *Node) GetName() string {
	if n.Name != nil {
		return *n.Name
	}
	return unnamed
}

// GetAppName returns the application identifier of a window: the Wayland
// app id if present, else the X11 class, else the X11 instance.
func (n *Node) GetAppName() string {
	if n.AppID != nil && *n.AppID != "" {
		return *n.AppID
	}
	if wp := n.WindowProperties; wp != nil {
		if wp.Class != nil && *wp.Class != "" {
			return *wp.Class
		}
		if wp.Instance != nil && *wp.Instance != "" {
			return *wp.Instance
		}
	}
	return unknownApp
}

// GetPID returns the window's process id, or 0 when unknown.
func (n *Node) GetPID() int32 {
	if n.PID != nil {
		return *n.PID
	}
	return 0
}

// IsWindow reports whether the node is an actual view. Containers share the
// "con" type with views but have no name of their own.
func (n *Node) IsWindow() bool {
	return (n.Type == TypeCon || n.Type == TypeFloatingCon) && n.Name != nil
}

// IsContainer reports whether the node can hold tiled children.
func (n *Node) IsContainer() bool {
	switch n.Type {
	case TypeWorkspace:
		return !n.IsScratchpad()
	case TypeCon:
		return n.Name == nil
	default:
		return false
	}
}

// IsFloating reports whether the node is a floating view.
func (n *Node) IsFloating() bool {
	return n.Type == TypeFloatingCon
}

// IsScratchpad reports whether the node is the hidden scratch output or
// scratch workspace.
func (n *Node) IsScratchpad() bool {
	if n.Name == nil {
		return false
	}
	return *n.Name == scratchOutputName || *n.Name == scratchWorkspaceName
}

// HasMark reports whether the node carries the given mark.
func (n *Node) HasMark(mark string) bool {
	for _, m := range n.Marks {
		if m == mark {
			return true
		}
	}
	return false
}

// visit walks the subtree in preorder, tiled children before floating ones,
// stopping early when fn returns false.
func (n *Node) visit(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, child := range n.Nodes {
		if !child.visit(fn) {
			return false
		}
	}
	for _, child := range n.FloatingNodes {
		if !child.visit(fn) {
			return false
		}
	}
	return true
}

// Walk calls fn for every node of the subtree in preorder.
func (n *Node) Walk(fn func(*Node)) {
	n.visit(func(node *Node) bool {
		fn(node)
		return true
	})
}

// Windows collects all views of the subtree in preorder.
func (n *Node) Windows() []*Node {
	var windows []*Node
	n.Walk(func(node *Node) {
		if node.IsWindow() {
			windows = append(windows, node)
		}
	})
	return windows
}
