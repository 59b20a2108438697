package cmds

import (
	"regexp"
	"strings"
)

// InputKind classifies non-matching menu input.
type InputKind int

const (
	// InputWorkspace treats the text as a workspace target.
	InputWorkspace InputKind = iota
	// InputRawCommand executes the text verbatim as a compositor command.
	InputRawCommand
)

// ParsedInput is the result of parsing free menu text.
type ParsedInput struct {
	Kind InputKind
	// Text is the compositor command for InputRawCommand or the workspace
	// name for InputWorkspace.
	Text string
	// Numbered is set for workspace targets of the form <digits>:<name>,
	// which create or switch via the numbered-workspace form. Digit-only
	// input is a plain workspace name, not a numbered one.
	Numbered bool
}

var numberedWorkspaceRx = regexp.MustCompile(`^(\d+):(.+)$`)

// ParseNonMatching interprets menu input that matched no candidate label.
// Leading '#' characters are stripped; they only exist to force the input
// past the menu program's match-an-entry behavior. The remainder is either
// "s:<cmd>" (raw compositor command), "w:<spec>" or a bare workspace spec.
func ParseNonMatching(input string) ParsedInput {
	text := strings.TrimLeft(input, "#")
	if rest, ok := strings.CutPrefix(text, "s:"); ok {
		return ParsedInput{Kind: InputRawCommand, Text: rest}
	}
	if rest, ok := strings.CutPrefix(text, "w:"); ok {
		text = rest
	}
	if numberedWorkspaceRx.MatchString(text) {
		return ParsedInput{Kind: InputWorkspace, Text: text, Numbered: true}
	}
	return ParsedInput{Kind: InputWorkspace, Text: text}
}

// WorkspaceCommand builds the compositor command switching to the parsed
// workspace target.
func (p ParsedInput) WorkspaceCommand() string {
	if p.Numbered {
		return "workspace number " + p.Text
	}
	return "workspace " + p.Text
}

// MoveToWorkspaceCommand builds the compositor command moving the focused
// container to the parsed workspace target.
func (p ParsedInput) MoveToWorkspaceCommand() string {
	if p.Numbered {
		return "move container to workspace number " + p.Text
	}
	return "move container to workspace " + p.Text
}
