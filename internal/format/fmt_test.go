package format

import "testing"

func get(vals map[string]string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		v, ok := vals[name]
		return v, ok
	}
}

func TestSubstPlainPlaceholder(t *testing.T) {
	got := Subst("win: {title} ({app_name})", false, get(map[string]string{
		"title":    "inbox",
		"app_name": "mail",
	}))
	if got != "win: inbox (mail)" {
		t.Fatalf("got %q", got)
	}
}

func TestSubstLeavesUnresolvedVerbatim(t *testing.T) {
	got := Subst("{title} on {workspace_name}", false, get(map[string]string{
		"title": "inbox",
	}))
	if got != "inbox on {workspace_name}" {
		t.Fatalf("got %q", got)
	}
}

func TestSubstSpecs(t *testing.T) {
	cases := []struct {
		format string
		value  string
		want   string
	}{
		// Precision truncates and the clip marks the cut.
		{"{title:{:.10}…}", "A very long title", "A very lo…"},
		{"{title:{:.10}}", "A very long title", "A very lon"},
		{"{title:{:.20}…}", "short", "short"},
		// Width pads to the left by default.
		{"{title:{:10}}", "short", "short     "},
		{"{title:{:>10}}", "short", "     short"},
		{"{title:{:^9}}", "short", "  short  "},
		{"{title:{:*<8}}", "ab", "ab******"},
		{"{title:{:->6}}", "ab", "----ab"},
		// Width and precision combine.
		{"{title:{:10.6}…}", "A very long title", "A ver…    "},
		// A clip longer than what precision keeps replaces the value.
		{"{title:{:.2}[……]}", "longish", "[……]"},
		// Empty inner spec is a plain substitution.
		{"{title:{}}", "x", "x"},
	}
	for _, tc := range cases {
		got := Subst(tc.format, false, get(map[string]string{"title": tc.value}))
		if got != tc.want {
			t.Errorf("Subst(%q, %q) = %q, want %q", tc.format, tc.value, got, tc.want)
		}
	}
}

func TestSubstCountsRunesNotBytes(t *testing.T) {
	got := Subst("{title:{:.3}}", false, get(map[string]string{"title": "äöüß"}))
	if got != "äöü" {
		t.Fatalf("got %q", got)
	}
	got = Subst("{title:{:>5}}", false, get(map[string]string{"title": "äöü"}))
	if got != "  äöü" {
		t.Fatalf("got %q", got)
	}
}

func TestSubstHTMLEscape(t *testing.T) {
	got := Subst("{title}", true, get(map[string]string{"title": `a <b> & "c"`}))
	if got != `a &lt;b&gt; &amp; "c"` {
		t.Fatalf("got %q", got)
	}
}

func TestHTMLEscapeDoesNotDoubleEscape(t *testing.T) {
	if got := HTMLEscape("<&>"); got != "&lt;&amp;&gt;" {
		t.Fatalf("got %q", got)
	}
}
