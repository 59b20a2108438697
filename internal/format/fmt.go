// Package format renders menu labels from user-configurable format
// strings. A placeholder has the shape
//
//	{name}  or  {name:{:[fill][<^>]width.prec}clip}
//
// where the inner braces hold an alignment/width/precision spec and clip is
// appended when precision actually truncates the value. All width and
// precision handling counts runes, not bytes.
package format

import (
	"regexp"
	"strconv"
	"strings"
)

var placeholderRx = regexp.MustCompile(`\{([^}:]+)(?::(\{[^}]*\})([^}]*))?\}`)

type spec struct {
	fill  rune
	align byte // '<', '^' or '>'
	width int
	prec  int // -1 when absent
}

// parseSpec reads the inner "{:…}" format spec.
func parseSpec(s string) (spec, bool) {
	sp := spec{fill: ' ', align: '<', prec: -1}
	if !strings.HasPrefix(s, "{") || !strings.HasSuffix(s, "}") {
		return sp, false
	}
	body := s[1 : len(s)-1]
	if body == "" {
		return sp, true
	}
	if !strings.HasPrefix(body, ":") {
		return sp, false
	}
	body = body[1:]
	runes := []rune(body)
	// Optional fill+align or bare align.
	if len(runes) >= 2 && isAlign(runes[1]) {
		sp.fill = runes[0]
		sp.align = byte(runes[1])
		runes = runes[2:]
	} else if len(runes) >= 1 && isAlign(runes[0]) {
		sp.align = byte(runes[0])
		runes = runes[1:]
	}
	rest := string(runes)
	var precStr string
	if dot := strings.IndexByte(rest, '.'); dot >= 0 {
		precStr = rest[dot+1:]
		rest = rest[:dot]
	}
	if rest != "" {
		w, err := strconv.Atoi(rest)
		if err != nil {
			return sp, false
		}
		sp.width = w
	}
	if precStr != "" {
		p, err := strconv.Atoi(precStr)
		if err != nil {
			return sp, false
		}
		sp.prec = p
	}
	return sp, true
}

func isAlign(r rune) bool {
	return r == '<' || r == '^' || r == '>'
}

// apply truncates to precision (marking the cut with clip), then pads to
// width.
func (sp spec) apply(value, clip string) string {
	runes := []rune(value)
	if sp.prec >= 0 && len(runes) > sp.prec {
		runes = runes[:sp.prec]
		if clip != "" {
			clipRunes := []rune(clip)
			if len(clipRunes) >= len(runes) {
				runes = clipRunes
			} else {
				runes = append(runes[:len(runes)-len(clipRunes)], clipRunes...)
			}
		}
	}
	if pad := sp.width - len(runes); pad > 0 {
		filler := func(n int) []rune {
			f := make([]rune, n)
			for i := range f {
				f[i] = sp.fill
			}
			return f
		}
		switch sp.align {
		case '>':
			runes = append(filler(pad), runes...)
		case '^':
			left := pad / 2
			runes = append(append(filler(left), runes...), filler(pad-left)...)
		default:
			runes = append(runes, filler(pad)...)
		}
	}
	return string(runes)
}

// HTMLEscape escapes markup-significant characters for menu programs that
// interpret Pango markup.
func HTMLEscape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

// Subst replaces every placeholder whose name get resolves; unresolved
// placeholders are left verbatim. Resolved values are HTML-escaped when
// htmlEscape is set, after format-spec application so padding is not
// distorted by escape expansion fits.
func Subst(format string, htmlEscape bool, get func(name string) (string, bool)) string {
	return placeholderRx.ReplaceAllStringFunc(format, func(match string) string {
		groups := placeholderRx.FindStringSubmatch(match)
		name := groups[1]
		value, ok := get(name)
		if !ok {
			return match
		}
		if groups[2] != "" {
			if sp, ok := parseSpec(groups[2]); ok {
				value = sp.apply(value, groups[3])
			}
		}
		if htmlEscape {
			value = HTMLEscape(value)
		}
		return value
	})
}
