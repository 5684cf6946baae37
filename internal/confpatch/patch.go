// Package confpatch applies a resolved option set to Marlin-style C
// configuration headers. Enables become active #define directives, updated
// in place where the header already declares the option and appended when it
// does not; disables comment an active directive out. Everything the option
// set does not own is preserved byte for byte, line endings included.
package confpatch

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/firmforge/internal/ctxlog"
	"github.com/vk/firmforge/internal/document"
)

// Apply patches header text with every option in the set and returns the
// rewritten text. Only the first matching directive per option is touched.
func Apply(ctx context.Context, src string, set *document.OptionSet) (string, error) {
	if set == nil {
		return src, nil
	}

	lines := splitLines(src)
	end := fileEOL(lines)

	var err error
	for _, opt := range set.Enable {
		lines, err = applyEnable(ctx, lines, opt, end)
		if err != nil {
			return "", fmt.Errorf("enable %s: %w", opt.Name, err)
		}
	}
	for _, opt := range set.Disable {
		applyDisable(ctx, lines, opt.Name)
	}
	return joinLines(lines), nil
}

// applyEnable activates one option. An already active directive keeps its
// value unless the option carries one; a commented directive is uncommented;
// a header that never mentions the option grows a directive at the end.
func applyEnable(ctx context.Context, lines []line, opt document.Option, end string) ([]line, error) {
	logger := ctxlog.FromContext(ctx)

	var value string
	if opt.HasValue() {
		rendered, err := RenderValue(opt.Value)
		if err != nil {
			return nil, err
		}
		value = rendered
	}

	if i := findDirective(lines, opt.Name, false); i >= 0 {
		if opt.HasValue() {
			d, _ := parseDirective(lines[i].body)
			lines[i].body = d.enabledWith(value)
			logger.Debug("updated directive value", "option", opt.Name, "value", value)
		}
		return lines, nil
	}

	if i := findDirective(lines, opt.Name, true); i >= 0 {
		d, _ := parseDirective(lines[i].body)
		if opt.HasValue() {
			lines[i].body = d.enabledWith(value)
		} else {
			lines[i].body = d.enabledBare()
		}
		logger.Debug("uncommented directive", "option", opt.Name)
		return lines, nil
	}

	body := "#define " + opt.Name
	if opt.HasValue() {
		body += " " + value
	}
	logger.Debug("appended directive", "option", opt.Name)
	return appendLine(lines, body, end), nil
}

// applyDisable comments out the first active directive for the name. A name
// the header never defines, or defines only commented out, is left alone.
func applyDisable(ctx context.Context, lines []line, name string) {
	if i := findDirective(lines, name, false); i >= 0 {
		d, _ := parseDirective(lines[i].body)
		lines[i].body = d.disabled()
		ctxlog.FromContext(ctx).Debug("commented directive out", "option", name)
	}
}

// line is one source line: the body and the newline bytes that ended it,
// kept apart so untouched lines survive byte for byte.
type line struct {
	body string
	end  string
}

func splitLines(src string) []line {
	var lines []line
	for len(src) > 0 {
		i := strings.IndexByte(src, '\n')
		if i < 0 {
			lines = append(lines, line{body: src})
			break
		}
		body, end := src[:i], "\n"
		if strings.HasSuffix(body, "\r") {
			body, end = body[:len(body)-1], "\r\n"
		}
		lines = append(lines, line{body: body, end: end})
		src = src[i+1:]
	}
	return lines
}

func joinLines(lines []line) string {
	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString(l.body)
		sb.WriteString(l.end)
	}
	return sb.String()
}

// fileEOL picks the line ending appended directives use: whatever the first
// terminated line uses, defaulting to \n for headers without one.
func fileEOL(lines []line) string {
	for _, l := range lines {
		if l.end != "" {
			return l.end
		}
	}
	return "\n"
}

// appendLine adds a directive at the end of the header, keeping the header's
// trailing-newline convention.
func appendLine(lines []line, body, end string) []line {
	if n := len(lines) - 1; n >= 0 && lines[n].end == "" {
		lines[n].end = end
		return append(lines, line{body: body})
	}
	return append(lines, line{body: body, end: end})
}

// directive is a parsed, possibly commented-out #define line.
type directive struct {
	indent    string
	commented bool
	name      string
	rest      string // everything after the name, leading separator included
}

func (d directive) enabledBare() string {
	return d.indent + "#define " + d.name + d.rest
}

func (d directive) enabledWith(value string) string {
	return d.indent + "#define " + d.name + " " + value
}

func (d directive) disabled() string {
	return d.indent + "//#define " + d.name + d.rest
}

// findDirective returns the index of the first line holding a directive for
// name in the wanted comment state, or -1.
func findDirective(lines []line, name string, commented bool) int {
	for i, l := range lines {
		if d, ok := parseDirective(l.body); ok && d.name == name && d.commented == commented {
			return i
		}
	}
	return -1
}

// parseDirective reads a #define from a line body. Commented directives may
// carry spaces between the comment marker and the #define keyword.
func parseDirective(body string) (directive, bool) {
	var d directive

	s := strings.TrimLeft(body, " \t")
	d.indent = body[:len(body)-len(s)]

	if strings.HasPrefix(s, "//") {
		d.commented = true
		s = strings.TrimLeft(s[2:], " \t")
	}

	s, ok := strings.CutPrefix(s, "#define")
	if !ok {
		return directive{}, false
	}

	name := strings.TrimLeft(s, " \t")
	if len(name) == len(s) {
		// No separator after the keyword, e.g. "#defineFOO".
		return directive{}, false
	}
	n := identLen(name)
	if n == 0 {
		return directive{}, false
	}

	d.name = name[:n]
	d.rest = name[n:]
	return d, true
}

func identLen(s string) int {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
			if i == 0 {
				return 0
			}
		default:
			return i
		}
	}
	return len(s)
}
