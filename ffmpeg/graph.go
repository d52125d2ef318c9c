// Package ffmpeg is the boundary to the external media executor. It holds
// the process runner, the duration probe and a small typed builder that
// serializes filter-graph descriptors, keeping string escaping out of the
// timeline logic.
package ffmpeg

import (
	"fmt"
	"strings"
)

type param struct {
	key   string
	value string
}

// Filter is one named filter stage with ordered parameters.
type Filter struct {
	name   string
	params []param
}

func NewFilter(name string) *Filter {
	return &Filter{name: name}
}

// Arg appends a key=value parameter. An empty key emits a positional value.
func (f *Filter) Arg(key, value string) *Filter {
	f.params = append(f.params, param{key: key, value: value})
	return f
}

func (f *Filter) Argf(key, format string, a ...interface{}) *Filter {
	return f.Arg(key, fmt.Sprintf(format, a...))
}

func (f *Filter) ArgInt(key string, value int) *Filter {
	return f.Arg(key, fmt.Sprintf("%d", value))
}

// Expr appends a single-quoted expression parameter, e.g. z='1.2+0.001*on'.
func (f *Filter) Expr(key, expr string) *Filter {
	return f.Arg(key, "'"+expr+"'")
}

// Text appends a quoted free-text parameter with filter metacharacters
// escaped, as drawtext requires.
func (f *Filter) Text(key, text string) *Filter {
	return f.Arg(key, "'"+EscapeText(text)+"'")
}

func (f *Filter) String() string {
	if len(f.params) == 0 {
		return f.name
	}
	parts := make([]string, 0, len(f.params))
	for _, p := range f.params {
		if p.key == "" {
			parts = append(parts, p.value)
			continue
		}
		parts = append(parts, p.key+"="+p.value)
	}
	return f.name + "=" + strings.Join(parts, ":")
}

// Chain is a sequence of filters applied one after another.
type Chain []*Filter

func (c Chain) String() string {
	parts := make([]string, 0, len(c))
	for _, f := range c {
		parts = append(parts, f.String())
	}
	return strings.Join(parts, ",")
}

// Link is one labeled chain inside a complex graph:
// [in...]filter,filter[out...].
type Link struct {
	Inputs  []string
	Chain   Chain
	Outputs []string
}

// Graph is a full -filter_complex descriptor.
type Graph []Link

func (g Graph) String() string {
	parts := make([]string, 0, len(g))
	for _, l := range g {
		var b strings.Builder
		for _, in := range l.Inputs {
			b.WriteString("[" + in + "]")
		}
		b.WriteString(l.Chain.String())
		for _, out := range l.Outputs {
			b.WriteString("[" + out + "]")
		}
		parts = append(parts, b.String())
	}
	return strings.Join(parts, ";")
}

// EscapeText escapes the characters the filter parser treats specially
// inside quoted drawtext values.
func EscapeText(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "'", "\\'")
	s = strings.ReplaceAll(s, ":", "\\:")
	s = strings.ReplaceAll(s, ",", "\\,")
	return s
}

// EscapePath escapes a file path for use as a filter argument, e.g. the
// subtitles filter.
func EscapePath(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	path = strings.ReplaceAll(path, ":", "\\:")
	return path
}
