package parser

import (
	"regexp"
	"strings"

	"github.com/morozRed/crumbtrail/internal/crumb"
)

// State is the comment context the machine is in after a line.
type State int

const (
	StateOutside State = iota
	StateBlock
	StateJSON
)

func (s State) String() string {
	switch s {
	case StateOutside:
		return "outside"
	case StateBlock:
		return "block"
	case StateJSON:
		return "json"
	default:
		return "unknown"
	}
}

var tagPattern = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9_]*)\s*:\s*(.*)$`)

// Machine is the comment scanner for one file. It is a pure fold over lines:
// Step never mutates the receiver and returns the next machine together with
// the breadcrumb flushed by that line, if any.
type Machine struct {
	path      string
	inBlock   bool
	inJSON    bool
	tags      map[string]string
	context   any
	startLine int
	lastLine  int
	collector contextCollector
	dropped   int
}

// NewMachine returns a machine in the outside state for path.
func NewMachine(path string) Machine {
	return Machine{path: path}
}

// State reports the current comment context.
func (m Machine) State() State {
	switch {
	case m.inJSON:
		return StateJSON
	case m.inBlock:
		return StateBlock
	default:
		return StateOutside
	}
}

// Pending reports whether tags are waiting to be flushed.
func (m Machine) Pending() bool {
	return len(m.tags) > 0
}

// Dropped counts AI_CONTEXT blocks discarded because their comment closed
// before the JSON parsed.
func (m Machine) Dropped() int {
	return m.dropped
}

// Step consumes line number lineNo.
func (m Machine) Step(lineNo int, line string) (Machine, *crumb.Breadcrumb) {
	m.lastLine = lineNo
	trimmed := strings.TrimSpace(strings.TrimRight(line, "\r"))
	if m.inBlock {
		return m.stepBlock(lineNo, trimmed)
	}
	return m.stepOutside(lineNo, trimmed)
}

// Finish flushes whatever is pending at end of input.
func (m Machine) Finish() (Machine, *crumb.Breadcrumb) {
	if m.startLine == 0 {
		m.startLine = m.lastLine
	}
	m.inBlock = false
	return m.flush()
}

func (m Machine) stepOutside(lineNo int, trimmed string) (Machine, *crumb.Breadcrumb) {
	switch {
	case trimmed == "":
		return m, nil

	case strings.HasPrefix(trimmed, "//"):
		body := strings.TrimSpace(strings.TrimLeft(trimmed, "/"))
		return m.commentText(lineNo, body), nil

	case strings.HasPrefix(trimmed, "/*"):
		rest := trimmed[2:]
		if end := strings.Index(rest, "*/"); end >= 0 {
			return m.blockText(lineNo, rest[:end]), nil
		}
		m.inBlock = true
		return m.blockText(lineNo, rest), nil
	}

	// Code line. Pending tags end here, and a trailing unterminated "/*"
	// opens a block for the next group.
	m, flushed := m.flush()
	if open := strings.LastIndex(trimmed, "/*"); open >= 0 && !strings.Contains(trimmed[open+2:], "*/") {
		m.inBlock = true
		m = m.blockText(lineNo, trimmed[open+2:])
	}
	return m, flushed
}

func (m Machine) stepBlock(lineNo int, trimmed string) (Machine, *crumb.Breadcrumb) {
	end := strings.Index(trimmed, "*/")
	if end < 0 {
		return m.blockText(lineNo, trimmed), nil
	}

	m = m.blockText(lineNo, trimmed[:end])
	m.inBlock = false
	return m.flush()
}

// blockText strips the optional leading "*" of a block comment line.
func (m Machine) blockText(lineNo int, text string) Machine {
	text = strings.TrimSpace(text)
	text = strings.TrimSpace(strings.TrimLeft(text, "*"))
	return m.commentText(lineNo, text)
}

// commentText handles the undecorated body of a comment line.
func (m Machine) commentText(lineNo int, body string) Machine {
	if m.inJSON {
		return m.feedContext(body)
	}

	match := tagPattern.FindStringSubmatch(body)
	if match == nil {
		return m
	}
	name, ok := crumb.CanonicalTag(match[1])
	if !ok {
		return m
	}
	value := strings.TrimSpace(match[2])

	if m.startLine == 0 {
		m.startLine = lineNo
	}

	if name == crumb.TagContext {
		m.tags = withoutTag(m.tags, crumb.TagContext)
		m.context = nil
		m.inJSON = true
		m.collector = contextCollector{}
		return m.feedContext(value)
	}

	m.tags = withTag(m.tags, name, value)
	return m
}

func (m Machine) feedContext(text string) Machine {
	collector, value, done := m.collector.feed(text)
	m.collector = collector
	if !done {
		return m
	}
	m.context = value
	m.tags = withTag(m.tags, crumb.TagContext, collector.text())
	m.inJSON = false
	m.collector = contextCollector{}
	return m
}

// flush emits the pending breadcrumb and resets the accumulator. An
// unfinished AI_CONTEXT is dropped first: its comment has closed.
func (m Machine) flush() (Machine, *crumb.Breadcrumb) {
	if m.inJSON {
		m.inJSON = false
		m.collector = contextCollector{}
		m.dropped++
	}

	var out *crumb.Breadcrumb
	if len(m.tags) > 0 {
		b := crumb.Build(m.path, m.startLine, m.tags, m.context)
		out = &b
	}

	m.tags = nil
	m.context = nil
	m.startLine = 0
	return m, out
}

func withTag(tags map[string]string, name, value string) map[string]string {
	out := make(map[string]string, len(tags)+1)
	for k, v := range tags {
		out[k] = v
	}
	out[name] = value
	return out
}

func withoutTag(tags map[string]string, name string) map[string]string {
	if _, ok := tags[name]; !ok {
		return tags
	}
	out := make(map[string]string, len(tags))
	for k, v := range tags {
		if k != name {
			out[k] = v
		}
	}
	return out
}
