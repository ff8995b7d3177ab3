package parser

import (
	"encoding/json"
	"strings"
)

// contextCollector buffers AI_CONTEXT JSON spread over several comment lines.
// It is a value type: feed returns the updated collector.
type contextCollector struct {
	buf   string
	lines int
}

// feed appends one stripped comment line. When the line holds a closing brace
// the whole buffer is decoded; done reports a successful decode.
func (c contextCollector) feed(text string) (contextCollector, any, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return c, nil, false
	}
	if c.lines > 0 {
		c.buf += "\n"
	}
	c.buf += text
	c.lines++

	if !strings.Contains(text, "}") {
		return c, nil, false
	}

	var value any
	if err := json.Unmarshal([]byte(c.buf), &value); err != nil {
		return c, nil, false
	}
	return c, value, true
}

// text returns the buffer with the line breaks folded to single spaces.
func (c contextCollector) text() string {
	return strings.ReplaceAll(c.buf, "\n", " ")
}
