package lsusb

import (
	"bufio"
	"io"
	"strings"
)

// line is one non-blank input line with its indentation resolved to a depth.
type line struct {
	num   int    // 1-based position in the input
	depth int    // indentation depth in detected units
	text  string // content with leading whitespace stripped
}

// cursor walks the input line by line. Blank lines are dropped at load time
// so Peek always returns structural content.
type cursor struct {
	lines []line
	pos   int
}

const tabWidth = 8

// newCursor reads the whole input, normalizes tabs, and converts leading
// whitespace to depths. The indent unit is the smallest nonzero indentation
// seen, which for lsusb output is two spaces.
func newCursor(r io.Reader) (*cursor, error) {
	type rawLine struct {
		num    int
		indent int
		text   string
	}
	var raw []rawLine
	unit := 0

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	num := 0
	for sc.Scan() {
		num++
		expanded := expandTabs(sc.Text())
		text := strings.TrimLeft(expanded, " ")
		if strings.TrimSpace(text) == "" {
			continue
		}
		indent := len(expanded) - len(text)
		if indent > 0 && (unit == 0 || indent < unit) {
			unit = indent
		}
		raw = append(raw, rawLine{num: num, indent: indent, text: strings.TrimRight(text, " ")})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if unit == 0 {
		unit = 2
	}

	c := &cursor{lines: make([]line, 0, len(raw))}
	for _, rl := range raw {
		c.lines = append(c.lines, line{num: rl.num, depth: rl.indent / unit, text: rl.text})
	}
	return c, nil
}

func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			n := tabWidth - col%tabWidth
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteRune(r)
		col++
	}
	return b.String()
}

func (c *cursor) atEnd() bool { return c.pos >= len(c.lines) }

func (c *cursor) peek() line { return c.lines[c.pos] }

func (c *cursor) advance() line {
	ln := c.lines[c.pos]
	c.pos++
	return ln
}

// mark returns the current position for forward-progress checks.
func (c *cursor) mark() int { return c.pos }
