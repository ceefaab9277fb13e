package lsusb

import "fmt"

// ParseError reports input the parser cannot make structural sense of. It is
// fatal: Parse returns it instead of a partial model.
type ParseError struct {
	Line   int
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Text == "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Text)
}

// Warning records a field that could not be decoded. Parsing continues with a
// zero value for the field; the caller decides whether warnings matter. Text
// holds the offending line with its indentation stripped, matching
// ParseError.Text.
type Warning struct {
	Line    int
	Text    string
	Field   string
	Message string
}

func (w Warning) String() string {
	if w.Field == "" {
		return fmt.Sprintf("line %d: %s", w.Line, w.Message)
	}
	return fmt.Sprintf("line %d: %s: %s", w.Line, w.Field, w.Message)
}

func (p *parser) warnf(ln line, field, format string, args ...any) {
	p.warnings = append(p.warnings, Warning{
		Line:    ln.num,
		Text:    ln.text,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	})
}
