package numbering

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// renderContext carries the inputs a placeholder may draw on.
type renderContext struct {
	now     time.Time
	counter int64
	padding int
}

// placeholders maps token names to render functions. Tokens are resolved
// independently of each other and of their position in the template.
// {PREFIX} and {SUFFIX} are reserved no-ops kept for format compatibility:
// prefixes and suffixes are embedded literally in the template.
var placeholders = map[string]func(rc renderContext) string{
	"YEAR":    func(rc renderContext) string { return fmt.Sprintf("%04d", rc.now.Year()) },
	"YY":      func(rc renderContext) string { return fmt.Sprintf("%02d", rc.now.Year()%100) },
	"MONTH":   func(rc renderContext) string { return fmt.Sprintf("%02d", int(rc.now.Month())) },
	"DAY":     func(rc renderContext) string { return fmt.Sprintf("%02d", rc.now.Day()) },
	"COUNTER": func(rc renderContext) string { return padCounter(rc.counter, rc.padding) },
	"PREFIX":  func(renderContext) string { return "" },
	"SUFFIX":  func(renderContext) string { return "" },
}

// Render expands a format template into a formatted number string.
// It is pure: identical inputs yield identical output, and no persisted
// state is read or written.
//
// Unknown placeholders and malformed braces pass through verbatim. User
// supplied templates must never fail to render, so there is no error return.
func Render(format string, counter int64, padding int, now time.Time) string {
	rc := renderContext{now: now, counter: counter, padding: padding}

	var b strings.Builder
	b.Grow(len(format) + 8)

	rest := format
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			b.WriteString(rest)
			return b.String()
		}
		b.WriteString(rest[:open])
		rest = rest[open:]

		close := strings.IndexByte(rest, '}')
		if close < 0 {
			// Unterminated brace, emit as literal.
			b.WriteString(rest)
			return b.String()
		}

		token := rest[1:close]
		if out, ok := renderToken(token, rc); ok {
			b.WriteString(out)
		} else {
			b.WriteString(rest[:close+1])
		}
		rest = rest[close+1:]
	}
}

// renderToken resolves a single token body. The second return is false when
// the token is unrecognized and must be kept verbatim.
func renderToken(token string, rc renderContext) (string, bool) {
	if fn, ok := placeholders[token]; ok {
		return fn(rc), true
	}
	// {COUNTER:N} with an explicit pad width.
	if width, ok := strings.CutPrefix(token, "COUNTER:"); ok {
		n, err := strconv.Atoi(width)
		if err != nil || n < 0 {
			return "", false
		}
		return padCounter(rc.counter, n), true
	}
	return "", false
}

// padCounter renders the counter left-padded with zeros to at least width
// digits. Values wider than width are never truncated.
func padCounter(counter int64, width int) string {
	if width <= 0 {
		return strconv.FormatInt(counter, 10)
	}
	return fmt.Sprintf("%0*d", width, counter)
}
