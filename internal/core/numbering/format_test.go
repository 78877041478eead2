package numbering

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var renderNow = time.Date(2025, time.March, 7, 10, 30, 0, 0, time.UTC)

func TestRender_Placeholders(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		counter int64
		padding int
		want    string
	}{
		{name: "explicit width pads", format: "{COUNTER:5}", counter: 42, padding: 0, want: "00042"},
		{name: "explicit width never truncates", format: "{COUNTER:5}", counter: 123456, padding: 0, want: "123456"},
		{name: "default padding fallback", format: "{COUNTER}", counter: 7, padding: 3, want: "007"},
		{name: "zero padding renders plain", format: "{COUNTER}", counter: 7, padding: 0, want: "7"},
		{name: "year", format: "{YEAR}", counter: 1, padding: 0, want: "2025"},
		{name: "two digit year", format: "{YY}", counter: 1, padding: 0, want: "25"},
		{name: "month is two digit one indexed", format: "{MONTH}", counter: 1, padding: 0, want: "03"},
		{name: "day is two digit", format: "{DAY}", counter: 1, padding: 0, want: "07"},
		{name: "prefix and suffix are no-ops", format: "{PREFIX}A-{COUNTER:2}{SUFFIX}", counter: 3, padding: 0, want: "A-03"},
		{name: "literal text passes through", format: "WO-{YEAR}-{COUNTER:5}", counter: 1, padding: 0, want: "WO-2025-00001"},
		{name: "tokens in any order", format: "{COUNTER:3}/{MONTH}{YY}", counter: 9, padding: 0, want: "009/0325"},
		{name: "repeated token", format: "{YEAR}{YEAR}", counter: 1, padding: 0, want: "20252025"},
		{name: "no placeholders at all", format: "STATIC", counter: 99, padding: 4, want: "STATIC"},
		{name: "empty format", format: "", counter: 1, padding: 4, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Render(tt.format, tt.counter, tt.padding, renderNow)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Unknown and malformed placeholders pass through verbatim. This is the
// current leniency policy for user-entered templates, asserted here as
// observed behavior rather than endorsed design.
func TestRender_Leniency(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		counter int64
		want    string
	}{
		{name: "unknown token kept verbatim", format: "ORDER-{UNKNOWN}-{COUNTER:3}", counter: 5, want: "ORDER-{UNKNOWN}-005"},
		{name: "unterminated brace kept", format: "A-{COUNTER:3", counter: 5, want: "A-{COUNTER:3"},
		{name: "empty token kept", format: "A-{}-B", counter: 5, want: "A-{}-B"},
		{name: "bad counter width kept", format: "{COUNTER:x}", counter: 5, want: "{COUNTER:x}"},
		{name: "negative counter width kept", format: "{COUNTER:-2}", counter: 5, want: "{COUNTER:-2}"},
		{name: "lowercase token is unknown", format: "{counter}", counter: 5, want: "{counter}"},
		{name: "stray closing brace literal", format: "}{YY}", counter: 5, want: "}25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Render(tt.format, tt.counter, 0, renderNow)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRender_Idempotent(t *testing.T) {
	first := Render("INV-{YEAR}{MONTH}-{COUNTER:4}", 17, 0, renderNow)
	second := Render("INV-{YEAR}{MONTH}-{COUNTER:4}", 17, 0, renderNow)
	assert.Equal(t, "INV-202503-0017", first)
	assert.Equal(t, first, second)
}
