// Package codec converts between model.Entry values and the text block
// format of the agent conversation log.
//
//	2026-01-09T02:48:00-04:00 AST
//	Actor: CLAUDE
//	Type: feature
//	Task: Login page
//	Content: Added the form.
//	---
package codec

import (
	"bufio"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/atikulmunna/agentlog/internal/model"
)

const (
	// ZoneMarker suffixes the timestamp line of every block.
	ZoneMarker = "AST"
	// Separator is the line that terminates every block.
	Separator = "---"
	// MaxContentLen is the number of content characters kept on disk.
	MaxContentLen = 500
	// Ellipsis marks content that was cut at MaxContentLen.
	Ellipsis = "..."
)

// ---------------------------------------------------------------------------
// Encode
// ---------------------------------------------------------------------------

// Encode renders an entry as a newline-terminated block followed by the
// separator line. Content longer than MaxContentLen characters is cut and
// suffixed with Ellipsis. Line breaks inside field values are folded into
// spaces so one field always occupies one line.
func Encode(e model.Entry) string {
	var b strings.Builder

	b.WriteString(oneLine(e.Timestamp))
	b.WriteString(" " + ZoneMarker + "\n")
	b.WriteString("Actor: " + oneLine(e.Agent) + "\n")
	b.WriteString("Type: " + oneLine(e.Type) + "\n")
	if e.Task != "" {
		b.WriteString("Task: " + oneLine(e.Task) + "\n")
	}
	b.WriteString("Content: " + oneLine(truncateContent(e.Content)) + "\n")
	b.WriteString(Separator + "\n")

	return b.String()
}

// truncateContent keeps the first MaxContentLen characters of s.
func truncateContent(s string) string {
	if utf8.RuneCountInString(s) <= MaxContentLen {
		return s
	}
	return string([]rune(s)[:MaxContentLen]) + Ellipsis
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

func oneLine(s string) string {
	return lineBreaks.Replace(s)
}

// ---------------------------------------------------------------------------
// Decode
// ---------------------------------------------------------------------------

// field pairs a line marker with the entry field it fills.
type field struct {
	marker string
	set    func(e *model.Entry, line string)
}

// Markers match anywhere on a line, first match wins. Existing log files
// were written under these loose rules, so matching stays unanchored.
var fields = []field{
	{"Actor:", func(e *model.Entry, line string) { e.Agent = valueAfter(line, "Actor:") }},
	{"Type:", func(e *model.Entry, line string) { e.Type = valueAfter(line, "Type:") }},
	{"Task:", func(e *model.Entry, line string) { e.Task = valueAfter(line, "Task:") }},
	{"Content:", func(e *model.Entry, line string) { e.Content = valueAfter(line, "Content:") }},
	{ZoneMarker, func(e *model.Entry, line string) {
		e.Timestamp = strings.TrimSpace(strings.Replace(line, " "+ZoneMarker, "", 1))
	}},
}

// valueAfter returns the trimmed text between the first occurrence of
// marker and the next one (or the end of the line).
func valueAfter(line, marker string) string {
	i := strings.Index(line, marker)
	if i < 0 {
		return ""
	}
	rest := line[i+len(marker):]
	if j := strings.Index(rest, marker); j >= 0 {
		rest = rest[:j]
	}
	return strings.TrimSpace(rest)
}

// Decode parses log text into entries in file order. Blocks without an
// agent or content are torn writes and are skipped. Decode never fails.
func Decode(text string) []model.Entry {
	if strings.TrimSpace(text) == "" {
		return []model.Entry{}
	}

	entries := []model.Entry{}
	var block []string

	flush := func() {
		if e, ok := decodeBlock(block); ok {
			entries = append(entries, e)
		}
		block = block[:0]
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == Separator {
			flush()
			continue
		}
		block = append(block, line)
	}
	flush()

	return entries
}

// DecodeReader reads r to EOF and decodes it. A nil reader yields no entries.
func DecodeReader(r io.Reader) ([]model.Entry, error) {
	if r == nil {
		return []model.Entry{}, nil
	}
	data, err := io.ReadAll(bufio.NewReader(r))
	if err != nil {
		return nil, err
	}
	return Decode(string(data)), nil
}

func decodeBlock(lines []string) (model.Entry, bool) {
	var e model.Entry
	for _, line := range lines {
		for _, f := range fields {
			if strings.Contains(line, f.marker) {
				f.set(&e, line)
				break
			}
		}
	}
	return e, e.Agent != "" && e.Content != ""
}

// ---------------------------------------------------------------------------
// Timestamps
// ---------------------------------------------------------------------------

// TimeLayout is the layout written to the timestamp line.
const TimeLayout = time.RFC3339

// legacyLayouts are the locale renderings found in older log files.
var legacyLayouts = []string{
	"01/02/2006, 15:04:05",
	"01/02/2006, 15:04",
	"1/2/2006, 3:04:05 PM",
	"2006-01-02 15:04:05",
}

// FormatTimestamp renders t for the timestamp line.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimeLayout)
}

// ParseTimestamp parses an RFC 3339 timestamp or one of the legacy locale
// renderings. Legacy values carry no offset and are read in loc.
func ParseTimestamp(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), ZoneMarker))
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range legacyLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
