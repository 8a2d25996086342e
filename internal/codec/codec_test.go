package codec

import (
	"strings"
	"testing"
	"time"

	"github.com/atikulmunna/agentlog/internal/model"
)

func TestRoundTrip(t *testing.T) {
	in := model.Entry{
		Timestamp: "2026-01-09T02:48:00-04:00",
		Agent:     "BLACKBOX-TEST",
		Type:      "test",
		Task:      "Unit Testing",
		Content:   "This is a test content.",
	}

	out := Decode(Encode(in))
	if len(out) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(out))
	}
	if out[0] != in {
		t.Errorf("expected %+v, got %+v", in, out[0])
	}
}

func TestEncodeOmitsEmptyTask(t *testing.T) {
	block := Encode(model.Entry{Timestamp: "ts", Agent: "A", Type: "general", Content: "c"})

	if strings.Contains(block, "Task:") {
		t.Errorf("expected no Task line, got %q", block)
	}
	want := "ts AST\nActor: A\nType: general\nContent: c\n---\n"
	if block != want {
		t.Errorf("expected %q, got %q", want, block)
	}
}

func TestEncodeTruncatesContent(t *testing.T) {
	in := model.Entry{Timestamp: "ts", Agent: "A", Type: "general", Content: strings.Repeat("A", 600)}

	out := Decode(Encode(in))
	if len(out) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(out))
	}
	want := strings.Repeat("A", 500) + "..."
	if out[0].Content != want {
		t.Errorf("expected 500 A's plus ellipsis, got %d chars", len(out[0].Content))
	}
}

func TestEncodeTruncatesByCharacter(t *testing.T) {
	in := model.Entry{Timestamp: "ts", Agent: "A", Content: strings.Repeat("é", 501)}

	out := Decode(Encode(in))
	if got := []rune(out[0].Content); len(got) != 503 {
		t.Errorf("expected 503 runes, got %d", len(got))
	}
}

func TestEncodeExactlyMaxIsNotTruncated(t *testing.T) {
	content := strings.Repeat("B", MaxContentLen)
	out := Decode(Encode(model.Entry{Agent: "A", Content: content}))

	if out[0].Content != content {
		t.Error("expected content of exactly MaxContentLen to survive unchanged")
	}
}

func TestEncodeFoldsLineBreaks(t *testing.T) {
	in := model.Entry{Timestamp: "ts", Agent: "A", Content: "line one\n---\nline two"}

	out := Decode(Encode(in))
	if len(out) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(out))
	}
	if out[0].Content != "line one --- line two" {
		t.Errorf("unexpected content %q", out[0].Content)
	}
}

func TestDecodeLegacyEntry(t *testing.T) {
	text := `01/09/2026, 02:48 AST
Actor: BLACKBOX-TEST
Type: test
Task: Unit Testing
Content: This is a test content.
---
`
	out := Decode(text)
	if len(out) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(out))
	}
	want := model.Entry{
		Timestamp: "01/09/2026, 02:48",
		Agent:     "BLACKBOX-TEST",
		Type:      "test",
		Task:      "Unit Testing",
		Content:   "This is a test content.",
	}
	if out[0] != want {
		t.Errorf("expected %+v, got %+v", want, out[0])
	}
}

func TestDecodeMultipleEntriesInFileOrder(t *testing.T) {
	text := Encode(model.Entry{Agent: "A", Content: "Content A"}) +
		Encode(model.Entry{Agent: "B", Content: "Content B"})

	out := Decode(text)
	if len(out) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(out))
	}
	if out[0].Agent != "A" || out[1].Agent != "B" {
		t.Errorf("expected A then B, got %s then %s", out[0].Agent, out[1].Agent)
	}
}

func TestDecodeDropsIncompleteBlocks(t *testing.T) {
	if out := Decode("Actor: X\n---\n"); len(out) != 0 {
		t.Errorf("expected no entries, got %d", len(out))
	}

	text := `01/09/2026, 02:48 AST
Type: test
---
Actor: Agent B
Content: Valid
---
`
	out := Decode(text)
	if len(out) != 1 || out[0].Agent != "Agent B" {
		t.Errorf("expected only Agent B, got %+v", out)
	}
}

func TestDecodeEmptyInput(t *testing.T) {
	for _, in := range []string{"", "   \n", "---\n---\n"} {
		out := Decode(in)
		if out == nil || len(out) != 0 {
			t.Errorf("Decode(%q): expected empty non-nil slice, got %v", in, out)
		}
	}
}

func TestDecodeReaderNil(t *testing.T) {
	out, err := DecodeReader(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 0 {
		t.Errorf("expected no entries, got %d", len(out))
	}
}

func TestDecodeIgnoresUnknownLinesAndKeepsTypeEmpty(t *testing.T) {
	text := "Actor: A\nMood: cheerful\nContent: hi\n---\n"

	out := Decode(text)
	if len(out) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(out))
	}
	if out[0].Type != "" {
		t.Errorf("expected decode to leave type empty, got %q", out[0].Type)
	}
}

func TestDecodeMarkerMatchesAnywhereOnLine(t *testing.T) {
	text := "  >> Actor:   Spaced  \nsomething Content: body\n---\n"

	out := Decode(text)
	if len(out) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(out))
	}
	if out[0].Agent != "Spaced" || out[0].Content != "body" {
		t.Errorf("unexpected entry %+v", out[0])
	}
}

func TestDecodeTaskMarkerInsideContentLine(t *testing.T) {
	// Task: is checked before Content:, so this line fills task.
	out := Decode("Actor: A\nContent: see Task: 12\nContent: real\n---\n")

	if len(out) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(out))
	}
	if out[0].Task != "12" {
		t.Errorf("expected task 12, got %q", out[0].Task)
	}
	if out[0].Content != "real" {
		t.Errorf("expected content 'real', got %q", out[0].Content)
	}
}

func TestDecodeCRLF(t *testing.T) {
	out := Decode("Actor: A\r\nContent: c\r\n---\r\n")
	if len(out) != 1 || out[0].Content != "c" {
		t.Errorf("unexpected result %+v", out)
	}
}

func TestParseTimestamp(t *testing.T) {
	halifax := time.FixedZone("AST", -4*3600)

	got, ok := ParseTimestamp("2026-01-09T02:48:00-04:00", nil)
	if !ok || !got.Equal(time.Date(2026, 1, 9, 6, 48, 0, 0, time.UTC)) {
		t.Errorf("RFC3339: got %v (ok=%v)", got, ok)
	}

	got, ok = ParseTimestamp("01/09/2026, 02:48 AST", halifax)
	if !ok || !got.Equal(time.Date(2026, 1, 9, 6, 48, 0, 0, time.UTC)) {
		t.Errorf("legacy: got %v (ok=%v)", got, ok)
	}

	if _, ok := ParseTimestamp("not a date", nil); ok {
		t.Error("expected garbage to fail")
	}
	if _, ok := ParseTimestamp("", nil); ok {
		t.Error("expected empty string to fail")
	}
}
